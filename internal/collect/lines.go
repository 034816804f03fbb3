package collect

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CountLines counts lines of every file under root. Unreadable files count
// as 0. The map is built after all workers finish.
func CountLines(ctx context.Context, root string, files []string, workers int) map[string]int {
	counts := make([]int, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			counts[i] = lineCount(filepath.Join(root, filepath.FromSlash(rel)))
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]int, len(files))
	for i, rel := range files {
		out[rel] = counts[i]
	}
	return out
}

// lineCount counts newline-terminated lines plus a trailing partial line.
func lineCount(abs string) int {
	f, err := os.Open(abs)
	if err != nil {
		return 0
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, 64*1024)
	n, last := 0, byte('\n')
	for {
		k, err := r.Read(buf)
		if k > 0 {
			n += bytes.Count(buf[:k], []byte{'\n'})
			last = buf[k-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return n
		}
	}
	if last != '\n' {
		n++
	}
	return n
}

func workerLimit(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// IsExecutable reports whether any execute bit is set on the file.
func IsExecutable(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
