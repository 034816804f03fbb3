package detect

import (
	"path"
	"strings"

	"rqs/internal/paths"
)

// FileSet is the tracked file index used to resolve references.
type FileSet map[string]struct{}

// NewFileSet indexes files.
func NewFileSet(files []string) FileSet {
	s := make(FileSet, len(files))
	for _, f := range files {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether rel is tracked.
func (s FileSet) Has(rel string) bool {
	_, ok := s[rel]
	return ok
}

// firstTracked returns the first candidate, normalized, that is tracked.
func (s FileSet) firstTracked(candidates ...string) string {
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		n := normalize(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if s.Has(n) {
			return n
		}
	}
	return ""
}

// normalize cleans a slash path; paths escaping the root normalize to "".
func normalize(p string) string {
	if p == "" {
		return ""
	}
	c := paths.CleanRel(p)
	if c == "" || c == ".." || strings.HasPrefix(c, "../") || strings.HasPrefix(c, "/") {
		return ""
	}
	return c
}

func joinDir(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}

func baseName(rel string) string {
	return path.Base(rel)
}

// splitLines splits on "\n", dropping a trailing "\r" per line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
