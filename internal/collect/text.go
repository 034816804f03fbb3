package collect

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxScanBytes bounds how much of a file is read for scanning.
const DefaultMaxScanBytes = 512000

// TextCache reads bounded file text and keeps the most recently used
// entries. Binary files (containing NUL) read as "".
type TextCache struct {
	root     string
	maxBytes int
	cache    *lru.Cache[string, string]
}

// NewTextCache creates a cache holding up to entries texts.
func NewTextCache(root string, maxBytes, entries int) (*TextCache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxScanBytes
	}
	if entries <= 0 {
		entries = 512
	}
	cache, err := lru.New[string, string](entries)
	if err != nil {
		return nil, err
	}
	return &TextCache{root: root, maxBytes: maxBytes, cache: cache}, nil
}

// Text returns the scanned text of rel, reading it on a miss.
func (c *TextCache) Text(rel string) string {
	if s, ok := c.cache.Get(rel); ok {
		return s
	}
	s := readBounded(filepath.Join(c.root, filepath.FromSlash(rel)), c.maxBytes)
	c.cache.Add(rel, s)
	return s
}

// Len is the number of cached entries.
func (c *TextCache) Len() int {
	return c.cache.Len()
}

// ReadAll reads files in parallel and returns path -> text. Every text is
// also offered to the cache.
func (c *TextCache) ReadAll(ctx context.Context, files []string, workers int) map[string]string {
	texts := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			texts[i] = c.Text(rel)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]string, len(files))
	for i, rel := range files {
		out[rel] = texts[i]
	}
	return out
}

func readBounded(abs string, maxBytes int) string {
	f, err := os.Open(abs)
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)))
	if err != nil {
		return ""
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return ""
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, nil)
	}
	return string(data)
}
