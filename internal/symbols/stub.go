//go:build !cgo

package symbols

import "context"

// Extractor is a no-op when cgo is disabled.
type Extractor struct{}

// NewExtractor returns nil when cgo is disabled.
func NewExtractor() *Extractor {
	return nil
}

// IsAvailable reports whether tree-sitter extraction is compiled in.
func IsAvailable() bool {
	return false
}

// Supports always reports false without cgo.
func Supports(string) bool {
	return false
}

// ExtractSource returns no tags without cgo.
func (e *Extractor) ExtractSource(ctx context.Context, relPath string, source []byte) ([]Tag, error) {
	return nil, nil
}
