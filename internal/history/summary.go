package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"rqs/internal/errors"
)

// FileChurn is the per-file churn consumed by importance scoring.
type FileChurn struct {
	Commits int `json:"commits" yaml:"commits"`
	Lines   int `json:"lines" yaml:"lines"`
}

// Summary maps repo-relative paths to their churn.
type Summary map[string]FileChurn

// Summarize totals commits and changed lines per path.
func Summarize(commits []Commit) Summary {
	s := make(Summary)
	for _, c := range commits {
		seen := make(map[string]bool, len(c.Files))
		for _, fc := range c.Files {
			entry := s[fc.Path]
			if !seen[fc.Path] {
				seen[fc.Path] = true
				entry.Commits++
			}
			entry.Lines += fc.Lines
			s[fc.Path] = entry
		}
	}
	return s
}

// Encode writes the summary as JSON. Keys are sorted by encoding/json.
func (s Summary) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DecodeSummary reads a JSON summary. Entries that do not decode as
// {commits, lines} are left out and their paths returned, sorted.
func DecodeSummary(r io.Reader) (Summary, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, errors.New(errors.MalformedInput, "churn data is not valid JSON", err, nil)
	}
	s := make(Summary, len(raw))
	var skipped []string
	for path, msg := range raw {
		var fc FileChurn
		if err := json.Unmarshal(msg, &fc); err != nil {
			skipped = append(skipped, path)
			continue
		}
		s[path] = fc
	}
	sort.Strings(skipped)
	return s, skipped, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WriteSummaryFile writes the summary to path, zstd-compressed when the
// path ends in ".zst".
func WriteSummaryFile(path string, s Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !compressed(path) {
		return s.Encode(f)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := s.Encode(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadSummaryFile loads a summary written by WriteSummaryFile or by
// `rqs churn-summary`. Skipped entries are reported as by DecodeSummary.
func ReadSummaryFile(path string) (Summary, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.New(errors.MissingInput, fmt.Sprintf("churn data %s not found", path), err, nil)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if !compressed(path) {
		return DecodeSummary(f)
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, errors.New(errors.MalformedInput, "churn data is not zstd", err, nil)
	}
	defer zr.Close()
	return DecodeSummary(zr)
}
