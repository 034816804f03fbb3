package history

import (
	"path"
	"strings"
)

// Filter restricts which commits and paths contribute to activity.
// Globs use path.Match syntax against the full repo-relative path, with
// "*" allowed to cross directories. Author patterns are case-insensitive
// substrings.
type Filter struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// IsZero reports whether the filter accepts everything.
func (f Filter) IsZero() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0 && len(f.Authors) == 0
}

// MatchPath applies the include and exclude globs.
func (f Filter) MatchPath(p string) bool {
	if len(f.Include) > 0 && !matchAny(p, f.Include) {
		return false
	}
	if len(f.Exclude) > 0 && matchAny(p, f.Exclude) {
		return false
	}
	return true
}

// MatchAuthor applies the author substrings.
func (f Filter) MatchAuthor(author string) bool {
	if len(f.Authors) == 0 {
		return true
	}
	lower := strings.ToLower(author)
	for _, want := range f.Authors {
		if want = strings.ToLower(strings.TrimSpace(want)); want != "" && strings.Contains(lower, want) {
			return true
		}
	}
	return false
}

// FilterAuthors keeps the commits whose author matches.
func (f Filter) FilterAuthors(commits []Commit) []Commit {
	if len(f.Authors) == 0 {
		return commits
	}
	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if f.MatchAuthor(c.Author) {
			kept = append(kept, c)
		}
	}
	return kept
}

func matchAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if globMatch(pattern, p) {
			return true
		}
	}
	return false
}

// "*.py" matches "src/a.py" and "src/*" matches "src/x/y.go".
func globMatch(pattern, name string) bool {
	if ok, err := path.Match(pattern, name); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	flat := strings.ReplaceAll(name, "/", "\x00")
	flatPattern := strings.ReplaceAll(pattern, "/", "\x00")
	ok, err := path.Match(flatPattern, flat)
	return err == nil && ok
}
