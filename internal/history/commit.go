// Package history models commit activity over time: numstat churn logs,
// fixed-size commit buckets, per-file and per-author histograms, and the
// continuity ratio used by the churn report and the primer.
package history

import (
	"strconv"
	"strings"

	"rqs/internal/paths"
)

// UnknownAuthor is used when a commit header carries no author.
const UnknownAuthor = "(unknown)"

const commitMarker = "COMMIT"

// FileChange is one numstat row: lines added plus deleted for a path.
type FileChange struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Commit is one commit with the files it touched.
type Commit struct {
	Author string       `json:"author"`
	Files  []FileChange `json:"files"`
}

// ParseNumstatLog parses `git log --pretty=format:COMMIT%x09%an --numstat`
// output into commits ordered oldest first. Binary rows and rows with
// non-numeric counts are skipped. Commits without usable rows are dropped.
func ParseNumstatLog(text string) []Commit {
	var commits []Commit
	var current *Commit

	flush := func() {
		if current != nil && len(current.Files) > 0 {
			commits = append(commits, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.HasPrefix(line, commitMarker) {
			flush()
			author := UnknownAuthor
			if _, rest, ok := strings.Cut(line, "\t"); ok && strings.TrimSpace(rest) != "" {
				author = strings.TrimSpace(rest)
			}
			current = &Commit{Author: author}
			continue
		}
		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}
		change, ok := parseNumstatRow(line)
		if !ok {
			continue
		}
		current.Files = append(current.Files, change)
	}
	flush()

	reverse(commits)
	return commits
}

func parseNumstatRow(line string) (FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 || parts[0] == "-" || parts[1] == "-" {
		return FileChange{}, false
	}
	added, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return FileChange{}, false
	}
	deleted, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return FileChange{}, false
	}
	path := paths.StripGitQuote(strings.TrimSpace(parts[2]))
	if path == "" {
		return FileChange{}, false
	}
	return FileChange{Path: path, Lines: added + deleted}, true
}

// ParseTouchLog parses `git log --pretty=format:COMMIT --name-only` output
// into per-commit file lists, oldest first. When keep is non-nil only paths
// it accepts are retained; commits left empty are dropped.
func ParseTouchLog(text string, keep func(string) bool) [][]string {
	var commits [][]string
	var current []string
	open := false

	flush := func() {
		if open && len(current) > 0 {
			commits = append(commits, current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == commitMarker {
			flush()
			open = true
			continue
		}
		if !open || line == "" {
			continue
		}
		path := paths.StripGitQuote(line)
		if keep != nil && !keep(path) {
			continue
		}
		current = append(current, path)
	}
	flush()

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits
}

func reverse(commits []Commit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}
