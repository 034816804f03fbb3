package collect

import (
	"path"
	"sort"
	"strings"

	"rqs/internal/paths"
)

// TextExts are extensions scanned as text by the heuristic detectors.
var TextExts = map[string]bool{
	".py": true, ".sh": true, ".bash": true, ".zsh": true, ".js": true, ".jsx": true,
	".ts": true, ".tsx": true, ".go": true, ".rb": true, ".rs": true, ".java": true,
	".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true, ".cs": true,
	".php": true, ".swift": true, ".kt": true, ".kts": true, ".scala": true, ".lua": true,
	".sql": true, ".md": true, ".rst": true, ".txt": true, ".toml": true, ".yaml": true,
	".yml": true, ".json": true, ".xml": true, ".ini": true, ".cfg": true, ".conf": true,
}

var textBasenames = map[string]bool{"makefile": true, "dockerfile": true, "rakefile": true}

// IsTextCandidate reports whether a tracked path should be read as text.
func IsTextCandidate(rel string) bool {
	if TextExts[paths.Ext(rel)] {
		return true
	}
	if textBasenames[strings.ToLower(path.Base(rel))] {
		return true
	}
	return strings.HasPrefix(rel, "bin/") || strings.HasPrefix(rel, "scripts/")
}

var (
	sourcePrefixes = []string{"bin/", "src/", "lib/", "app/", "core/", "cmd/", "internal/"}
	configPrefixes = []string{"conf/", "config/", ".github/"}
	scanCodeExts   = map[string]bool{
		".py": true, ".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true,
		".go": true, ".rs": true, ".java": true, ".js": true, ".ts": true, ".sh": true,
		".bash": true, ".lua": true,
	}
	scanDocExts = map[string]bool{".md": true, ".rst": true, ".txt": true}
	buildNames  = map[string]bool{"makefile": true, "cmakelists.txt": true, "dockerfile": true}
)

// ScanPriority ranks a path for full-text scanning when the candidate set
// exceeds the scan limit.
func ScanPriority(rel string) int {
	lower := strings.ToLower(rel)
	score := 0
	if paths.HasAnyPrefix(lower, sourcePrefixes) {
		score += 8
	}
	if strings.HasPrefix(lower, "tests/") || strings.HasPrefix(lower, "test/") ||
		strings.Contains(lower, "/tests/") || strings.Contains(lower, "/test/") {
		score += 6
	}
	if paths.HasAnyPrefix(lower, configPrefixes) {
		score += 5
	}
	ext := paths.Ext(lower)
	if scanCodeExts[ext] {
		score += 7
	}
	if scanDocExts[ext] {
		score -= 3
	}
	if buildNames[path.Base(lower)] {
		score += 2
	}
	return score
}

// SelectForScan keeps text candidates, and when more than limit remain,
// the limit highest-priority ones ordered by (-priority, path).
func SelectForScan(files []string, limit int) []string {
	var candidates []string
	for _, f := range files {
		if IsTextCandidate(f) {
			candidates = append(candidates, f)
		}
	}
	if limit <= 0 || len(candidates) <= limit {
		return candidates
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := ScanPriority(candidates[i]), ScanPriority(candidates[j])
		if pi != pj {
			return pi > pj
		}
		return candidates[i] < candidates[j]
	})
	return candidates[:limit]
}
