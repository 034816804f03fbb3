package scoring

import (
	"math"
	"path"
	"sort"
	"strings"
)

// DefaultCriticalTop is how many critical files are kept.
const DefaultCriticalTop = 12

// minCriticalScore excludes files whose score is only noise.
const minCriticalScore = 0.2

var (
	codeExts = map[string]bool{
		".py": true, ".sh": true, ".bash": true, ".js": true, ".jsx": true, ".ts": true,
		".tsx": true, ".go": true, ".rb": true, ".rs": true, ".java": true, ".c": true,
		".cc": true, ".cpp": true,
	}
	docExts = map[string]bool{".md": true, ".rst": true, ".txt": true, ".ipynb": true}
)

// CodeTypeBonus is +1.5 for source files, -0.8 for documentation, else 0.
func CodeTypeBonus(rel string) float64 {
	ext := strings.ToLower(path.Ext(rel))
	switch {
	case codeExts[ext]:
		return 1.5
	case docExts[ext]:
		return -0.8
	}
	return 0
}

// CriticalInput holds the per-file signal maps. Missing keys read as zero.
type CriticalInput struct {
	Files         []string
	LineCounts    map[string]int
	Entrypoints   map[string]bool
	DispatchCount map[string]int
	FanIn         map[string]int
	TestTouch     map[string]int
	SymbolCount   map[string]int
	// Exclude drops paths before scoring (fixtures).
	Exclude func(rel string) bool
}

// Components is the labeled breakdown reported alongside a score.
type Components struct {
	Entry    float64 `json:"entry"`
	Dispatch float64 `json:"dispatch"`
	FanIn    float64 `json:"fanin"`
	Test     float64 `json:"test"`
}

// CriticalFile is one ranked file.
type CriticalFile struct {
	Path       string     `json:"path"`
	Score      float64    `json:"score"`
	Components Components `json:"components"`
}

// CriticalScore computes the blended centrality of one file.
func CriticalScore(c Components, loc, symbols int, rel string) float64 {
	return 6*c.Entry + 4*c.Dispatch + 3*c.FanIn + 2*c.Test +
		math.Min(float64(loc)/300, 2) +
		math.Min(float64(symbols)/8, 2) +
		CodeTypeBonus(rel)
}

// RankCritical scores every file, drops files with no structural signal
// and no lines, keeps scores above 0.2, and returns the top limit by
// (-score, path).
func RankCritical(in CriticalInput, limit int) []CriticalFile {
	var out []CriticalFile
	for _, rel := range in.Files {
		if in.Exclude != nil && in.Exclude(rel) {
			continue
		}
		c := Components{
			Dispatch: float64(in.DispatchCount[rel]),
			FanIn:    float64(in.FanIn[rel]),
			Test:     float64(in.TestTouch[rel]),
		}
		if in.Entrypoints[rel] {
			c.Entry = 1
		}
		loc := in.LineCounts[rel]
		if loc == 0 && c == (Components{}) {
			continue
		}
		score := CriticalScore(c, loc, in.SymbolCount[rel], rel)
		if score > minCriticalScore {
			out = append(out, CriticalFile{Path: rel, Score: score, Components: c})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
