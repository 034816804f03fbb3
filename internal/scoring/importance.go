// Package scoring turns collected signals into ranking scalars: node
// importance for budgeted rendering, critical-path scores, and blended
// entrypoint ranks. All functions are pure and deterministic; ties are
// always broken by path.
package scoring

import "math"

// DirSignals are the bottom-up aggregates of a directory subtree.
type DirSignals struct {
	FileCount  int
	TotalLOC   int
	ChurnLines int
	HotCount   int
}

// DirectoryImportance ranks directories for expansion. Logarithms keep a
// single huge subtree from taking the whole budget.
func DirectoryImportance(s DirSignals, hasChurn bool) float64 {
	files := math.Log2(1 + float64(s.FileCount))
	loc := math.Log2(1 + float64(s.TotalLOC)/100)
	if !hasChurn {
		return 0.5*files + 0.5*loc
	}
	churn := math.Log2(1 + float64(s.ChurnLines)/100)
	hot := math.Log2(1 + float64(s.HotCount))
	return 0.4*files + 0.2*loc + 0.25*churn + 0.15*hot
}

// FileSignals are the per-file inputs to FileImportance.
type FileSignals struct {
	LOC          int
	ChurnCommits int
	ChurnLines   int
}

// FileImportance ranks files for the signature map.
func FileImportance(s FileSignals, hasChurn bool) float64 {
	loc := math.Log2(1 + float64(s.LOC)/100)
	if !hasChurn {
		return loc
	}
	return 0.25*loc + 0.40*math.Log2(1+float64(s.ChurnLines)/100) + 0.35*math.Log2(1+float64(s.ChurnCommits))
}
