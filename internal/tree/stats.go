package tree

import (
	"sort"

	"rqs/internal/history"
	"rqs/internal/scoring"
)

// HotFile is a file with recorded churn.
type HotFile struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// DirStats aggregates a directory subtree.
type DirStats struct {
	FileCount      int       `json:"fileCount"`
	TotalLOC       int       `json:"totalLoc"`
	ChurnCommits   int       `json:"churnCommits"`
	ChurnLines     int       `json:"churnLines"`
	HotCount       int       `json:"hotCount"`
	HotFiles       []HotFile `json:"hotFiles,omitempty"` // churn lines desc, then path
	DirectChildren int       `json:"directChildren"`
	Importance     float64   `json:"importance"`
}

// ComputeStats fills Stats on every directory below root. churn may be nil,
// which selects the churn-free importance formula.
func ComputeStats(root *Node, lineCounts map[string]int, churn history.Summary) {
	hasChurn := churn != nil
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if !c.IsDir() {
				continue
			}
			walk(c)

			st := &DirStats{DirectChildren: len(c.Children)}
			for _, f := range c.Files() {
				st.FileCount++
				st.TotalLOC += lineCounts[f]
				if fc, ok := churn[f]; ok {
					st.ChurnCommits += fc.Commits
					st.ChurnLines += fc.Lines
					st.HotCount++
					st.HotFiles = append(st.HotFiles, HotFile{Path: f, Lines: fc.Lines})
				}
			}
			sort.SliceStable(st.HotFiles, func(i, j int) bool {
				return st.HotFiles[i].Lines > st.HotFiles[j].Lines
			})
			st.Importance = scoring.DirectoryImportance(scoring.DirSignals{
				FileCount:  st.FileCount,
				TotalLOC:   st.TotalLOC,
				ChurnLines: st.ChurnLines,
				HotCount:   st.HotCount,
			}, hasChurn)
			c.Stats = st
		}
	}
	walk(root)
}
