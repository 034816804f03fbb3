// Package coupling finds files that historically change together. Pairs
// co-touched by ordinary commits are scored by Jaccard similarity, and the
// retained pairs are merged into clusters with a union-find.
package coupling

// Edge is a retained co-change pair. A sorts before B.
type Edge struct {
	A         string  `json:"a"`
	B         string  `json:"b"`
	Jaccard   float64 `json:"jaccard"`
	CoCommits int     `json:"coCommits"`
	Level     string  `json:"level"`
}

// Member is a cluster file with its own churn counters.
type Member struct {
	Path    string `json:"path"`
	Commits int    `json:"commits"`
	Lines   int    `json:"lines"`
}

// Cluster is a connected component of the coupling graph.
type Cluster struct {
	Members    []Member `json:"members"` // commits desc, then path
	Edges      []Edge   `json:"edges"`   // every internal edge, strongest first
	AvgJaccard float64  `json:"avgJaccard"`
}

// TopEdges returns at most n of the strongest edges.
func (c Cluster) TopEdges(n int) []Edge {
	if n > 0 && len(c.Edges) > n {
		return c.Edges[:n]
	}
	return c.Edges
}

// Analysis is the outcome of a coupling pass.
type Analysis struct {
	Options  Options   `json:"options"`
	Clusters []Cluster `json:"clusters"`
	// Shown is how many leading clusters fit the section line budget.
	Shown int `json:"shown"`
}

// Omitted reports how many clusters did not fit the line budget.
func (a *Analysis) Omitted() int {
	return len(a.Clusters) - a.Shown
}

// Options configures the analysis.
type Options struct {
	MinCoupling       float64 `json:"minCoupling"`       // Jaccard threshold (default 0.30)
	MinCoCommits      int     `json:"minCoCommits"`      // shared commits required (default 2)
	MaxFilesPerCommit int     `json:"maxFilesPerCommit"` // larger commits are ignored (default 50)
	EdgeCap           int     `json:"edgeCap"`           // edges shown per cluster (default 10)
	MaxLines          int     `json:"maxLines"`          // line budget of the rendered section (default 100)
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinCoupling:       0.30,
		MinCoCommits:      2,
		MaxFilesPerCommit: 50,
		EdgeCap:           10,
		MaxLines:          100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinCoupling < 0 {
		o.MinCoupling = 0
	}
	if o.MinCoCommits <= 0 {
		o.MinCoCommits = d.MinCoCommits
	}
	if o.MaxFilesPerCommit <= 0 {
		o.MaxFilesPerCommit = d.MaxFilesPerCommit
	}
	if o.EdgeCap <= 0 {
		o.EdgeCap = d.EdgeCap
	}
	if o.MaxLines <= 0 {
		o.MaxLines = d.MaxLines
	}
	return o
}

// GetCorrelationLevel buckets a coupling value.
func GetCorrelationLevel(correlation float64) string {
	switch {
	case correlation >= 0.8:
		return "high"
	case correlation >= 0.5:
		return "medium"
	default:
		return "low"
	}
}
