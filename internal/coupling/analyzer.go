package coupling

import (
	"sort"

	"rqs/internal/history"
	"rqs/internal/logging"
)

// Analyzer turns bucketed history into co-change clusters.
type Analyzer struct {
	opts   Options
	logger *logging.Logger
}

// NewAnalyzer creates a new coupling analyzer
func NewAnalyzer(opts Options, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Analyzer{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Pair is an unordered path pair with A < B.
type Pair struct{ A, B string }

// CountPairs counts, for every unordered pair of paths, the commits that
// touched both. Commits with fewer than two or more than maxFiles paths
// are ignored. Each set must be sorted and free of duplicates.
func CountPairs(commitSets [][]string, maxFiles int) map[Pair]int {
	counts := make(map[Pair]int)
	for _, set := range commitSets {
		if len(set) < 2 || len(set) > maxFiles {
			continue
		}
		for i := 0; i < len(set); i++ {
			for j := i + 1; j < len(set); j++ {
				counts[Pair{set[i], set[j]}]++
			}
		}
	}
	return counts
}

// Jaccard is co / (ca + cb - co), or 0 when the union is empty.
func Jaccard(co, ca, cb int) float64 {
	union := ca + cb - co
	if union <= 0 {
		return 0
	}
	return float64(co) / float64(union)
}

// Edges returns the pairs passing both thresholds, strongest first.
func (a *Analyzer) Edges(act *history.Activity) []Edge {
	counts := CountPairs(act.CommitSets, a.opts.MaxFilesPerCommit)

	var edges []Edge
	for p, co := range counts {
		if co < a.opts.MinCoCommits {
			continue
		}
		j := Jaccard(co, commitsOf(act, p.A), commitsOf(act, p.B))
		if j < a.opts.MinCoupling {
			continue
		}
		edges = append(edges, Edge{A: p.A, B: p.B, Jaccard: j, CoCommits: co, Level: GetCorrelationLevel(j)})
	}
	sortEdges(edges)
	return edges
}

func commitsOf(act *history.Activity, path string) int {
	if f, ok := act.Files[path]; ok {
		return f.Commits
	}
	return 0
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		x, y := edges[i], edges[j]
		if x.Jaccard != y.Jaccard {
			return x.Jaccard > y.Jaccard
		}
		if x.CoCommits != y.CoCommits {
			return x.CoCommits > y.CoCommits
		}
		if x.A != y.A {
			return x.A < y.A
		}
		return x.B < y.B
	})
}

// Analyze clusters the coupling graph of act and applies the section
// line budget. An empty history gives an empty analysis.
func (a *Analyzer) Analyze(act *history.Activity) *Analysis {
	result := &Analysis{Options: a.opts}
	if act == nil || len(act.CommitSets) == 0 {
		return result
	}

	edges := a.Edges(act)
	result.Clusters = BuildClusters(edges, act)
	result.Shown = a.fit(result.Clusters)

	a.logger.Debug("Coupling analysis complete", map[string]interface{}{
		"edges":    len(edges),
		"clusters": len(result.Clusters),
		"shown":    result.Shown,
	})
	return result
}

// BuildClusters merges edge endpoints into connected components. Clusters are
// ordered by size desc, average coupling desc, then first member path.
func BuildClusters(edges []Edge, act *history.Activity) []Cluster {
	if len(edges) == 0 {
		return nil
	}

	ids := make(map[string]int)
	var names []string
	id := func(p string) int {
		if i, ok := ids[p]; ok {
			return i
		}
		ids[p] = len(names)
		names = append(names, p)
		return ids[p]
	}
	for _, e := range edges {
		id(e.A)
		id(e.B)
	}

	uf := newUnionFind(len(names))
	for _, e := range edges {
		uf.union(ids[e.A], ids[e.B])
	}

	byRoot := make(map[int]*Cluster)
	var roots []int
	for i, name := range names {
		r := uf.find(i)
		c, ok := byRoot[r]
		if !ok {
			c = &Cluster{}
			byRoot[r] = c
			roots = append(roots, r)
		}
		c.Members = append(c.Members, member(act, name))
	}
	// edges are already strongest first, so each cluster's list is too
	for _, e := range edges {
		c := byRoot[uf.find(ids[e.A])]
		c.Edges = append(c.Edges, e)
	}

	clusters := make([]Cluster, 0, len(roots))
	for _, r := range roots {
		c := byRoot[r]
		sum := 0.0
		for _, e := range c.Edges {
			sum += e.Jaccard
		}
		c.AvgJaccard = sum / float64(len(c.Edges))
		sort.Slice(c.Members, func(i, j int) bool {
			x, y := c.Members[i], c.Members[j]
			if x.Commits != y.Commits {
				return x.Commits > y.Commits
			}
			return x.Path < y.Path
		})
		clusters = append(clusters, *c)
	}

	sort.Slice(clusters, func(i, j int) bool {
		x, y := clusters[i], clusters[j]
		if len(x.Members) != len(y.Members) {
			return len(x.Members) > len(y.Members)
		}
		if x.AvgJaccard != y.AvgJaccard {
			return x.AvgJaccard > y.AvgJaccard
		}
		return minPath(x) < minPath(y)
	})
	return clusters
}

func member(act *history.Activity, p string) Member {
	m := Member{Path: p}
	if act != nil {
		if f, ok := act.Files[p]; ok {
			m.Commits, m.Lines = f.Commits, f.Lines
		}
	}
	return m
}

func minPath(c Cluster) string {
	lowest := ""
	for i, m := range c.Members {
		if i == 0 || m.Path < lowest {
			lowest = m.Path
		}
	}
	return lowest
}

// SectionHeaderLines is the blank line, heading and description that open
// the rendered cluster section.
const SectionHeaderLines = 3

// ClusterLines is the rendered height of one cluster: a blank, heading,
// blank, table header and separator, the member rows, then a blank, the
// pair table header and separator, and the pair rows.
func ClusterLines(c Cluster, edgeCap int) int {
	return 5 + len(c.Members) + 3 + len(c.TopEdges(edgeCap))
}

// fit counts the leading clusters that fit MaxLines. The first cluster is
// always shown.
func (a *Analyzer) fit(clusters []Cluster) int {
	used := SectionHeaderLines
	shown := 0
	for _, c := range clusters {
		n := ClusterLines(c, a.opts.EdgeCap)
		if shown > 0 && used+n > a.opts.MaxLines {
			break
		}
		used += n
		shown++
	}
	return shown
}
