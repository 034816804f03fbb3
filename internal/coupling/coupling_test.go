package coupling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/history"
)

func commit(files ...string) history.Commit {
	c := history.Commit{Author: "dev"}
	for _, f := range files {
		c.Files = append(c.Files, history.FileChange{Path: f, Lines: 10})
	}
	return c
}

func activity(commits ...history.Commit) *history.Activity {
	return history.Bucketize(commits, 1, history.Filter{})
}

func TestGetCorrelationLevel(t *testing.T) {
	tests := []struct {
		name        string
		correlation float64
		wantLevel   string
	}{
		{"high threshold", 0.8, "high"},
		{"medium", 0.5, "medium"},
		{"low", 0.3, "low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLevel, GetCorrelationLevel(tt.correlation))
		})
	}
}

func TestPerfectPairAlwaysClustered(t *testing.T) {
	act := activity(
		commit("a.py", "b.py"),
		commit("c.py", "d.py"),
		commit("a.py", "b.py"),
		commit("c.py", "e.py"),
	)
	for _, threshold := range []float64{0, 0.3, 0.99, 1.0} {
		an := NewAnalyzer(Options{MinCoupling: threshold}, nil).Analyze(act)
		require.NotEmpty(t, an.Clusters, "threshold %v", threshold)

		first := an.Clusters[0]
		assert.Equal(t, []Member{{"a.py", 2, 20}, {"b.py", 2, 20}}, first.Members)
		require.Len(t, first.Edges, 1)
		assert.Equal(t, 1.0, first.Edges[0].Jaccard)
		assert.Equal(t, 2, first.Edges[0].CoCommits)
		assert.Equal(t, "high", first.Edges[0].Level)
	}
}

func TestJaccardSymmetric(t *testing.T) {
	assert.Equal(t, Jaccard(2, 3, 5), Jaccard(2, 5, 3))
	assert.InDelta(t, 2.0/6.0, Jaccard(2, 3, 5), 1e-9)
	assert.Zero(t, Jaccard(0, 0, 0))
}

func TestClusteringIsTransitive(t *testing.T) {
	// a-b and b-c are strongly coupled; a and c never share a commit.
	act := activity(
		commit("a", "b"),
		commit("a", "b"),
		commit("b", "c"),
		commit("b", "c"),
	)
	an := NewAnalyzer(Options{MinCoupling: 0.5}, nil).Analyze(act)
	require.Len(t, an.Clusters, 1)
	paths := []string{}
	for _, m := range an.Clusters[0].Members {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"b", "a", "c"}, paths) // b has 4 commits
	assert.Len(t, an.Clusters[0].Edges, 2)
	assert.InDelta(t, 0.5, an.Clusters[0].AvgJaccard, 1e-9)
}

func TestThresholdsDropWeakPairs(t *testing.T) {
	act := activity(
		commit("a", "b"),
		commit("a"),
		commit("a"),
		commit("a"),
		commit("b", "x"),
	)
	// a-b once: below the co-commit minimum
	assert.Empty(t, NewAnalyzer(Options{MinCoupling: 0}, nil).Analyze(act).Clusters)

	act = activity(commit("a", "b"), commit("a", "b"), commit("a"), commit("a"), commit("a"), commit("a"))
	// 2 / (6 + 2 - 2) = 0.33
	assert.NotEmpty(t, NewAnalyzer(Options{MinCoupling: 0.3}, nil).Analyze(act).Clusters)
	assert.Empty(t, NewAnalyzer(Options{MinCoupling: 0.4}, nil).Analyze(act).Clusters)
}

func TestMegaCommitsIgnored(t *testing.T) {
	var many []string
	for i := 0; i < 51; i++ {
		many = append(many, fmt.Sprintf("f%02d.go", i))
	}
	act := activity(commit(many...), commit(many...))
	assert.Empty(t, CountPairs(act.CommitSets, 50))
	assert.Len(t, CountPairs(act.CommitSets, 51), 51*50/2)
}

func TestClusterOrdering(t *testing.T) {
	act := activity(
		commit("p", "q"), commit("p", "q"),
		commit("x", "y", "z"), commit("x", "y", "z"),
		commit("m", "n"), commit("m", "n"), commit("m"),
	)
	an := NewAnalyzer(Options{MinCoupling: 0.3}, nil).Analyze(act)
	require.Len(t, an.Clusters, 3)
	assert.Len(t, an.Clusters[0].Members, 3)
	assert.Equal(t, "p", an.Clusters[1].Members[0].Path) // avg 1.0 beats m-n at 0.67
	assert.Equal(t, "m", an.Clusters[2].Members[0].Path)
	assert.Zero(t, an.Omitted())
}

func TestLineBudgetOmitsClusters(t *testing.T) {
	var commits []history.Commit
	for i := 0; i < 12; i++ {
		a, b := fmt.Sprintf("c%02d/a", i), fmt.Sprintf("c%02d/b", i)
		commits = append(commits, commit(a, b), commit(a, b))
	}
	an := NewAnalyzer(Options{MinCoupling: 0.3}, nil).Analyze(activity(commits...))
	require.Len(t, an.Clusters, 12)

	// each pair cluster costs 5 + 2 + 3 + 1 = 11 lines after a 3 line header
	assert.Equal(t, 11, ClusterLines(an.Clusters[0], 10))
	assert.Equal(t, 8, an.Shown)
	assert.Equal(t, 4, an.Omitted())
}

func TestFirstClusterAlwaysShown(t *testing.T) {
	act := activity(commit("a", "b", "c"), commit("a", "b", "c"))
	an := NewAnalyzer(Options{MinCoupling: 0.3, MaxLines: 5}, nil).Analyze(act)
	assert.Equal(t, 1, an.Shown)
}

func TestEmptyHistory(t *testing.T) {
	an := NewAnalyzer(DefaultOptions(), nil).Analyze(activity())
	assert.Empty(t, an.Clusters)
	assert.Zero(t, an.Omitted())
}

func TestTopEdgesCap(t *testing.T) {
	c := Cluster{Edges: make([]Edge, 15)}
	assert.Len(t, c.TopEdges(10), 10)
	assert.Len(t, c.TopEdges(0), 15)
}
