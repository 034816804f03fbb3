package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/history"
)

func fixture(t *testing.T, files []string, loc int) (*Node, map[string]int) {
	t.Helper()
	counts := make(map[string]int, len(files))
	for _, f := range files {
		counts[f] = loc
	}
	root := Build(files, 0)
	ComputeStats(root, counts, nil)
	return root, counts
}

func TestBuildMarksDirectories(t *testing.T) {
	root := Build([]string{"a/b/c.go", "a/d.go", "top.md"}, 0)
	require.NotNil(t, root.Find("a/b"))
	assert.True(t, root.Find("a/b").IsDir())
	assert.False(t, root.Find("a/d.go").IsDir())
	assert.Equal(t, []string{"a/b/c.go", "a/d.go", "top.md"}, root.Files())
	assert.Nil(t, root.Find("missing"))
}

func TestBuildDepthTruncation(t *testing.T) {
	root := Build([]string{"a/b/c.go", "a/d.go"}, 2)
	leaf := root.Find("a/b")
	require.NotNil(t, leaf)
	assert.True(t, leaf.IsDir(), "cut leaf is a directory")
	assert.Empty(t, leaf.Children)
	assert.Equal(t, []string{"└─ a/", "   ├─ b/", "   └─ d.go"}, Lines(root, nil))
}

func TestLinesWithCounts(t *testing.T) {
	root := Build([]string{"src/main.go", "src/util.go", "README.md"}, 0)
	got := Lines(root, map[string]int{"src/main.go": 40, "README.md": 3})
	assert.Equal(t, []string{
		"├─ README.md (3)",
		"└─ src/",
		"   ├─ main.go (40)",
		"   └─ util.go",
	}, got)
}

func TestComputeStats(t *testing.T) {
	root := Build([]string{"pkg/a.go", "pkg/sub/b.go", "pkg/sub/c.go"}, 0)
	counts := map[string]int{"pkg/a.go": 100, "pkg/sub/b.go": 50}
	churn := history.Summary{
		"pkg/sub/b.go": {Commits: 2, Lines: 30},
		"pkg/a.go":     {Commits: 1, Lines: 80},
	}
	ComputeStats(root, counts, churn)

	pkg := root.Find("pkg").Stats
	require.NotNil(t, pkg)
	assert.Equal(t, 3, pkg.FileCount)
	assert.Equal(t, 150, pkg.TotalLOC)
	assert.Equal(t, 3, pkg.ChurnCommits)
	assert.Equal(t, 110, pkg.ChurnLines)
	assert.Equal(t, 2, pkg.HotCount)
	assert.Equal(t, "pkg/a.go", pkg.HotFiles[0].Path)
	assert.Equal(t, 2, pkg.DirectChildren)
	assert.Greater(t, pkg.Importance, root.Find("pkg/sub").Stats.Importance)

	assert.Equal(t, "(3 files; hot: 2 — a.go, b.go)", CollapsedAnnotation(pkg, true))
	assert.Equal(t, "(3 files)", CollapsedAnnotation(pkg, false))
	assert.Equal(t, "(1 file)", CollapsedAnnotation(&DirStats{FileCount: 1}, true))
}

func TestBudgetPrefersDirectoryThatFits(t *testing.T) {
	var files []string
	for i := 0; i < 50; i++ {
		files = append(files, fmt.Sprintf("big/f%02d.go", i))
	}
	files = append(files, "small/a.go", "small/b.go")
	root, counts := fixture(t, files, 10)
	require.Greater(t, root.Find("big").Stats.Importance, root.Find("small").Stats.Importance)

	plan := PlanBudget(root, 5, counts)
	assert.True(t, plan.Expanded["small"])
	assert.False(t, plan.Expanded["big"])
	assert.Empty(t, plan.Partial)

	got := BudgetedLines(root, plan, counts, false)
	assert.Equal(t, []string{
		"├─ big/  (50 files)",
		"└─ small/",
		"   ├─ a.go (10)",
		"   └─ b.go (10)",
	}, got)
	assert.Equal(t, len(got), plan.Cost)
}

func TestBudgetPartiallyExpandsDeferredDirectory(t *testing.T) {
	var files []string
	for i := 0; i < 50; i++ {
		files = append(files, fmt.Sprintf("big/f%02d.go", i))
	}
	files = append(files, "small/a.go", "small/b.go")
	root, counts := fixture(t, files, 10)

	plan := PlanBudget(root, 20, counts)
	assert.True(t, plan.Expanded["small"])
	require.Contains(t, plan.Partial, "big")
	assert.Len(t, plan.Partial["big"].Shown, 15)
	assert.Equal(t, 35, plan.Partial["big"].Remaining)
	assert.Equal(t, 20, plan.Cost)

	lines := BudgetedLines(root, plan, counts, false)
	assert.Len(t, lines, 20)
	assert.Equal(t, "│  └─ ... and 35 more", lines[16])
}

func TestBudgetCutLeafDoesNotBlockPartial(t *testing.T) {
	var files []string
	for i := 0; i < 40; i++ {
		files = append(files, fmt.Sprintf("wide/f%02d.go", i))
	}
	files = append(files, "deep/x/y/z.go")
	root := Build(files, 2)
	ComputeStats(root, nil, nil)

	plan := PlanBudget(root, 30, nil)
	require.Contains(t, plan.Partial, "wide")
	assert.Equal(t, 30, plan.Cost)
	assert.Len(t, BudgetedLines(root, plan, nil, false), 30)
}

func TestBudgetPartialExpansion(t *testing.T) {
	var files []string
	for i := 0; i < 10; i++ {
		files = append(files, fmt.Sprintf("only/f%d.go", i))
	}
	root, _ := fixture(t, files, 10)
	counts := map[string]int{"only/f7.go": 500, "only/f3.go": 300}

	plan := PlanBudget(root, 4, counts)
	require.Contains(t, plan.Partial, "only")
	assert.Equal(t, 8, plan.Partial["only"].Remaining)

	got := BudgetedLines(root, plan, counts, false)
	assert.Equal(t, []string{
		"└─ only/",
		"   ├─ f3.go (300)",
		"   ├─ f7.go (500)",
		"   └─ ... and 8 more",
	}, got)
}

func TestBudgetExactFitExpandsFully(t *testing.T) {
	root, counts := fixture(t, []string{"d/a", "d/b", "d/c"}, 1)
	plan := PlanBudget(root, 4, counts)
	assert.True(t, plan.Expanded["d"])
	assert.Empty(t, plan.Partial)
	assert.Len(t, BudgetedLines(root, plan, counts, false), 4)
}

func TestBudgetNeverExceeded(t *testing.T) {
	var files []string
	for d := 0; d < 4; d++ {
		for s := 0; s < 3; s++ {
			for f := 0; f < d*3+s+1; f++ {
				files = append(files, fmt.Sprintf("d%d/s%d/f%d.txt", d, s, f))
			}
		}
		files = append(files, fmt.Sprintf("d%d/readme.md", d))
	}
	files = append(files, "root.txt")
	root, counts := fixture(t, files, 25)

	for budget := len(root.Children); budget <= 120; budget++ {
		plan := PlanBudget(root, budget, counts)
		lines := BudgetedLines(root, plan, counts, false)
		assert.LessOrEqual(t, len(lines), budget, "budget %d", budget)
		assert.Equal(t, plan.Cost, len(lines), "budget %d", budget)

		again := BudgetedLines(root, PlanBudget(root, budget, counts), counts, false)
		assert.Equal(t, lines, again)
	}
}

func TestEmptyDirectoryExpandsSilently(t *testing.T) {
	root := Build([]string{"a/b/c/d.go"}, 2)
	ComputeStats(root, nil, nil)
	plan := PlanBudget(root, 10, nil)
	assert.True(t, plan.Expanded["a/b"])
	assert.Equal(t, []string{"└─ a/", "   └─ b/"}, BudgetedLines(root, plan, nil, false))
}
