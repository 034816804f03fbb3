package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/backends/git"
	"rqs/internal/config"
	"rqs/internal/errors"
	"rqs/internal/history"
	"rqs/internal/render"
)

type testRepo struct {
	t   *testing.T
	dir string
}

func (r *testRepo) git(author string, args ...string) {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+author, "GIT_AUTHOR_EMAIL="+strings.ToLower(author)+"@example.com",
		"GIT_COMMITTER_NAME="+author, "GIT_COMMITTER_EMAIL="+strings.ToLower(author)+"@example.com")
	out, err := cmd.CombinedOutput()
	require.NoError(r.t, err, "git %v\n%s", args, out)
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, filepath.FromSlash(rel))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
}

// newRepo creates a repository where src/a.go and src/b.go change together
// in every commit.
func newRepo(t *testing.T) *testRepo {
	t.Helper()
	if !git.IsAvailable() {
		t.Skip("git not installed")
	}
	r := &testRepo{t: t, dir: t.TempDir()}
	r.git("Ada", "init", "-q")
	r.write("README.md", "# demo\n")
	r.write("src/a.go", "package src\n\nfunc A() {}\n")
	r.write("src/b.go", "package src\n\nfunc B() {}\n")
	r.git("Ada", "add", ".")
	r.git("Ada", "commit", "-q", "-m", "init")
	for i, author := range []string{"Ada", "Bob", "Ada"} {
		r.write("src/a.go", fmt.Sprintf("package src\n\nfunc A() int { return %d }\n", i))
		r.write("src/b.go", fmt.Sprintf("package src\n\nfunc B() int { return %d }\n", i))
		r.git(author, "commit", "-q", "-am", fmt.Sprintf("change %d", i))
	}
	return r
}

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RepoRoot = dir
	e, err := New(cfg, nil)
	require.NoError(t, err)
	return e
}

func TestCheckRepository(t *testing.T) {
	if !git.IsAvailable() {
		t.Skip("git not installed")
	}
	e := newEngine(t, t.TempDir())
	err := e.CheckRepository(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.NotARepository))

	r := newRepo(t)
	assert.NoError(t, newEngine(t, r.dir).CheckRepository(context.Background()))
}

func TestTree(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)
	ctx := context.Background()

	full, err := e.Tree(ctx, TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, full.Files)
	assert.Equal(t, []string{"├─ README.md (1)", "└─ src/", "   ├─ a.go (3)", "   └─ b.go (3)"}, full.Lines)

	scoped, err := e.Tree(ctx, TreeOptions{Path: "src/"})
	require.NoError(t, err)
	assert.Equal(t, 2, scoped.Files)
	assert.Equal(t, []string{"├─ a.go (3)", "└─ b.go (3)"}, scoped.Lines)
	assert.Contains(t, render.Tree(*scoped), "## Tree: `src`")

	budgeted, err := e.Tree(ctx, TreeOptions{Budget: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(budgeted.Lines), 2)
}

func TestTreeRenderedWithinBudget(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)
	ctx := context.Background()

	collapsed, err := e.Tree(ctx, TreeOptions{Budget: 8})
	require.NoError(t, err)
	assert.Equal(t, []string{"├─ README.md (1)", "└─ src/  (2 files)"}, collapsed.Lines)
	assert.Equal(t, 8, strings.Count(render.Tree(*collapsed), "\n"))

	expanded, err := e.Tree(ctx, TreeOptions{Budget: 10})
	require.NoError(t, err)
	assert.Len(t, expanded.Lines, 4)
	assert.LessOrEqual(t, strings.Count(render.Tree(*expanded), "\n"), 10)
}

func TestTreeWithChurnData(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "churn.json.zst")
	_, err := e.ChurnSummary(ctx, ChurnSummaryOptions{Output: path})
	require.NoError(t, err)

	report, err := e.Tree(ctx, TreeOptions{Budget: 10, ChurnData: path})
	require.NoError(t, err)
	assert.True(t, report.HasChurn)
}

func TestChurn(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)

	report, err := e.Churn(context.Background(), ChurnOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Empty)
	assert.Equal(t, 4, report.Commits)
	assert.Equal(t, 3, report.FilesTouched)
	assert.Equal(t, 1, report.BucketSize)
	assert.Equal(t, 4, report.NumBuckets)

	require.Len(t, report.Authors, 2)
	assert.Equal(t, "Ada", report.Authors[0].Name)
	assert.Equal(t, 3, report.Authors[0].Commits)

	require.NotEmpty(t, report.Sustained)
	assert.Equal(t, 1.0, report.Sustained[0].Continuity)

	require.NotNil(t, report.Coupling)
	require.Len(t, report.Coupling.Clusters, 1)
	assert.Len(t, report.Coupling.Clusters[0].Members, 2)
	assert.Equal(t, 1.0, report.Coupling.Clusters[0].AvgJaccard)
}

func TestChurnEmptyReasons(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)
	ctx := context.Background()

	report, err := e.Churn(ctx, ChurnOptions{Filter: history.Filter{Authors: []string{"nobody"}}})
	require.NoError(t, err)
	assert.Equal(t, render.ChurnNoAuthorMatch, report.Empty)

	report, err = e.Churn(ctx, ChurnOptions{Filter: history.Filter{Include: []string{"*.rs"}}})
	require.NoError(t, err)
	assert.Equal(t, render.ChurnNoFileMatch, report.Empty)

	if git.IsAvailable() {
		empty := &testRepo{t: t, dir: t.TempDir()}
		empty.git("Ada", "init", "-q")
		report, err = newEngine(t, empty.dir).Churn(ctx, ChurnOptions{})
		require.NoError(t, err)
		assert.Equal(t, render.ChurnNoHistory, report.Empty)
	}
}

func TestChurnExport(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)
	db := filepath.Join(t.TempDir(), "snap.db")

	_, err := e.Churn(context.Background(), ChurnOptions{Export: db})
	require.NoError(t, err)
	info, err := os.Stat(db)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestChurnSummary(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)

	summary, err := e.ChurnSummary(context.Background(), ChurnSummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, summary["src/a.go"].Commits)
	assert.Equal(t, 1, summary["README.md"].Commits)
}

func TestPrimer(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)

	report, err := e.Primer(context.Background(), PrimerOptions{Level: config.LevelHeavy})
	require.NoError(t, err)
	assert.Equal(t, config.LevelHeavy, report.Level)
	out := render.Primer(report)
	assert.Contains(t, out, "<orientation>")
	assert.Contains(t, out, "<heuristic_risk_hotspots>")
}

func TestSignaturesDegradesWithoutSymbols(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)

	report, err := e.Signatures(context.Background(), SignaturesOptions{Scope: "src", Budget: 40})
	require.NoError(t, err)
	require.NotNil(t, report.Map)
	for _, d := range report.Map.Detailed {
		assert.True(t, strings.HasPrefix(d.Path, "src/"))
	}
}

func TestCleanScope(t *testing.T) {
	for in, want := range map[string]string{"": "", ".": "", "./src/": "src", "src//": "src", "a/b": "a/b"} {
		assert.Equal(t, want, cleanScope(in), in)
	}
}

func TestResolveScope(t *testing.T) {
	r := newRepo(t)
	e := newEngine(t, r.dir)

	got, err := e.resolveScope(filepath.Join(e.Root(), "src"))
	require.NoError(t, err)
	assert.Equal(t, "src", got)

	got, err = e.resolveScope("./src/../src/a.go")
	require.NoError(t, err)
	assert.Equal(t, "src/a.go", got)

	_, err = e.resolveScope("../elsewhere")
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))

	_, err = e.Tree(context.Background(), TreeOptions{Path: filepath.Dir(e.Root())})
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
}
