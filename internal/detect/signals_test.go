package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEvidence(t *testing.T) {
	assert.True(t, IsTestFile("tests/test_render.sh"))
	assert.True(t, IsTestFile("pkg/test/helpers.py"))
	assert.True(t, IsTestFile("lua/foo_spec.lua"))
	assert.True(t, IsTestFile("web/app.spec.js"))
	assert.False(t, IsTestFile("lib/testing.py"))

	py := "def test_one():\n    assert x\n\ndef test_two():\n    assert y\n    assert z\n"
	assert.Equal(t, 2, TestCaseCount("t/test_a.py", py))
	assert.Equal(t, 3, AssertCount("t/test_a.py", py))

	sh := "test_tree() {\n  assert_contains \"$out\" x\n}\n"
	assert.Equal(t, 1, TestCaseCount("tests/t.sh", sh))
	assert.Equal(t, 1, AssertCount("tests/t.sh", sh))

	js := "it('works', () => { expect(a).toBe(1) })\ntest(\"b\", () => {})\n"
	assert.Equal(t, 2, TestCaseCount("a.spec.js", js))
	assert.Equal(t, 1, AssertCount("a.spec.js", js))

	assert.Zero(t, TestCaseCount("x.rb", py))
}

func TestCommandHits(t *testing.T) {
	p := DefaultPolicy()
	texts := map[string]string{
		"tests/a.sh": "out=$(rqs tree .)\nrqs --repo /tmp/r churn --top 3\nrqs tree lib\n",
		"tests/b.sh": "rqs churn\nrqsx tree\n",
	}
	summary := p.SummarizeTests([]string{"tests/a.sh", "tests/b.sh"}, texts)
	assert.Equal(t, []CommandHit{{Command: "churn", Hits: 2}, {Command: "tree", Hits: 2}}, summary.Commands)

	hits := TestPathHits(map[string]string{"t": "run bin/rqs and lib/render.py; lib/render.py again"})
	assert.Equal(t, map[string]int{"bin/rqs": 1, "lib/render.py": 2}, hits)
}

func TestSymbolDefCount(t *testing.T) {
	text := "class A:\n  def f(self):\n    pass\nfunction g() {}\ntype T struct{}\nx = 'class'\n"
	assert.Equal(t, 4, SymbolDefCount(text))
}

func TestFindBoundaries(t *testing.T) {
	texts := map[string]string{
		"bin/a": "set -euo pipefail\n",
		"bin/b": "set -euo pipefail\nset -euo pipefail\nset -euo pipefail\n",
		"lib/c": "echo 'error: " + strings.Repeat("x", 200) + " must be set'\n",
	}
	got := FindBoundaries(texts)
	require.Len(t, got, 4)

	assert.Equal(t, "Strict shell fail-fast mode", got[0].Label)
	assert.Equal(t, []Match{
		{Path: "bin/a", Line: 1, Snippet: "set -euo pipefail"},
		{Path: "bin/b", Line: 1, Snippet: "set -euo pipefail"},
		{Path: "bin/b", Line: 2, Snippet: "set -euo pipefail"},
	}, got[0].Matches)

	assert.Empty(t, got[1].Matches)
	require.Len(t, got[3].Matches, 1)
	assert.Len(t, []rune(got[3].Matches[0].Snippet), 110)
	assert.True(t, strings.HasSuffix(got[3].Matches[0].Snippet, "..."))
}

func TestFindHotspots(t *testing.T) {
	p := DefaultPolicy()
	texts := map[string]string{
		"lib/a.py": strings.Join([]string{
			"# fallback when ctags is missing",
			"PATTERN = re.compile(r'fallback')",
			"value = fallback_value()",
			"try:",
			"    pass",
			"except Exception:",
			"    pass  # TODO narrow this",
		}, "\n"),
		"bin/run":                "git log 2>/dev/null || true\n",
		"tests/fixtures/x/a.py":  "# TODO fixture\nfallback()\n",
	}
	got := p.FindHotspots(texts)
	require.Len(t, got, 4)
	assert.Equal(t, Hotspot{Match: Match{Path: "bin/run", Line: 1, Snippet: "git log 2>/dev/null || true"}, Label: "error suppression"}, got[0])
	assert.Equal(t, "heuristic/fallback", got[1].Label)
	assert.Equal(t, 3, got[1].Line)
	assert.Equal(t, "broad exception", got[2].Label)
	assert.Equal(t, "todo/fixme", got[3].Label)
	assert.Equal(t, 7, got[3].Line)
}
