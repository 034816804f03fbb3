package sigmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/history"
)

func TestParseBlocks(t *testing.T) {
	lines := []string{
		"class: Store [L1-40]",
		"    method: get(self, key) [L5-9]",
		"",
		"@cached",
		"function: load(path) [L42-80]",
		"function: main() [L82]",
		"",
	}
	blocks := ParseBlocks(lines)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"class: Store [L1-40]", "    method: get(self, key) [L5-9]"}, blocks[0].Lines)
	assert.Equal(t, []string{"@cached", "function: load(path) [L42-80]"}, blocks[1].Lines)
	assert.Equal(t, 39, blocks[0].Span())
	assert.Equal(t, 38, blocks[1].Span())
	assert.Equal(t, 1, blocks[2].Span(), "no span falls back to line count")
}

func TestPrioritizeBySpan(t *testing.T) {
	lines := []string{
		"function: small() [L1-3]",
		"function: huge() [L10-400]",
		"class: Mid [L500-600]",
		"    method: a() [L501-510]",
		"    method: b() [L511-520]",
	}
	assert.Equal(t, []string{
		"function: huge() [L10-400]",
		"",
		"class: Mid [L500-600]",
		"    method: a() [L501-510]",
		"    method: b() [L511-520]",
		"",
		"function: small() [L1-3]",
	}, PrioritizeBySpan(lines, 20))

	// Mid is cut to the three lines left after the separator.
	assert.Equal(t, []string{
		"function: huge() [L10-400]",
		"",
		"class: Mid [L500-600]",
		"    method: a() [L501-510]",
	}, PrioritizeBySpan(lines, 4))

	// one line of room is not enough for a partial block
	assert.Equal(t, []string{"function: huge() [L10-400]"}, PrioritizeBySpan(lines, 3))
}

func TestCountAndCatalogSymbols(t *testing.T) {
	lines := []string{"class: A [L1-9]", "    method: run(x) [L2-4]", "", "# note", "function: helper"}
	assert.Equal(t, 3, CountSymbols(lines))
	assert.Equal(t, []CatalogSymbol{{"A", 1}, {"run", 2}, {"helper", 0}}, CatalogSymbols(lines))
}

func TestTiers(t *testing.T) {
	full, catalog := DefaultOptions(20).Tiers()
	assert.Equal(t, 7, full) // int(12 * 0.63) after the frame reserve
	assert.Equal(t, 5, catalog)

	full, catalog = DefaultOptions(200).Tiers()
	assert.Equal(t, 119, full) // int(190 * 0.63)
	assert.Equal(t, 71, catalog)
}

func TestBudgetedLargeFileGoesToCatalog(t *testing.T) {
	var big []string
	big = append(big, "class: Engine [L1-5000]")
	for i := 0; i < 99; i++ {
		big = append(big, fmt.Sprintf("    method: m%02d() [L%d-%d]", i, 10+i*40, 40+i*40))
	}
	files := []File{
		{Path: "engine.py", Language: "python", LOC: 5000, Lines: big},
		{Path: "util.py", Language: "python", LOC: 30, Lines: []string{"function: a() [L1-5]", "function: b() [L7-9]", "function: c() [L11-20]"}},
	}
	m := Budgeted(files, nil, DefaultOptions(40))

	require.Len(t, m.Detailed, 1)
	assert.Equal(t, "util.py", m.Detailed[0].Path)
	assert.Equal(t, 12, m.Detailed[0].Cost()) // three blocks and two separators
	require.Len(t, m.Catalog, 1)
	assert.Equal(t, "engine.py", m.Catalog[0].Path)
	assert.Zero(t, m.Omitted)
	assert.Equal(t, 103, m.TotalSymbols)
}

func TestBudgetedTruncation(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("function: f%02d() [L%d-%d]", i, i*10+1, i*10+1+i))
	}
	m := Budgeted([]File{{Path: "a.go", LOC: 300, Lines: lines}}, nil, DefaultOptions(200))
	require.Len(t, m.Detailed, 1)
	d := m.Detailed[0]
	// ten one-line blocks and nine separators; an eleventh would need 21
	assert.Len(t, d.Capped, 19)
	assert.Equal(t, "function: f29() [L291-320]", d.Capped[0])
	assert.Equal(t, 20, d.Truncated)
	assert.Equal(t, 27, d.Cost())
}

func TestBudgetedAccounting(t *testing.T) {
	var files []File
	for i := 0; i < 40; i++ {
		var lines []string
		for j := 0; j <= i%7; j++ {
			lines = append(lines, fmt.Sprintf("function: f%d() [L%d-%d]", j, j*10+1, j*10+5))
		}
		files = append(files, File{Path: fmt.Sprintf("pkg/f%02d.go", i), LOC: 10 * (i + 1), Lines: lines})
	}
	files = append(files, File{Path: "empty.go", LOC: 5})
	churn := history.Summary{"pkg/f03.go": {Commits: 30, Lines: 900}}

	for _, budget := range []int{1, 5, 20, 50, 100, 400} {
		m := Budgeted(files, churn, DefaultOptions(budget))
		assert.Equal(t, 40, m.TotalFiles)
		assert.Equal(t, m.TotalFiles, len(m.Detailed)+len(m.Catalog)+m.Omitted, "budget %d", budget)
		assert.LessOrEqual(t, len(m.Catalog), m.CatalogBudget)

		used := 0
		for _, d := range m.Detailed {
			used += d.Cost()
		}
		assert.LessOrEqual(t, used, m.FullBudget)
	}

	m := Budgeted(files, churn, DefaultOptions(100))
	assert.True(t, m.ChurnRanked)
	require.NotEmpty(t, m.Detailed)
	assert.Equal(t, "pkg/f03.go", m.Detailed[0].Path)
}
