package detect

import (
	"regexp"
	"sort"
	"strings"

	"rqs/internal/paths"
)

// IsTestFile applies directory (tests/, test/ at any depth) and filename
// conventions.
func IsTestFile(rel string) bool {
	if strings.HasPrefix(rel, "tests/") || strings.Contains(rel, "/tests/") ||
		strings.HasPrefix(rel, "test/") || strings.Contains(rel, "/test/") {
		return true
	}
	base := strings.ToLower(baseName(rel))
	return strings.HasPrefix(base, "test_") ||
		strings.HasSuffix(base, "_test.py") ||
		strings.HasSuffix(base, ".spec.js") ||
		strings.HasSuffix(base, "_spec.lua") ||
		strings.HasSuffix(base, "_test.lua")
}

// FindTestFiles returns the sorted test files among files.
func FindTestFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if IsTestFile(f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

type testPatterns struct {
	cases   []*regexp.Regexp
	asserts []*regexp.Regexp
}

var (
	shellTests = testPatterns{
		cases:   []*regexp.Regexp{regexp.MustCompile(`(?m)^\s*test_[A-Za-z0-9_]+\s*\(\)\s*\{`)},
		asserts: []*regexp.Regexp{regexp.MustCompile(`\bassert_[A-Za-z0-9_]+\b`)},
	}
	pythonTests = testPatterns{
		cases:   []*regexp.Regexp{regexp.MustCompile(`(?m)^\s*def\s+test_[A-Za-z0-9_]+\s*\(`)},
		asserts: []*regexp.Regexp{regexp.MustCompile(`\bassert\b`)},
	}
	jsTests = testPatterns{
		cases:   []*regexp.Regexp{regexp.MustCompile(`\b(?:it|test)\s*\(\s*["']`)},
		asserts: []*regexp.Regexp{regexp.MustCompile(`\bexpect\s*\(`)},
	}
	luaTests = testPatterns{
		cases: []*regexp.Regexp{regexp.MustCompile(`\bit\s*\(\s*["']`)},
		asserts: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:eq|ok|neq|matches)\s*\(`),
			regexp.MustCompile(`\bassert\b`),
		},
	}
)

func patternsFor(rel string) (testPatterns, bool) {
	switch paths.Ext(rel) {
	case ".sh", ".bash":
		return shellTests, true
	case ".py":
		return pythonTests, true
	case ".js", ".jsx", ".ts", ".tsx":
		return jsTests, true
	case ".lua":
		return luaTests, true
	}
	return testPatterns{}, false
}

func countAll(res []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range res {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// TestCaseCount counts named test cases in a test file.
func TestCaseCount(rel, text string) int {
	p, ok := patternsFor(rel)
	if !ok {
		return 0
	}
	return countAll(p.cases, text)
}

// AssertCount counts assertion-like calls in a test file.
func AssertCount(rel, text string) int {
	p, ok := patternsFor(rel)
	if !ok {
		return 0
	}
	return countAll(p.asserts, text)
}

// CommandHit is a CLI subcommand and how often tests invoke it.
type CommandHit struct {
	Command string `json:"command"`
	Hits    int    `json:"hits"`
}

// CommandHits counts `<name> [--repo X] <subcommand>` invocations.
func (p *Policy) CommandHits(texts map[string]string) map[string]int {
	name := p.CommandName
	if name == "" {
		return map[string]int{}
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b(?:\s+--repo\s+\S+)?\s+([A-Za-z0-9_-]+)`)
	hits := make(map[string]int)
	for _, text := range texts {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			hits[m[1]]++
		}
	}
	return hits
}

// TopCommandHits orders hits by (-count, command) and keeps n.
func TopCommandHits(hits map[string]int, n int) []CommandHit {
	out := make([]CommandHit, 0, len(hits))
	for cmd, c := range hits {
		out = append(out, CommandHit{Command: cmd, Hits: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hits != out[j].Hits {
			return out[i].Hits > out[j].Hits
		}
		return out[i].Command < out[j].Command
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

var testPathRE = regexp.MustCompile(`\b(?:bin|lib|conf|src)/[A-Za-z0-9_./-]+\b`)

// TestPathHits counts repository paths named literally in test texts.
func TestPathHits(testTexts map[string]string) map[string]int {
	hits := make(map[string]int)
	for _, text := range testTexts {
		for _, m := range testPathRE.FindAllString(text, -1) {
			hits[m]++
		}
	}
	return hits
}

var symbolDefRE = regexp.MustCompile(`(?m)^\s*(?:class|def|function|struct|interface|type|enum)\b`)

// SymbolDefCount counts lines that open a definition in any common language.
func SymbolDefCount(text string) int {
	return len(symbolDefRE.FindAllStringIndex(text, -1))
}

// TestSummary aggregates the behavioral evidence of a test suite.
type TestSummary struct {
	Files      []string     `json:"files"`
	Cases      int          `json:"cases"`
	Assertions int          `json:"assertions"`
	Commands   []CommandHit `json:"commands"`
}

// SummarizeTests counts cases, assertions and the top 10 command hits.
func (p *Policy) SummarizeTests(testFiles []string, testTexts map[string]string) TestSummary {
	s := TestSummary{Files: testFiles}
	for _, f := range testFiles {
		s.Cases += TestCaseCount(f, testTexts[f])
		s.Assertions += AssertCount(f, testTexts[f])
	}
	s.Commands = TopCommandHits(p.CommandHits(testTexts), 10)
	return s
}
