package detect

import (
	"regexp"
	"sort"
	"strings"

	"rqs/internal/output"
)

// Match is one line that triggered a text check.
type Match struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// Boundary is a runtime guardrail category with up to three matches.
type Boundary struct {
	Label   string  `json:"label"`
	Matches []Match `json:"matches"`
}

// Hotspot is a line whose behavior is likely approximate or brittle.
type Hotspot struct {
	Match
	Label string `json:"label"`
}

type textCheck struct {
	label string
	re    *regexp.Regexp
}

var boundaryChecks = []textCheck{
	{"Strict shell fail-fast mode", regexp.MustCompile(`\bset -euo pipefail\b`)},
	{"Repository boundary enforcement", regexp.MustCompile(`outside target repository|not inside a git repository`)},
	{"Layered config loading", regexp.MustCompile(`defaults\.conf|\.rqsrc|load_config|source .*conf`)},
	{"CLI input validation", regexp.MustCompile(`unknown option|argument required|requires <|must be`)},
}

var hotspotChecks = []textCheck{
	{"heuristic/fallback", regexp.MustCompile(`(?i)fallback|heuristic`)},
	{"error suppression", regexp.MustCompile(`\|\|\s*true|2>/dev/null`)},
	{"broad exception", regexp.MustCompile(`\bexcept Exception\b`)},
	{"todo/fixme", regexp.MustCompile(`TODO|FIXME|XXX`)},
}

const (
	maxBoundaryMatches = 3
	boundarySnippet    = 110
	hotspotSnippet     = 100
	// MaxHotspots bounds the hotspot scan.
	MaxHotspots = 16
)

func sortedKeys(texts map[string]string) []string {
	keys := make([]string, 0, len(texts))
	for k := range texts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindBoundaries reports, per check, up to three matching lines, scanning
// files in path order.
func FindBoundaries(texts map[string]string) []Boundary {
	paths := sortedKeys(texts)
	out := make([]Boundary, 0, len(boundaryChecks))
	for _, check := range boundaryChecks {
		b := Boundary{Label: check.label}
	scan:
		for _, rel := range paths {
			text := texts[rel]
			if text == "" {
				continue
			}
			for i, line := range splitLines(text) {
				if !check.re.MatchString(line) {
					continue
				}
				b.Matches = append(b.Matches, Match{
					Path:    rel,
					Line:    i + 1,
					Snippet: output.Truncate(strings.TrimSpace(line), boundarySnippet),
				})
				if len(b.Matches) >= maxBoundaryMatches {
					break scan
				}
			}
		}
		out = append(out, b)
	}
	return out
}

var (
	regexDefinitionMarkers = []string{"re.compile", "re.match", "re.search", "regexp.MustCompile"}
	commentKeywords        = []string{"fallback", "heuristic", "todo", "fixme"}
)

// FindHotspots scans files in path order for risky lines, one label per
// line, stopping at MaxHotspots. Regex definitions and comments that merely
// mention the keywords are ignored.
func (p *Policy) FindHotspots(texts map[string]string) []Hotspot {
	var out []Hotspot
	for _, rel := range sortedKeys(texts) {
		text := texts[rel]
		if text == "" || p.IsFixture(rel) {
			continue
		}
		for i, raw := range splitLines(text) {
			line := strings.TrimSpace(raw)
			if line == "" || containsAny(line, regexDefinitionMarkers) {
				continue
			}
			if strings.HasPrefix(line, "#") && containsAny(strings.ToLower(line), commentKeywords) {
				continue
			}
			for _, check := range hotspotChecks {
				if check.re.MatchString(line) {
					out = append(out, Hotspot{
						Match: Match{Path: rel, Line: i + 1, Snippet: output.Truncate(line, hotspotSnippet)},
						Label: check.label,
					})
					break
				}
			}
			if len(out) >= MaxHotspots {
				return out
			}
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
