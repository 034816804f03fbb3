// Package sigmap fits per-file signature listings into a line budget. Files
// are ranked by importance and split between a detailed tier, a one-line
// catalog tier, and an omitted count.
package sigmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	symbolLine = regexp.MustCompile(`^\s*(\w+):\s+(\w+)`)
	spanMark   = regexp.MustCompile(`\[L(\d+)-(\d+)\]`)
	lineMark   = regexp.MustCompile(`\[L(\d+)`)
)

// Block is a top-level symbol with its nested members.
type Block struct {
	Lines []string
}

// Span is the widest annotated line span in the block, or the block's
// line count when no span is annotated.
func (b Block) Span() int {
	best := 0
	for _, l := range b.Lines {
		m := spanMark.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		best = max(best, end-start)
	}
	if best == 0 {
		return len(b.Lines)
	}
	return best
}

func isSymbolLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || trimmed == "..." {
		return false
	}
	return symbolLine.MatchString(trimmed)
}

func isTopLevel(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return false
	}
	return isSymbolLine(line)
}

// ParseBlocks splits signature lines into top-level blocks. Decorator lines
// ("@...") directly above a top-level symbol move with it; trailing blank
// lines are dropped.
func ParseBlocks(lines []string) []Block {
	var blocks []Block
	var current []string

	for _, line := range lines {
		if !isTopLevel(line) || len(current) == 0 {
			current = append(current, line)
			continue
		}
		var decorators []string
		for len(current) > 0 && strings.HasPrefix(strings.TrimSpace(current[len(current)-1]), "@") {
			decorators = append([]string{current[len(current)-1]}, decorators...)
			current = current[:len(current)-1]
		}
		if current = trimBlank(current); len(current) > 0 {
			blocks = append(blocks, Block{Lines: current})
		}
		current = append(decorators, line)
	}
	if current = trimBlank(current); len(current) > 0 {
		blocks = append(blocks, Block{Lines: current})
	}
	return blocks
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// PrioritizeBySpan reorders blocks widest span first (stable) and emits
// whole blocks, separated by blank lines, until limit lines are used. The
// first block that does not fit is cut to the remaining room when at least
// two lines remain.
func PrioritizeBySpan(lines []string, limit int) []string {
	blocks := ParseBlocks(lines)
	spans := make([]int, len(blocks))
	for i, b := range blocks {
		spans[i] = b.Span()
	}
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return spans[order[a]] > spans[order[b]] })

	var out []string
	for _, i := range order {
		block := blocks[i].Lines
		sep := 0
		if len(out) > 0 {
			sep = 1
		}
		if len(out)+sep+len(block) <= limit {
			if sep == 1 {
				out = append(out, "")
			}
			out = append(out, block...)
			continue
		}
		if room := limit - len(out) - sep; room >= 2 {
			if sep == 1 {
				out = append(out, "")
			}
			out = append(out, block[:room]...)
		}
		break
	}
	return out
}

// CountSymbols counts symbol definition lines.
func CountSymbols(lines []string) int {
	n := 0
	for _, l := range lines {
		if isSymbolLine(l) {
			n++
		}
	}
	return n
}

// CatalogSymbol is a symbol named in a catalog entry.
type CatalogSymbol struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"` // 0 when unknown
}

// CatalogSymbols extracts symbol names and start lines in listing order.
func CatalogSymbols(lines []string) []CatalogSymbol {
	var out []CatalogSymbol
	for _, l := range lines {
		if !isSymbolLine(l) {
			continue
		}
		m := symbolLine.FindStringSubmatch(strings.TrimSpace(l))
		sym := CatalogSymbol{Name: m[2]}
		if lm := lineMark.FindStringSubmatch(l); lm != nil {
			sym.Line, _ = strconv.Atoi(lm[1])
		}
		out = append(out, sym)
	}
	return out
}
