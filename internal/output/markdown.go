package output

import (
	"strings"
	"unicode/utf8"
)

// Align is a column alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a padded markdown table.
type Table struct {
	Headers []string
	Align   []Align // missing entries default to AlignLeft
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Lines renders the header, separator and rows.
func (t *Table) Lines() []string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, t.formatRow(t.Headers, widths))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w+2)
	}
	lines = append(lines, "|"+strings.Join(sep, "|")+"|")

	for _, row := range t.Rows {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

// String renders the table with a trailing newline after each line.
func (t *Table) String() string {
	return strings.Join(t.Lines(), "\n") + "\n"
}

func (t *Table) formatRow(cells []string, widths []int) string {
	padded := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(t.Align) && t.Align[i] == AlignRight {
			padded[i] = PadLeft(cell, w)
		} else {
			padded[i] = PadRight(cell, w)
		}
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

// Width is the display width in runes.
func Width(s string) int {
	return utf8.RuneCountInString(s)
}

// PadRight left-aligns s in a field of width runes.
func PadRight(s string, width int) string {
	if n := width - Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// PadLeft right-aligns s in a field of width runes.
func PadLeft(s string, width int) string {
	if n := width - Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// Code wraps s in backticks.
func Code(s string) string {
	return "`" + s + "`"
}

// Truncate shortens s to max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if Width(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
