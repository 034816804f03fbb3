package render

import (
	"strings"

	"rqs/internal/output"
	"rqs/internal/symbols"
)

// SymbolsReport is a per-file symbol index.
type SymbolsReport struct {
	Scope string        `json:"scope,omitempty"`
	Tags  []symbols.Tag `json:"tags"`
}

// Symbols renders one table per file.
func Symbols(r SymbolsReport) string {
	var d doc
	if len(r.Tags) == 0 {
		d.line("*(no symbols found)*")
		return d.String()
	}

	groups, paths := symbols.GroupByPath(r.Tags)
	d.line(titled("## Symbols", r.Scope))
	d.linef("> Symbol index extracted via ctags — classes, functions, types grouped by file (%d symbols across %d files). Request `rqs outline <file>` for hierarchy detail or `rqs signatures <file>` for full signatures.",
		len(r.Tags), len(paths))

	for _, p := range paths {
		d.line(openFile(p))
		d.blank()
		d.line("### " + output.Code(p))
		t := output.Table{Headers: []string{"Symbol", "Kind", "Lines", "Signature"}}
		for _, tag := range groups[p] {
			sig := ""
			if tag.Signature != "" {
				sig = output.Code(tag.Signature)
			}
			t.AddRow(output.Code(tag.QualifiedName()), tag.Kind, tag.Lines(), sig)
		}
		d.lines(t.Lines())
		d.line(output.CloseTag("file"))
	}
	return d.String()
}

// OutlineReport is the symbol hierarchy of one file.
type OutlineReport struct {
	File string        `json:"file"`
	Tags []symbols.Tag `json:"tags"`
}

// Outline renders tags by line, indented by scope depth.
func Outline(r OutlineReport) string {
	var d doc
	if len(r.Tags) == 0 {
		d.line("*(no symbols found)*")
		return d.String()
	}
	tags := append([]symbols.Tag(nil), r.Tags...)
	symbols.SortByLine(tags)

	d.line("## Outline: " + output.Code(r.File))
	d.line("> Structural hierarchy of symbols with line spans. Request `rqs slice <file> <start> <end>` to see implementation.")
	d.line("```")
	for _, t := range tags {
		d.line(strings.Repeat("  ", t.ScopeDepth()) + t.SignatureLine())
	}
	d.line("```")
	return d.String()
}
