package render

import (
	"fmt"
	"strings"

	"rqs/internal/output"
	"rqs/internal/sigmap"
	"rqs/internal/symbols"
)

// SignaturesReport is an unbudgeted or budgeted signature listing.
type SignaturesReport struct {
	Scope     string        `json:"scope,omitempty"`
	WithSpans bool          `json:"withSpans,omitempty"`
	Budget    int           `json:"budget,omitempty"`
	Files     []sigmap.File `json:"files,omitempty"` // unbudgeted listing
	Map       *sigmap.Map   `json:"map,omitempty"`   // set when Budget > 0
	Catalog   int           `json:"-"`               // symbols named per catalog entry
}

func (r SignaturesReport) title() string {
	if r.WithSpans {
		return titled("## Symbol Map", r.Scope)
	}
	return titled("## Signatures", r.Scope)
}

func fileBlock(d *doc, f sigmap.File, lines []string, truncated int) {
	lang := symbols.FenceLanguage(f.Path)
	attr := lang
	if attr == "" {
		attr = "text"
	}
	d.line(openFile(f.Path, output.Attr{Key: "language", Value: attr}))
	d.blank()
	d.line("### " + output.Code(f.Path))
	d.line("```" + lang)
	d.lines(lines)
	if truncated > 0 {
		d.linef("# ... and %d more symbols", truncated)
	}
	d.line("```")
	d.line(output.CloseTag("file"))
}

// Signatures renders a signature listing.
func Signatures(r SignaturesReport) string {
	var d doc
	if r.Map == nil && len(r.Files) == 0 {
		d.line("*(no signatures found)*")
		return d.String()
	}
	if r.Map != nil {
		return budgetedSignatures(r)
	}

	d.line(r.title())
	if r.WithSpans {
		d.line("> Symbols, signatures, and structure with line spans per file. Request `rqs outline <file>` for one file in detail.")
	} else {
		d.line("> Behavioral sketch: signatures, structure, and key details per file. Request `rqs outline <file>` for one file in detail.")
	}
	for _, f := range r.Files {
		fileBlock(&d, f, f.Lines, 0)
	}
	return d.String()
}

func budgetedSignatures(r SignaturesReport) string {
	var d doc
	m := r.Map
	if m.TotalFiles == 0 {
		d.line("*(no signatures found)*")
		return d.String()
	}

	churn := ""
	if m.ChurnRanked {
		churn = " (churn-ranked)"
	}
	d.line(r.title())
	d.linef("> Budgeted symbol map: %d files, %d symbols. %d files in detail, %d in catalog%s.",
		m.TotalFiles, m.TotalSymbols, len(m.Detailed), len(m.Catalog), churn)
	d.line("> Request `rqs signatures <file>` for full detail on any file.")

	for _, det := range m.Detailed {
		fileBlock(&d, det.File, det.Capped, det.Truncated)
	}

	if len(m.Catalog) > 0 {
		d.blank()
		d.linef("### Catalog (%d files)", len(m.Catalog))
		d.blank()
		n := r.Catalog
		if n <= 0 {
			n = 5
		}
		for _, f := range m.Catalog {
			d.line(CatalogEntry(f, n))
		}
	}

	if m.Omitted > 0 {
		d.blank()
		d.linef("*(%d more files not shown. Use `rqs signatures <path>` to explore.)*", m.Omitted)
	}
	return d.String()
}

// CatalogEntry is the one-line catalog form of a file: its first n symbols
// with start lines, a "+N more" suffix, and the file length.
func CatalogEntry(f sigmap.File, n int) string {
	syms := sigmap.CatalogSymbols(f.Lines)
	if len(syms) == 0 {
		return fmt.Sprintf("- %s — %dL", output.Code(f.Path), f.LOC)
	}
	shown := syms[:min(n, len(syms))]
	parts := make([]string, len(shown))
	for i, s := range shown {
		if s.Line > 0 {
			parts[i] = fmt.Sprintf("%s (L%d)", s.Name, s.Line)
		} else {
			parts[i] = s.Name
		}
	}
	text := strings.Join(parts, ", ")
	if len(syms) > n {
		text += fmt.Sprintf(" +%d more", len(syms)-n)
	}
	return fmt.Sprintf("- %s: %s — %dL", output.Code(f.Path), text, f.LOC)
}
