package render

import (
	"fmt"
	"strconv"
	"strings"

	"rqs/internal/detect"
	"rqs/internal/output"
	"rqs/internal/primer"
	"rqs/internal/scoring"
)

const (
	primerEntrypoints = 6
	primerDispatch    = 20
	primerCritical    = 10
	primerBoundaryRef = 2
	primerHotspots    = 12
)

// Primer renders the orientation report for its level. Sections are
// separated by blank lines.
func Primer(r *primer.Report) string {
	sections := []string{orientation(r), boundaries(r.Boundaries)}
	if r.ShowsContract() {
		sections = append(sections, contract(r.Tests))
	}
	if r.ShowsHotspots() {
		sections = append(sections, hotspots(r.Hotspots))
	}
	return strings.Join(sections, "\n")
}

func section(tag, title, lede string, body func(d *doc)) string {
	var d doc
	d.line(output.OpenTag(tag))
	d.line("## " + title)
	d.line("> " + lede)
	body(&d)
	d.line(output.CloseTag(tag))
	return d.String()
}

func orientation(r *primer.Report) string {
	return section("orientation", "Orientation", "Entrypoints, dispatch surface, and critical-path ranking.", func(d *doc) {
		d.blank()
		d.line("**Likely entrypoints:**")
		if len(r.Entrypoints) == 0 {
			d.line("- *(no likely entrypoints detected by current heuristics)*")
			d.line("- Expected signals include executable files in `bin/`, entry-like filenames (`main`, `app`, `cli`, `server`), Python `__main__` blocks, and CLI parser wiring.")
			d.line("- Implication: this repo may be library-first, config/framework-driven, monorepo-style, or using entry conventions not covered by current static checks.")
		}
		for i, ep := range r.Entrypoints {
			if i == primerEntrypoints {
				break
			}
			d.line(entrypointLine(ep))
		}

		d.blank()
		d.line("**Dispatch surface:**")
		if len(r.Dispatch) == 0 {
			d.line("- *(no explicit dispatch map detected)*")
			d.line("- The detector currently maps shell `case \"$...\"` style command routing and Python `argparse add_parser(...)` command tables.")
			d.line("- Implication: control flow may be framework/router-driven, config/plugin-driven, direct-call without a command router, or outside the currently parsed patterns.")
		} else {
			t := output.Table{Headers: []string{"Command", "Entrypoint", "Handler"}}
			for i, e := range r.Dispatch {
				if i == primerDispatch {
					break
				}
				t.AddRow(output.Code(e.Command), output.Code(e.EntryFile), handlerCell(e))
			}
			d.lines(t.Lines())
		}

		if len(r.Critical) > 0 {
			d.blank()
			d.line("**Critical path (ranked):**")
			t := output.Table{
				Headers: []string{"#", "File", "Score", "Signals"},
				Align:   []output.Align{output.AlignRight, output.AlignLeft, output.AlignRight},
			}
			for i, c := range r.Critical {
				if i == primerCritical {
					break
				}
				t.AddRow(strconv.Itoa(i+1), output.Code(c.Path), output.Fixed1(c.Score), criticalSignals(c.Components))
			}
			d.lines(t.Lines())
		}
	})
}

func entrypointLine(ep scoring.RankedEntrypoint) string {
	signals := "heuristic"
	if len(ep.Signals) > 0 {
		n := len(ep.Signals)
		if n > 3 {
			n = 3
		}
		signals = strings.Join(ep.Signals[:n], ", ")
	}
	return fmt.Sprintf("- %s (entry %d, blend %s, critical %s, continuity %s; %s)",
		output.Code(ep.Path), ep.Heuristic, output.Fixed1(ep.Blended),
		output.Fixed1(ep.Critical), output.Percent(ep.Continuity), signals)
}

func handlerCell(e detect.DispatchEntry) string {
	switch {
	case e.SourceFile != "" && e.Handler != "":
		return output.Code(e.SourceFile) + " -> " + output.Code(e.Handler)
	case e.SourceFile != "":
		return output.Code(e.SourceFile)
	case e.Handler != "":
		return output.Code(e.Handler)
	}
	return "*(not resolved)*"
}

func criticalSignals(c scoring.Components) string {
	var s []string
	if c.Entry > 0 {
		s = append(s, "entrypoint")
	}
	if c.Dispatch > 0 {
		s = append(s, fmt.Sprintf("dispatch x%d", int(c.Dispatch)))
	}
	if c.FanIn > 0 {
		s = append(s, fmt.Sprintf("imported-by %d", int(c.FanIn)))
	}
	if c.Test > 0 {
		s = append(s, fmt.Sprintf("test-touch %d", int(c.Test)))
	}
	if len(s) == 0 {
		return "size/symbol density"
	}
	return strings.Join(s, ", ")
}

func boundaries(findings []detect.Boundary) string {
	return section("runtime_boundaries", "Runtime Boundaries", "Guardrails and operational constraints inferred from implementation patterns.", func(d *doc) {
		found := false
		for _, f := range findings {
			if len(f.Matches) == 0 {
				continue
			}
			found = true
			var refs []string
			for i, m := range f.Matches {
				if i == primerBoundaryRef {
					break
				}
				refs = append(refs, output.Code(fmt.Sprintf("%s:%d", m.Path, m.Line)))
			}
			d.line("- " + f.Label + ": " + strings.Join(refs, ", "))
		}
		if !found {
			d.line("- *(no strong boundary signals detected)*")
		}
	})
}

func contract(tests *detect.TestSummary) string {
	return section("behavioral_contract", "Behavioral Contract (Tests)", "What the test suite explicitly validates today.", func(d *doc) {
		if tests == nil || len(tests.Files) == 0 {
			d.line("- *(no test files detected)*")
			return
		}
		d.linef("- Test files detected: %d", len(tests.Files))
		d.linef("- Named test cases detected: %d", tests.Cases)
		d.linef("- Assertion-like checks detected: %d", tests.Assertions)
		d.blank()
		d.line("**Most exercised command surfaces:**")
		if len(tests.Commands) == 0 {
			d.line("- *(no command invocation patterns detected in tests)*")
		}
		for _, c := range tests.Commands {
			d.linef("- %s (%d references)", output.Code(c.Command), c.Hits)
		}
	})
}

func hotspots(spots []detect.Hotspot) string {
	return section("heuristic_risk_hotspots", "Heuristic Risk Hotspots", "Areas where behavior may be approximate, suppressed, or brittle under edge conditions.", func(d *doc) {
		if len(spots) == 0 {
			d.line("- *(no obvious hotspots detected by heuristics)*")
			return
		}
		t := output.Table{Headers: []string{"File", "Signal", "Snippet"}}
		for i, h := range spots {
			if i == primerHotspots {
				break
			}
			t.AddRow(output.Code(fmt.Sprintf("%s:%d", h.Path, h.Line)), h.Label, output.Code(h.Snippet))
		}
		d.lines(t.Lines())
	})
}
