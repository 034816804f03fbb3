package sigmap

import (
	"sort"

	"rqs/internal/history"
	"rqs/internal/scoring"
)

// File is one file's signature listing.
type File struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	LOC      int      `json:"loc"`
	Lines    []string `json:"lines"`
}

// Options sizes the tiers.
type Options struct {
	Budget           int
	PerFileCap       int     // lines per detailed file (20)
	OverheadFraction float64 // share reserved for headers (0.05)
	OverheadMin      int     // lower bound on the reserve (5)
	FullFraction     float64 // share of the rest for detailed files (0.63)
}

// DefaultOptions returns the standard tier split for budget.
func DefaultOptions(budget int) Options {
	return Options{
		Budget:           budget,
		PerFileCap:       20,
		OverheadFraction: 0.05,
		OverheadMin:      5,
		FullFraction:     0.63,
	}
}

// Detail is a file shown in the detailed tier.
type Detail struct {
	File
	Capped    []string `json:"capped"`
	Truncated int      `json:"truncated"` // symbols cut by the per-file cap
}

// Cost is the rendered height: the file tags, a blank, the heading, two
// fences, the capped lines and the truncation note when present.
func (d Detail) Cost() int {
	cost := 7 + len(d.Capped)
	if d.Truncated > 0 {
		cost++
	}
	return cost
}

// Map is a budgeted signature map.
type Map struct {
	TotalFiles    int      `json:"totalFiles"`
	TotalSymbols  int      `json:"totalSymbols"`
	ChurnRanked   bool     `json:"churnRanked"`
	FullBudget    int      `json:"fullBudget"`
	CatalogBudget int      `json:"catalogBudget"`
	Detailed      []Detail `json:"detailed"`
	Catalog       []File   `json:"catalog"`
	Omitted       int      `json:"omitted"`
}

// FrameLines is the most a budgeted map spends outside the tiers: title and
// two notes, the catalog heading between blanks, the omitted footer after a
// blank. The overhead reserve never drops below it.
const FrameLines = 8

// Tiers returns the detailed and catalog line budgets.
func (o Options) Tiers() (full, catalog int) {
	overhead := max(FrameLines, o.OverheadMin, int(float64(o.Budget)*o.OverheadFraction))
	rest := o.Budget - overhead
	if rest < 0 {
		rest = 0
	}
	full = int(float64(rest) * o.FullFraction)
	return full, rest - full
}

// Budgeted ranks files by importance (path breaks ties) and assigns each
// to the detailed tier if its capped listing fits, else to the catalog
// while catalog lines remain, else counts it as omitted. Files without
// signature lines are dropped first. churn may be nil.
func Budgeted(files []File, churn history.Summary, opts Options) *Map {
	hasChurn := churn != nil
	full, catalog := opts.Tiers()
	m := &Map{ChurnRanked: hasChurn, FullBudget: full, CatalogBudget: catalog}

	type ranked struct {
		file       File
		importance float64
	}
	var items []ranked
	for _, f := range files {
		if len(trimBlank(f.Lines)) == 0 {
			continue
		}
		fc := churn[f.Path]
		imp := scoring.FileImportance(scoring.FileSignals{
			LOC:          f.LOC,
			ChurnCommits: fc.Commits,
			ChurnLines:   fc.Lines,
		}, hasChurn)
		items = append(items, ranked{f, imp})
		m.TotalSymbols += CountSymbols(f.Lines)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].importance != items[j].importance {
			return items[i].importance > items[j].importance
		}
		return items[i].file.Path < items[j].file.Path
	})
	m.TotalFiles = len(items)

	fullUsed, catalogUsed := 0, 0
	for _, it := range items {
		capped := PrioritizeBySpan(it.file.Lines, opts.PerFileCap)
		if len(capped) == 0 {
			capped = it.file.Lines[:min(opts.PerFileCap, len(it.file.Lines))]
		}
		d := Detail{
			File:      it.file,
			Capped:    capped,
			Truncated: CountSymbols(it.file.Lines) - CountSymbols(capped),
		}
		switch {
		case fullUsed+d.Cost() <= full:
			m.Detailed = append(m.Detailed, d)
			fullUsed += d.Cost()
		case catalogUsed < catalog:
			m.Catalog = append(m.Catalog, it.file)
			catalogUsed++
		default:
			m.Omitted++
		}
	}
	return m
}
