package render

import (
	"fmt"
	"strconv"
	"strings"

	"rqs/internal/config"
	"rqs/internal/coupling"
	"rqs/internal/history"
	"rqs/internal/output"
)

// Reasons a churn report has no body.
const (
	ChurnNoHistory     = "no commit history found"
	ChurnNoAuthorMatch = "no commits match the specified author filter"
	ChurnNoFileMatch   = "no files match the specified filters"
)

// ChurnReport is the churn heatmap with its author, sustained-development
// and co-change sections.
type ChurnReport struct {
	Empty string `json:"empty,omitempty"`

	Commits      int            `json:"commits"`
	FilesTouched int            `json:"filesTouched"`
	BucketSize   int            `json:"bucketSize"`
	NumBuckets   int            `json:"numBuckets"`
	AutoSized    bool           `json:"autoSized"`
	Sort         string         `json:"sort"`
	MinLines     int            `json:"minLines,omitempty"`
	Filter       history.Filter `json:"filter"`

	Files   []*history.FileActivity   `json:"files"`
	Authors []*history.AuthorActivity `json:"authors"`

	MinContinuity  float64                 `json:"minContinuity"`
	Sustained      []history.SustainedFile `json:"sustained,omitempty"` // rows shown
	SustainedTotal int                     `json:"sustainedTotal"`

	Coupling *coupling.Analysis `json:"coupling,omitempty"`
}

var sortLabels = map[string]string{
	config.SortCommits: "commit count",
	config.SortInit:    "first appearance (oldest first)",
}

func (r ChurnReport) filterNote() string {
	var notes []string
	if label, ok := sortLabels[r.Sort]; ok {
		notes = append(notes, "sorted by "+label)
	}
	if r.MinLines > 0 {
		notes = append(notes, fmt.Sprintf("min %d lines", r.MinLines))
	}
	if len(r.Filter.Include) > 0 {
		notes = append(notes, "include: "+strings.Join(r.Filter.Include, ", "))
	}
	if len(r.Filter.Exclude) > 0 {
		notes = append(notes, "exclude: "+strings.Join(r.Filter.Exclude, ", "))
	}
	if len(r.Filter.Authors) > 0 {
		notes = append(notes, "authors: "+strings.Join(r.Filter.Authors, ", "))
	}
	if len(notes) == 0 {
		return ""
	}
	return " Filters: " + strings.Join(notes, "; ") + "."
}

// Churn renders the churn report.
func Churn(r ChurnReport) string {
	var d doc
	if r.Empty != "" {
		d.line("*(" + r.Empty + ")*")
		return d.String()
	}

	auto := ""
	if r.AutoSized {
		auto = " [auto-sized]"
	}
	d.line("## Churn")
	d.linef("> %d commits, %d files touched. Commits = number of commits that modified the file. "+
		"Lines = total lines added + deleted. History = per-file activity binned into %d buckets "+
		"of %d commits each (oldest → newest)%s, shaded by lines changed relative to the global max.%s",
		r.Commits, r.FilesTouched, r.NumBuckets, r.BucketSize, auto, r.filterNote())
	d.blank()

	peak := history.MaxBucket(r.Files)
	files := output.Table{
		Headers: []string{"Commits", "Lines", "History", "File"},
		Align:   []output.Align{output.AlignRight, output.AlignRight},
	}
	for _, f := range r.Files {
		files.AddRow(strconv.Itoa(f.Commits), strconv.Itoa(f.Lines), output.Code(output.ShadeBar(f.Buckets, peak)), output.Code(f.Path))
	}
	d.lines(files.Lines())

	if len(r.Authors) > 0 {
		d.blank()
		d.line("### Author Activity")
		d.line("> Same timeline buckets, showing which authors were active over time (by commit count).")
		authorPeak := history.MaxAuthorBucket(r.Authors)
		authors := output.Table{
			Headers: []string{"Commits", "Lines", "Activity", "Author"},
			Align:   []output.Align{output.AlignRight, output.AlignRight},
		}
		for _, a := range r.Authors {
			authors.AddRow(strconv.Itoa(a.Commits), strconv.Itoa(a.Lines), output.Code(output.ShadeBar(a.Buckets, authorPeak)), output.Code(a.Name))
		}
		d.lines(authors.Lines())
	}

	if len(r.Sustained) > 0 {
		sustained(&d, r)
	}
	if r.Coupling != nil && len(r.Coupling.Clusters) > 0 {
		clusters(&d, r.Coupling)
	}
	return d.String()
}

func sustained(d *doc, r ChurnReport) {
	d.blank()
	d.line("### Sustained Development Files")
	const meaning = "Continuity = fraction of timeline buckets with activity since the file first appeared."
	if len(r.Sustained) < r.SustainedTotal {
		d.linef("> Files with ongoing modification across their lifespan (showing %d of %d). %s",
			len(r.Sustained), r.SustainedTotal, meaning)
	} else {
		d.linef("> Files with ongoing modification across their lifespan. %s High-continuity files are likely central to ongoing development.", meaning)
	}
	d.blank()

	t := output.Table{
		Headers: []string{"Continuity", "Active", "Commits", "Lines", "File"},
		Align:   []output.Align{output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight},
	}
	for _, s := range r.Sustained {
		t.AddRow(output.Percent(s.Continuity), fmt.Sprintf("%d/%d", s.Active, s.Possible),
			strconv.Itoa(s.Commits), strconv.Itoa(s.Lines), output.Code(s.Path))
	}
	d.lines(t.Lines())
}

func clusters(d *doc, an *coupling.Analysis) {
	d.blank()
	d.line("### Co-change Clusters")
	d.linef("> Files that frequently change together (Jaccard coupling >= %s, min %d co-commits). Connected pairs form clusters.",
		output.Percent(an.Options.MinCoupling), an.Options.MinCoCommits)

	for i, c := range an.Clusters[:an.Shown] {
		d.blank()
		d.linef("**Cluster %d** (%d files, avg coupling %s)", i+1, len(c.Members), output.Percent(c.AvgJaccard))
		d.blank()

		members := output.Table{
			Headers: []string{"Commits", "Lines", "File"},
			Align:   []output.Align{output.AlignRight, output.AlignRight},
		}
		for _, m := range c.Members {
			members.AddRow(strconv.Itoa(m.Commits), strconv.Itoa(m.Lines), output.Code(m.Path))
		}
		d.lines(members.Lines())

		d.blank()
		pairs := output.Table{
			Headers: []string{"Coupling", "Co-commits", "File pair"},
			Align:   []output.Align{output.AlignRight, output.AlignRight},
		}
		for _, e := range c.TopEdges(an.Options.EdgeCap) {
			pairs.AddRow(output.Percent(e.Jaccard), strconv.Itoa(e.CoCommits), output.Code(e.A)+" ↔ "+output.Code(e.B))
		}
		d.lines(pairs.Lines())
	}

	if omitted := an.Omitted(); omitted > 0 {
		d.blank()
		d.linef("*(%d more clusters omitted for brevity)*", omitted)
	}
}
