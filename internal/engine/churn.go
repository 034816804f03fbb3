package engine

import (
	"context"

	"rqs/internal/backends/git"
	"rqs/internal/coupling"
	"rqs/internal/export"
	"rqs/internal/history"
	"rqs/internal/render"
)

// sustainedOverhead is the heading, lede and table header of the
// sustained section.
const sustainedOverhead = 6

// ChurnOptions selects the churn report. Zero values fall back to the
// churn configuration.
type ChurnOptions struct {
	Paths    []string
	Since    string
	Top      int
	Bucket   int
	Sort     string
	MinLines int
	Filter   history.Filter
	// Export, when set, also writes the results to this SQLite file.
	Export string
}

// commits loads the numstat history, oldest first. A failing git call is
// logged and reads as an empty history.
func (e *Engine) commits(ctx context.Context, since string, paths []string) []history.Commit {
	text, err := e.git.NumstatLog(ctx, git.LogOptions{Since: since, Paths: paths})
	if err != nil {
		e.logger.Warn("Reading commit history failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return history.ParseNumstatLog(text)
}

// Churn buckets the commit history and derives the heatmap, author,
// sustained-development and co-change sections.
func (e *Engine) Churn(ctx context.Context, opts ChurnOptions) (*render.ChurnReport, error) {
	cc := e.cfg.Churn
	if opts.Top <= 0 {
		opts.Top = cc.Top
	}
	if opts.Bucket <= 0 {
		opts.Bucket = cc.Bucket
	}
	if opts.Sort == "" {
		opts.Sort = cc.Sort
	}
	if opts.MinLines <= 0 {
		opts.MinLines = cc.MinLines
	}

	report := &render.ChurnReport{
		Sort:          opts.Sort,
		MinLines:      opts.MinLines,
		Filter:        opts.Filter,
		MinContinuity: cc.MinContinuity,
	}

	commits := e.commits(ctx, opts.Since, opts.Paths)
	if len(commits) == 0 {
		report.Empty = render.ChurnNoHistory
		return report, nil
	}
	commits = opts.Filter.FilterAuthors(commits)
	if len(commits) == 0 {
		report.Empty = render.ChurnNoAuthorMatch
		return report, nil
	}

	act := history.Bucketize(commits, opts.Bucket, opts.Filter)
	files := act.TopFiles(opts.Sort, opts.MinLines, opts.Top)
	if len(files) == 0 {
		report.Empty = render.ChurnNoFileMatch
		return report, nil
	}

	report.Commits = act.Commits
	report.FilesTouched = len(act.Files)
	report.BucketSize = act.BucketSize
	report.NumBuckets = act.NumBuckets
	report.AutoSized = act.AutoSized
	report.Files = files
	report.Authors = act.TopAuthors(cc.TopAuthors)

	sustained := act.Sustained(cc.MinContinuity)
	report.SustainedTotal = len(sustained)
	if limit := cc.MaxSustainedLines - sustainedOverhead; limit > 0 && len(sustained) > limit {
		sustained = sustained[:limit]
	}
	report.Sustained = sustained

	report.Coupling = coupling.NewAnalyzer(coupling.Options{
		MinCoupling:       cc.MinCoupling,
		MinCoCommits:      cc.MinCoCommits,
		MaxFilesPerCommit: cc.MaxFilesPerCommit,
		EdgeCap:           cc.ClusterEdgeCap,
		MaxLines:          cc.MaxClusterLines,
	}, e.logger).Analyze(act)

	if opts.Export != "" {
		continuity := make(map[string]float64)
		for _, s := range act.Sustained(0) {
			continuity[s.Path] = s.Continuity
		}
		if err := e.export(ctx, opts.Export, export.Snapshot{
			Activity:   act,
			Continuity: continuity,
			Coupling:   report.Coupling,
		}); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// ChurnSummaryOptions selects the per-file churn totals.
type ChurnSummaryOptions struct {
	Since string
	Paths []string
	// Output, when set, also writes the summary there (zstd for ".zst").
	Output string
}

// ChurnSummary totals commits and changed lines per path.
func (e *Engine) ChurnSummary(ctx context.Context, opts ChurnSummaryOptions) (history.Summary, error) {
	summary := history.Summarize(e.commits(ctx, opts.Since, opts.Paths))
	if opts.Output != "" {
		if err := history.WriteSummaryFile(opts.Output, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (e *Engine) export(ctx context.Context, path string, s export.Snapshot) error {
	db, err := export.Open(path, e.logger)
	if err != nil {
		return err
	}
	defer db.Close()
	s.Repo = e.root
	_, err = db.Write(ctx, s)
	return err
}
