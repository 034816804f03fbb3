package engine

import (
	"context"

	"rqs/internal/backends/git"
	"rqs/internal/detect"
	"rqs/internal/export"
	"rqs/internal/history"
	"rqs/internal/primer"
)

// PrimerOptions selects the orientation report.
type PrimerOptions struct {
	Level  string // "" uses the configured level
	Export string
}

// Primer assembles the orientation report for the whole repository.
func (e *Engine) Primer(ctx context.Context, opts PrimerOptions) (*primer.Report, error) {
	cfg := e.cfg.Primer
	if opts.Level != "" {
		cfg.Level = opts.Level
	}

	files := e.trackedFiles(ctx, "")
	in := primer.Input{Root: e.root, Files: files, Touches: e.touches(ctx, files)}

	b := primer.NewBuilder(cfg, e.policy, e.logger)
	b.Workers = e.cfg.Workers
	report, err := b.Build(ctx, in)
	if err != nil {
		return nil, err
	}

	if opts.Export != "" {
		if err := e.export(ctx, opts.Export, export.Snapshot{
			Continuity: history.TouchContinuity(in.Touches, cfg.ContinuityTargetBuckets),
			Critical:   report.Critical,
		}); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// touches reads per-commit touched paths limited to tracked files.
func (e *Engine) touches(ctx context.Context, files []string) [][]string {
	if len(files) == 0 {
		return nil
	}
	text, err := e.git.TouchLog(ctx, git.LogOptions{})
	if err != nil {
		e.logger.Warn("Reading touch history failed; continuity unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	tracked := detect.NewFileSet(files)
	return history.ParseTouchLog(text, tracked.Has)
}
