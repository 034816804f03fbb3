package engine

import (
	"context"
	"sort"
	"strings"

	"rqs/internal/collect"
	"rqs/internal/history"
	"rqs/internal/paths"
	"rqs/internal/render"
	"rqs/internal/tree"
)

// TreeOptions selects the tree report.
type TreeOptions struct {
	Path      string // repository-relative subtree; "" is the root
	Depth     int    // 0 = full depth
	Budget    int    // 0 = unbudgeted
	ChurnData string // optional churn summary file
}

// Tree builds the directory tree under opts.Path. Paths in the report are
// relative to that subtree.
func (e *Engine) Tree(ctx context.Context, opts TreeOptions) (*render.TreeReport, error) {
	scope, err := e.resolveScope(opts.Path)
	if err != nil {
		return nil, err
	}
	files := relativeTo(scope, e.trackedFiles(ctx, scope))

	report := &render.TreeReport{Root: opts.Path, Depth: opts.Depth, Files: len(files), Budget: opts.Budget}
	if len(files) == 0 {
		return report, nil
	}

	base := e.root
	if scope != "" {
		base = paths.JoinRepoPath(e.root, scope)
	}
	lineCounts := collect.CountLines(ctx, base, files, e.cfg.Workers)
	report.LineCounts = lineCounts
	root := tree.Build(files, opts.Depth)

	if opts.Budget <= 0 {
		report.Lines = tree.Lines(root, lineCounts)
		return report, nil
	}

	churn := rebaseSummary(scope, e.loadChurn(opts.ChurnData))
	report.HasChurn = churn != nil
	tree.ComputeStats(root, lineCounts, churn)
	lineBudget := max(opts.Budget-render.TreeFrameLines, len(root.Children))
	plan := tree.PlanBudget(root, lineBudget, lineCounts)
	report.Lines = tree.BudgetedLines(root, plan, lineCounts, report.HasChurn)

	e.logger.Debug("Tree budget planned", map[string]interface{}{
		"budget":   opts.Budget,
		"lines":    lineBudget,
		"cost":     plan.Cost,
		"expanded": len(plan.Expanded),
	})
	return report, nil
}

// relativeTo strips scope from each path and sorts the result.
func relativeTo(scope string, files []string) []string {
	if scope == "" {
		out := append([]string(nil), files...)
		sort.Strings(out)
		return out
	}
	prefix := scope + "/"
	var out []string
	for _, f := range files {
		if rel := strings.TrimPrefix(f, prefix); rel != f && rel != "" {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}

// rebaseSummary keeps the entries under scope with their paths made
// relative to it.
func rebaseSummary(scope string, s history.Summary) history.Summary {
	if s == nil || scope == "" {
		return s
	}
	prefix := scope + "/"
	out := make(history.Summary)
	for p, fc := range s {
		if rel := strings.TrimPrefix(p, prefix); rel != p {
			out[rel] = fc
		}
	}
	return out
}
