package main

import (
	"time"

	"github.com/spf13/cobra"

	"rqs/internal/engine"
	"rqs/internal/render"
)

var (
	treeDepth     int
	treeBudget    int
	treeChurnData string
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Show the tracked directory structure",
	Long: `Show git-tracked files as a tree with per-file line counts.

With --budget N the tree fits in N lines: the most important
directories expand first and the rest collapse to a file count.
Pass --churn-data (from 'rqs churn-summary') to weight importance by
commit activity.

Examples:
  rqs tree
  rqs tree src --depth 2
  rqs tree --budget 60 --churn-data .rqs/churn.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = full depth)")
	treeCmd.Flags().IntVar(&treeBudget, "budget", -1, "Line budget (default: budget.treeLines, 0 = unlimited)")
	treeCmd.Flags().StringVar(&treeChurnData, "churn-data", "", "Churn summary file from 'rqs churn-summary'")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	eng, logger, err := setup(ctx)
	if err != nil {
		return err
	}

	budget := treeBudget
	if budget < 0 {
		budget = eng.Config().Budget.TreeLines
	}
	opts := engine.TreeOptions{Depth: treeDepth, Budget: budget, ChurnData: treeChurnData}
	if len(args) == 1 {
		opts.Path = args[0]
	}

	res, err := eng.Tree(ctx, opts)
	if err != nil {
		return err
	}
	defer logDone(logger, "tree", start)
	return write(cmd.OutOrStdout(), report{
		mode:     "tree",
		value:    res,
		markdown: func() string { return render.Tree(*res) },
	})
}
