package main

import (
	"bytes"
	"time"

	"github.com/spf13/cobra"

	"rqs/internal/config"
	"rqs/internal/engine"
	"rqs/internal/errors"
	"rqs/internal/history"
	"rqs/internal/render"
)

var (
	churnSince    string
	churnTop      int
	churnBucket   int
	churnSort     string
	churnMinLines int
	churnInclude  []string
	churnExclude  []string
	churnAuthors  []string

	summarySince  string
	summaryOutput string
)

var churnCmd = &cobra.Command{
	Use:   "churn [path...]",
	Short: "Show commit activity over time",
	Long: `Show a per-file heatmap of commit activity, the most active authors,
files under sustained development, and clusters of files that change
together.

Buckets hold one commit each up to 60 commits and are sized
automatically beyond that unless --bucket is given.

Examples:
  rqs churn
  rqs churn --since "6 months ago" --top 30
  rqs churn --include 'src/*' --exclude '*_test.go' --author ada
  rqs churn --export .rqs/snapshots.db`,
	RunE: runChurn,
}

var churnSummaryCmd = &cobra.Command{
	Use:   "churn-summary [path...]",
	Short: "Write per-file commit and line totals as JSON",
	Long: `Write {path: {commits, lines}} for every file in the history. The
result feeds --churn-data on tree and signatures. A --output path ending
in .zst is zstd-compressed.`,
	RunE: runChurnSummary,
}

func init() {
	f := churnCmd.Flags()
	f.StringVar(&churnSince, "since", "", "Only commits newer than this date (git --since syntax)")
	f.IntVar(&churnTop, "top", 0, "Files to show (default: churn.top)")
	f.IntVar(&churnBucket, "bucket", 0, "Commits per bucket (0 = auto)")
	f.StringVar(&churnSort, "sort", "", "Sort by lines, commits, or init (default: churn.sort)")
	f.IntVar(&churnMinLines, "min-lines", 0, "Hide files with fewer changed lines")
	f.StringSliceVar(&churnInclude, "include", nil, "Only paths matching these globs")
	f.StringSliceVar(&churnExclude, "exclude", nil, "Skip paths matching these globs")
	f.StringSliceVar(&churnAuthors, "author", nil, "Only commits whose author contains this text (case-insensitive)")
	rootCmd.AddCommand(churnCmd)

	churnSummaryCmd.Flags().StringVar(&summarySince, "since", "", "Only commits newer than this date")
	churnSummaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "Also write the summary to this file")
	rootCmd.AddCommand(churnSummaryCmd)
}

func validateSort(mode string) error {
	switch mode {
	case "", config.SortLines, config.SortCommits, config.SortInit:
		return nil
	}
	return errors.Newf(errors.InvalidArgument, "unknown sort %q; use lines, commits, or init", mode)
}

func runChurn(cmd *cobra.Command, args []string) error {
	start := time.Now()
	if err := validateSort(churnSort); err != nil {
		return err
	}
	if churnTop < 0 || churnBucket < 0 || churnMinLines < 0 {
		return errors.Newf(errors.InvalidArgument, "--top, --bucket and --min-lines must not be negative")
	}

	ctx := cmd.Context()
	eng, logger, err := setup(ctx)
	if err != nil {
		return err
	}

	res, err := eng.Churn(ctx, engine.ChurnOptions{
		Paths:    args,
		Since:    churnSince,
		Top:      churnTop,
		Bucket:   churnBucket,
		Sort:     churnSort,
		MinLines: churnMinLines,
		Filter:   history.Filter{Include: churnInclude, Exclude: churnExclude, Authors: churnAuthors},
		Export:   exportFlag,
	})
	if err != nil {
		return err
	}
	defer logDone(logger, "churn", start)
	return write(cmd.OutOrStdout(), report{
		mode:     "churn",
		value:    res,
		markdown: func() string { return render.Churn(*res) },
	})
}

func runChurnSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, _, err := setup(ctx)
	if err != nil {
		return err
	}
	summary, err := eng.ChurnSummary(ctx, engine.ChurnSummaryOptions{
		Since:  summarySince,
		Paths:  args,
		Output: summaryOutput,
	})
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), report{
		mode:  "churn-summary",
		value: summary,
		bare:  true,
		markdown: func() string {
			var buf bytes.Buffer
			if err := summary.Encode(&buf); err != nil {
				return "{}\n"
			}
			return buf.String()
		},
	})
}
