package main

import (
	"time"

	"github.com/spf13/cobra"

	"rqs/internal/engine"
	"rqs/internal/render"
)

var (
	sigWithSpans bool
	sigBudget    int
	sigChurnData string
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures [scope]",
	Short: "Show function and type signatures per file",
	Long: `Show signature lines (kind: name(params) [Lstart-end]) for every
tracked file under scope.

With --budget N the map fits in N lines: the most important files get
full detail, the next ones a one-line catalog entry, and the rest are
counted as omitted.

Examples:
  rqs signatures src/
  rqs signatures --with-line-spans lib/parser.py
  rqs signatures --budget 200 --churn-data .rqs/churn.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSignatures,
}

func init() {
	signaturesCmd.Flags().BoolVar(&sigWithSpans, "with-line-spans", false, "Title the output as a symbol map with line spans")
	signaturesCmd.Flags().IntVar(&sigBudget, "budget", -1, "Line budget (default: budget.signatureLines, 0 = unlimited)")
	signaturesCmd.Flags().StringVar(&sigChurnData, "churn-data", "", "Churn summary file from 'rqs churn-summary'")
	rootCmd.AddCommand(signaturesCmd)
}

func runSignatures(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	eng, logger, err := setup(ctx)
	if err != nil {
		return err
	}

	budget := sigBudget
	if budget < 0 {
		budget = eng.Config().Budget.SignatureLines
	}
	opts := engine.SignaturesOptions{WithSpans: sigWithSpans, Budget: budget, ChurnData: sigChurnData}
	if len(args) == 1 {
		opts.Scope = args[0]
	}

	res, err := eng.Signatures(ctx, opts)
	if err != nil {
		return err
	}
	defer logDone(logger, "signatures", start)
	return write(cmd.OutOrStdout(), report{
		mode:     "signatures",
		value:    res,
		markdown: func() string { return render.Signatures(*res) },
	})
}
