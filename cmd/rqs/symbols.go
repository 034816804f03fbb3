package main

import (
	"strings"

	"github.com/spf13/cobra"

	"rqs/internal/engine"
	"rqs/internal/render"
)

var symbolsKinds string

var symbolsCmd = &cobra.Command{
	Use:   "symbols [scope]",
	Short: "Index symbols by file",
	Long: `List every symbol under scope, grouped by file, with kind, line span
and signature.

Examples:
  rqs symbols
  rqs symbols src/ --kinds function,method`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, _, err := setup(ctx)
		if err != nil {
			return err
		}
		opts := engine.SymbolsOptions{}
		if len(args) == 1 {
			opts.Scope = args[0]
		}
		if symbolsKinds != "" {
			opts.Kinds = strings.Split(symbolsKinds, ",")
		}
		res, err := eng.Symbols(ctx, opts)
		if err != nil {
			return err
		}
		return write(cmd.OutOrStdout(), report{
			mode:     "symbols",
			value:    res,
			markdown: func() string { return render.Symbols(*res) },
		})
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show the symbol hierarchy of one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, _, err := setup(ctx)
		if err != nil {
			return err
		}
		res, err := eng.Outline(ctx, args[0])
		if err != nil {
			return err
		}
		return write(cmd.OutOrStdout(), report{
			mode:     "outline",
			value:    res,
			markdown: func() string { return render.Outline(*res) },
		})
	},
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsKinds, "kinds", "", "Comma-separated kinds to keep (e.g. function,class)")
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(outlineCmd)
}
