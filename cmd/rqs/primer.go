package main

import (
	"time"

	"github.com/spf13/cobra"

	"rqs/internal/config"
	"rqs/internal/engine"
	"rqs/internal/errors"
	"rqs/internal/render"
)

var primerLevel string

var primerCmd = &cobra.Command{
	Use:   "primer",
	Short: "Orient in an unfamiliar repository",
	Long: `Report likely entrypoints, the command dispatch surface, the files
that carry the most structural weight, runtime guardrails, what the
tests validate, and heuristic risk hotspots.

Levels:
  light   entrypoints, dispatch, runtime boundaries
  medium  adds the critical path and the behavioral contract (default)
  heavy   adds risk hotspots`,
	Args: cobra.NoArgs,
	RunE: runPrimer,
}

func init() {
	primerCmd.Flags().StringVar(&primerLevel, "level", "", "light, medium, or heavy (default: primer.level)")
	rootCmd.AddCommand(primerCmd)
}

func runPrimer(cmd *cobra.Command, args []string) error {
	start := time.Now()
	switch primerLevel {
	case "", config.LevelLight, config.LevelMedium, config.LevelHeavy:
	default:
		return errors.Newf(errors.InvalidArgument, "unknown level %q; use light, medium, or heavy", primerLevel)
	}

	ctx := cmd.Context()
	eng, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	res, err := eng.Primer(ctx, engine.PrimerOptions{Level: primerLevel, Export: exportFlag})
	if err != nil {
		return err
	}
	defer logDone(logger, "primer", start)
	return write(cmd.OutOrStdout(), report{
		mode:     "primer",
		value:    res,
		markdown: func() string { return render.Primer(res) },
	})
}
