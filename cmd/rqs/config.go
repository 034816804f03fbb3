package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rqs/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect rqs configuration",
	Long:  "Inspect the configuration stored in .rqs/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file and
environment overrides are applied.

Examples:
  rqs config show
  rqs config show --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(formatFlag); err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return write(cmd.OutOrStdout(), report{
			mode:  "config",
			value: cfg,
			markdown: func() string {
				data, err := output.DeterministicEncodeIndented(cfg, "  ")
				if err != nil {
					return err.Error() + "\n"
				}
				return "```json\n" + string(data) + "\n```\n"
			},
		})
	},
}

// envVars are the environment overrides the CLI understands.
var envVars = []struct{ name, desc string }{
	{"RQS_TARGET_REPO", "Repository root when --repo is not given"},
	{"RQS_BUDGET_TREE", "Default line budget for 'rqs tree'"},
	{"RQS_BUDGET_SIGNATURES", "Default line budget for 'rqs signatures'"},
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, v := range envVars {
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", v.name, v.desc)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}
