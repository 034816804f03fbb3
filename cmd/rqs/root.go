package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rqs/internal/config"
	"rqs/internal/engine"
	"rqs/internal/errors"
	"rqs/internal/logging"
	"rqs/internal/version"
)

var (
	repoFlag    string
	formatFlag  string
	prettyFlag  bool
	verboseFlag int
	quietFlag   bool
	configFlag  string
	exportFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "rqs",
	Short: "rqs - repository query surface",
	Long: `rqs summarizes an unfamiliar repository into bounded, LLM-readable views:
directory trees, signature maps, symbol indexes, churn heatmaps with
co-change clusters, and an orientation primer.

Every report fits a line budget when one is given and degrades to
"no signal" when git or ctags cannot help.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("rqs version {{.Version}}\n")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&repoFlag, "repo", "", "Target repository (default: $RQS_TARGET_REPO or the current directory)")
	pf.StringVar(&formatFlag, "format", formatMarkdown, "Output format: markdown, json, or yaml")
	pf.BoolVar(&prettyFlag, "pretty", false, "Render markdown for a terminal")
	pf.CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVar(&quietFlag, "quiet", false, "Only log errors")
	pf.StringVar(&configFlag, "config", "", "Configuration file (default: <repo>/.rqs/config.json)")
	pf.StringVar(&exportFlag, "export", "", "Also write churn, continuity, and cluster results to this SQLite file")
}

// resolveRepo applies flag > RQS_TARGET_REPO > ".".
func resolveRepo() string {
	if repoFlag != "" {
		return repoFlag
	}
	if env := os.Getenv("RQS_TARGET_REPO"); env != "" {
		return env
	}
	return "."
}

// loadConfig reads the configuration and copies environment overrides in.
func loadConfig() (*config.Config, error) {
	repo := resolveRepo()

	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.LoadConfigFile(configFlag)
	} else {
		cfg, err = config.LoadConfig(repo)
	}
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to load configuration", err, errors.GetSuggestedFixes(errors.ConfigInvalid))
	}
	cfg.RepoRoot = repo

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid configuration", err, errors.GetSuggestedFixes(errors.ConfigInvalid))
	}
	return cfg, nil
}

// applyEnv copies RQS_BUDGET_TREE and RQS_BUDGET_SIGNATURES into cfg.
func applyEnv(cfg *config.Config, getenv func(string) string) error {
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"RQS_BUDGET_TREE", &cfg.Budget.TreeLines},
		{"RQS_BUDGET_SIGNATURES", &cfg.Budget.SignatureLines},
	} {
		raw := getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return errors.Newf(errors.InvalidArgument, "%s must be a non-negative integer, got %q", v.name, raw)
		}
		*v.dst = n
	}
	return nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := logging.LevelFromVerbosity(verboseFlag, quietFlag)
	if verboseFlag == 0 && !quietFlag && cfg != nil {
		if l, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
			level = l
		}
	}
	format := logging.HumanFormat
	if cfg != nil && cfg.Logging.Format == string(logging.JSONFormat) {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{Format: format, Level: level, Output: os.Stderr})
}

// setup loads configuration, builds the engine and checks the repository.
func setup(ctx context.Context) (*engine.Engine, *logging.Logger, error) {
	if err := validateFormat(formatFlag); err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := eng.CheckRepository(ctx); err != nil {
		return nil, nil, err
	}
	return eng, logger, nil
}

// logDone records how long a command took.
func logDone(logger *logging.Logger, command string, start time.Time) {
	logger.Debug("Command completed", map[string]interface{}{
		"command":  command,
		"duration": time.Since(start).Milliseconds(),
	})
}
