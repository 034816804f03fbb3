// Package config holds the engine configuration. Every tunable the engine
// reads lives here; nothing below the CLI consults the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-repository configuration directory.
const DirName = ".rqs"

// Config is the complete rqs configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Budget   BudgetConfig   `json:"budget" mapstructure:"budget"`
	Churn    ChurnConfig    `json:"churn" mapstructure:"churn"`
	Primer   PrimerConfig   `json:"primer" mapstructure:"primer"`
	Timeouts TimeoutsConfig `json:"timeouts" mapstructure:"timeouts"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`

	// Workers bounds file and subprocess fan-out. 0 means runtime.NumCPU.
	Workers int `json:"workers" mapstructure:"workers"`
	// HeuristicsFile is the detector policy, relative to RepoRoot unless absolute.
	HeuristicsFile string `json:"heuristicsFile" mapstructure:"heuristicsFile"`
}

// BudgetConfig controls the budgeted tree and signature renderers.
type BudgetConfig struct {
	TreeLines        int     `json:"treeLines" mapstructure:"treeLines"`
	SignatureLines   int     `json:"signatureLines" mapstructure:"signatureLines"`
	PerFileCap       int     `json:"perFileCap" mapstructure:"perFileCap"`
	OverheadFraction float64 `json:"overheadFraction" mapstructure:"overheadFraction"`
	OverheadMin      int     `json:"overheadMin" mapstructure:"overheadMin"`
	FullFraction     float64 `json:"fullFraction" mapstructure:"fullFraction"`
	CatalogSymbols   int     `json:"catalogSymbols" mapstructure:"catalogSymbols"`
}

// ChurnConfig controls history bucketing, continuity and coupling.
type ChurnConfig struct {
	Top               int     `json:"top" mapstructure:"top"`
	Bucket            int     `json:"bucket" mapstructure:"bucket"` // 0 = auto
	Sort              string  `json:"sort" mapstructure:"sort"`
	MinLines          int     `json:"minLines" mapstructure:"minLines"`
	MinContinuity     float64 `json:"minContinuity" mapstructure:"minContinuity"`
	MinCoupling       float64 `json:"minCoupling" mapstructure:"minCoupling"`
	MinCoCommits      int     `json:"minCoCommits" mapstructure:"minCoCommits"`
	MaxFilesPerCommit int     `json:"maxFilesPerCommit" mapstructure:"maxFilesPerCommit"`
	MaxSustainedLines int     `json:"maxSustainedLines" mapstructure:"maxSustainedLines"`
	MaxClusterLines   int     `json:"maxClusterLines" mapstructure:"maxClusterLines"`
	ClusterEdgeCap    int     `json:"clusterEdgeCap" mapstructure:"clusterEdgeCap"`
	TopAuthors        int     `json:"topAuthors" mapstructure:"topAuthors"`
}

// PrimerConfig controls the orientation report.
type PrimerConfig struct {
	Level                   string `json:"level" mapstructure:"level"`
	MaxTextScanFiles        int    `json:"maxTextScanFiles" mapstructure:"maxTextScanFiles"`
	MaxScanBytes            int    `json:"maxScanBytes" mapstructure:"maxScanBytes"`
	ContinuityTargetBuckets int    `json:"continuityTargetBuckets" mapstructure:"continuityTargetBuckets"`
	CriticalTop             int    `json:"criticalTop" mapstructure:"criticalTop"`
	EntrypointTop           int    `json:"entrypointTop" mapstructure:"entrypointTop"`
	TextCacheEntries        int    `json:"textCacheEntries" mapstructure:"textCacheEntries"`
}

// TimeoutsConfig bounds external commands, in milliseconds.
type TimeoutsConfig struct {
	GitMs   int `json:"gitMs" mapstructure:"gitMs"`
	CtagsMs int `json:"ctagsMs" mapstructure:"ctagsMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Sort modes accepted by ChurnConfig.Sort.
const (
	SortLines   = "lines"
	SortCommits = "commits"
	SortInit    = "init"
)

// Primer levels accepted by PrimerConfig.Level.
const (
	LevelLight  = "light"
	LevelMedium = "medium"
	LevelHeavy  = "heavy"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Budget: BudgetConfig{
			TreeLines:        0,
			SignatureLines:   0,
			PerFileCap:       20,
			OverheadFraction: 0.05,
			OverheadMin:      5,
			FullFraction:     0.63,
			CatalogSymbols:   5,
		},
		Churn: ChurnConfig{
			Top:               20,
			Bucket:            0,
			Sort:              SortLines,
			MinContinuity:     0.25,
			MinCoupling:       0.30,
			MinCoCommits:      2,
			MaxFilesPerCommit: 50,
			MaxSustainedLines: 100,
			MaxClusterLines:   100,
			ClusterEdgeCap:    10,
			TopAuthors:        10,
		},
		Primer: PrimerConfig{
			Level:                   LevelMedium,
			MaxTextScanFiles:        2500,
			MaxScanBytes:            512000,
			ContinuityTargetBuckets: 40,
			CriticalTop:             12,
			EntrypointTop:           8,
			TextCacheEntries:        512,
		},
		Timeouts: TimeoutsConfig{
			GitMs:   30000,
			CtagsMs: 10000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
		HeuristicsFile: filepath.Join(DirName, "heuristics.toml"),
	}
}

// LoadConfig reads <repoRoot>/.rqs/config.json over the defaults.
// A missing file yields DefaultConfig with RepoRoot set.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, DirName))

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	cfg.RepoRoot = repoRoot
	return cfg, nil
}

// LoadConfigFile reads an explicit config file. The type follows the extension.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, err
	}

	// Keys absent from the file keep their defaults.
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to <repoRoot>/.rqs/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0o644)
}

// HeuristicsPath resolves HeuristicsFile against RepoRoot.
func (c *Config) HeuristicsPath() string {
	if c.HeuristicsFile == "" || filepath.IsAbs(c.HeuristicsFile) {
		return c.HeuristicsFile
	}
	return filepath.Join(c.RepoRoot, c.HeuristicsFile)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Budget.TreeLines < 0 {
		return &ConfigError{Field: "budget.treeLines", Message: "must not be negative"}
	}
	if c.Budget.SignatureLines < 0 {
		return &ConfigError{Field: "budget.signatureLines", Message: "must not be negative"}
	}
	if c.Budget.PerFileCap < 1 {
		return &ConfigError{Field: "budget.perFileCap", Message: "must be at least 1"}
	}
	if !inUnitInterval(c.Budget.OverheadFraction, false) {
		return &ConfigError{Field: "budget.overheadFraction", Message: "must be in (0,1]"}
	}
	if !inUnitInterval(c.Budget.FullFraction, false) {
		return &ConfigError{Field: "budget.fullFraction", Message: "must be in (0,1]"}
	}
	if c.Churn.Bucket < 0 {
		return &ConfigError{Field: "churn.bucket", Message: "must be positive, or 0 for auto"}
	}
	switch strings.ToLower(c.Churn.Sort) {
	case SortLines, SortCommits, SortInit:
	default:
		return &ConfigError{Field: "churn.sort", Message: fmt.Sprintf("unknown sort mode %q; use lines, commits, or init", c.Churn.Sort)}
	}
	if !inUnitInterval(c.Churn.MinContinuity, true) {
		return &ConfigError{Field: "churn.minContinuity", Message: "must be in [0,1]"}
	}
	if !inUnitInterval(c.Churn.MinCoupling, true) {
		return &ConfigError{Field: "churn.minCoupling", Message: "must be in [0,1]"}
	}
	if c.Churn.MaxFilesPerCommit < 2 {
		return &ConfigError{Field: "churn.maxFilesPerCommit", Message: "must be at least 2"}
	}
	switch c.Primer.Level {
	case LevelLight, LevelMedium, LevelHeavy:
	default:
		return &ConfigError{Field: "primer.level", Message: fmt.Sprintf("unknown level %q; use light, medium, or heavy", c.Primer.Level)}
	}
	if c.Timeouts.GitMs <= 0 || c.Timeouts.CtagsMs <= 0 {
		return &ConfigError{Field: "timeouts", Message: "must be positive"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

func inUnitInterval(f float64, allowZero bool) bool {
	if allowZero {
		return f >= 0 && f <= 1
	}
	return f > 0 && f <= 1
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
