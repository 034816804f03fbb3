package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Budget.PerFileCap != 20 {
		t.Errorf("PerFileCap = %d, want 20", cfg.Budget.PerFileCap)
	}
	if cfg.Budget.FullFraction != 0.63 {
		t.Errorf("FullFraction = %v, want 0.63", cfg.Budget.FullFraction)
	}
	if cfg.Churn.MinCoupling != 0.30 || cfg.Churn.MinContinuity != 0.25 {
		t.Errorf("churn thresholds = %v/%v", cfg.Churn.MinCoupling, cfg.Churn.MinContinuity)
	}
	if cfg.Churn.MaxFilesPerCommit != 50 {
		t.Errorf("MaxFilesPerCommit = %d, want 50", cfg.Churn.MaxFilesPerCommit)
	}
	if cfg.Primer.ContinuityTargetBuckets != 40 {
		t.Errorf("ContinuityTargetBuckets = %d, want 40", cfg.Primer.ContinuityTargetBuckets)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(*Config) {}, "", false},
		{"bad version", func(c *Config) { c.Version = 7 }, "version", true},
		{"negative tree budget", func(c *Config) { c.Budget.TreeLines = -1 }, "budget.treeLines", true},
		{"zero full fraction", func(c *Config) { c.Budget.FullFraction = 0 }, "budget.fullFraction", true},
		{"coupling above one", func(c *Config) { c.Churn.MinCoupling = 1.5 }, "churn.minCoupling", true},
		{"coupling zero allowed", func(c *Config) { c.Churn.MinCoupling = 0 }, "", false},
		{"unknown sort", func(c *Config) { c.Churn.Sort = "size" }, "churn.sort", true},
		{"sort case insensitive", func(c *Config) { c.Churn.Sort = "Commits" }, "", false},
		{"unknown level", func(c *Config) { c.Primer.Level = "deep" }, "primer.level", true},
		{"zero git timeout", func(c *Config) { c.Timeouts.GitMs = 0 }, "timeouts", true},
		{"tiny mega-commit limit", func(c *Config) { c.Churn.MaxFilesPerCommit = 1 }, "churn.maxFilesPerCommit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				cerr, ok := err.(*ConfigError)
				if !ok {
					t.Fatalf("error type = %T, want *ConfigError", err)
				}
				if cerr.Field != tt.field {
					t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
				}
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RepoRoot != dir {
		t.Errorf("RepoRoot = %q, want %q", cfg.RepoRoot, dir)
	}
	if cfg.Budget.PerFileCap != 20 {
		t.Error("missing config should yield defaults")
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"version": 1, "churn": {"minCoupling": 0.5, "top": 5}, "budget": {"treeLines": 60}}`
	if err := os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Churn.MinCoupling != 0.5 || cfg.Churn.Top != 5 {
		t.Errorf("overrides not applied: %+v", cfg.Churn)
	}
	if cfg.Budget.TreeLines != 60 {
		t.Errorf("TreeLines = %d, want 60", cfg.Budget.TreeLines)
	}
	if cfg.Churn.MinContinuity != 0.25 {
		t.Errorf("untouched key lost its default: %v", cfg.Churn.MinContinuity)
	}
	if cfg.Budget.PerFileCap != 20 {
		t.Errorf("untouched key lost its default: %d", cfg.Budget.PerFileCap)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Primer.Level = LevelHeavy
	cfg.Workers = 3

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadConfigFile(filepath.Join(dir, DirName, "config.json"))
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if loaded.Primer.Level != LevelHeavy || loaded.Workers != 3 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestHeuristicsPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepoRoot = "/repo"
	if got := cfg.HeuristicsPath(); got != filepath.Join("/repo", ".rqs", "heuristics.toml") {
		t.Errorf("HeuristicsPath() = %q", got)
	}
	cfg.HeuristicsFile = "/etc/rqs.toml"
	if got := cfg.HeuristicsPath(); got != "/etc/rqs.toml" {
		t.Errorf("absolute path should pass through, got %q", got)
	}
}
