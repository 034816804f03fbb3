// Package engine is the single entry point over collection, scoring and
// rendering. Each operation gathers what it needs from git, ctags and the
// filesystem, degrades to "no signal" when a collaborator fails, and
// returns a report ready for the render package.
package engine

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"rqs/internal/backends/ctags"
	"rqs/internal/backends/git"
	"rqs/internal/config"
	"rqs/internal/detect"
	"rqs/internal/errors"
	"rqs/internal/history"
	"rqs/internal/logging"
	"rqs/internal/paths"
)

// Engine holds the collaborators for one repository.
type Engine struct {
	cfg    *config.Config
	logger *logging.Logger
	root   string

	git    *git.Adapter
	ctags  *ctags.Runner
	policy *detect.Policy
}

// New creates an engine for cfg.RepoRoot. The heuristics policy is loaded
// here so a malformed policy file fails before any work starts.
func New(cfg *config.Config, logger *logging.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	root, err := filepath.Abs(cfg.RepoRoot)
	if err != nil {
		return nil, errors.New(errors.InvalidArgument, "cannot resolve repository root", err, nil)
	}

	policy, err := detect.LoadPolicy(cfg.HeuristicsPath())
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		logger: logger,
		root:   root,
		git:    git.NewAdapter(root, millis(cfg.Timeouts.GitMs), logger),
		ctags:  ctags.NewRunner(root, millis(cfg.Timeouts.CtagsMs), logger),
		policy: policy,
	}, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Root is the absolute repository root.
func (e *Engine) Root() string {
	return e.root
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// CheckRepository fails when git is missing or the root is not a work tree.
func (e *Engine) CheckRepository(ctx context.Context) error {
	if !git.IsAvailable() {
		return errors.New(errors.ToolUnavailable, "git is not installed", nil, errors.GetSuggestedFixes(errors.ToolUnavailable))
	}
	if !e.git.IsRepository(ctx) {
		return errors.New(errors.NotARepository, e.root+" is not inside a git repository", nil, errors.GetSuggestedFixes(errors.NotARepository))
	}
	return nil
}

// trackedFiles lists tracked files under scope, or nil with a warning when
// git fails.
func (e *Engine) trackedFiles(ctx context.Context, scope string) []string {
	var spec []string
	if s := cleanScope(scope); s != "" {
		spec = []string{s}
	}
	files, err := e.git.TrackedFiles(ctx, spec...)
	if err != nil {
		e.logger.Warn("Listing tracked files failed", map[string]interface{}{
			"scope": scope,
			"error": err.Error(),
		})
		return nil
	}
	return files
}

// loadChurn reads a churn summary file. Failures are logged and yield nil.
func (e *Engine) loadChurn(path string) history.Summary {
	if path == "" {
		return nil
	}
	s, skipped, err := history.ReadSummaryFile(path)
	if err != nil {
		e.logger.Warn("Ignoring churn data", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	if len(skipped) > 0 {
		e.logger.Debug("Skipped malformed churn entries", map[string]interface{}{
			"path":    path,
			"skipped": skipped,
		})
	}
	return s
}

// cleanScope normalizes a repository-relative scope; "." and "" mean the
// whole repository.
func cleanScope(scope string) string {
	return paths.CleanRel(strings.TrimSpace(scope))
}

// resolveScope accepts a scope relative to the repository or an absolute
// path inside it.
func (e *Engine) resolveScope(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if filepath.IsAbs(raw) {
		if !paths.IsWithinRepo(raw, e.root) {
			return "", errors.Newf(errors.InvalidArgument, "path %q is outside the repository", raw)
		}
		rel, err := paths.CanonicalizePath(raw, e.root)
		if err != nil {
			return "", errors.Newf(errors.InvalidArgument, "cannot resolve %q: %v", raw, err)
		}
		raw = rel
	}
	scope := cleanScope(raw)
	if scope == ".." || strings.HasPrefix(scope, "../") {
		return "", errors.Newf(errors.InvalidArgument, "path %q is outside the repository", raw)
	}
	return scope, nil
}
