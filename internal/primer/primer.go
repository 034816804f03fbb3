// Package primer assembles the orientation report: where execution
// starts, how commands dispatch, which files carry the most structural
// weight, and what the tests pin down.
package primer

import (
	"context"
	"os"
	"path/filepath"

	"rqs/internal/collect"
	"rqs/internal/config"
	"rqs/internal/detect"
	"rqs/internal/history"
	"rqs/internal/logging"
	"rqs/internal/scoring"
)

// Input is the collected repository state.
type Input struct {
	Root  string
	Files []string
	// Touches lists each commit's tracked paths, oldest first. Empty when
	// history is unavailable.
	Touches [][]string
}

// Report is the assembled orientation. Sections a level leaves out are nil.
type Report struct {
	Level       string                     `json:"level"`
	Entrypoints []scoring.RankedEntrypoint `json:"entrypoints"`
	Dispatch    []detect.DispatchEntry     `json:"dispatch"`
	Critical    []scoring.CriticalFile     `json:"critical,omitempty"`
	Boundaries  []detect.Boundary          `json:"boundaries"`
	Tests       *detect.TestSummary        `json:"tests,omitempty"`
	Hotspots    []detect.Hotspot           `json:"hotspots,omitempty"`
}

// ShowsCritical reports whether the level includes the critical path.
func (r *Report) ShowsCritical() bool {
	return r.Level == config.LevelMedium || r.Level == config.LevelHeavy
}

// ShowsContract reports whether the level includes the test contract.
func (r *Report) ShowsContract() bool {
	return r.ShowsCritical()
}

// ShowsHotspots reports whether the level includes risk hotspots.
func (r *Report) ShowsHotspots() bool {
	return r.Level == config.LevelHeavy
}

// Builder runs detection and scoring over an Input.
type Builder struct {
	cfg    config.PrimerConfig
	policy *detect.Policy
	logger *logging.Logger
	// Workers bounds file reads; 0 means NumCPU.
	Workers int
}

// NewBuilder creates a builder. A nil policy uses detect.DefaultPolicy.
func NewBuilder(cfg config.PrimerConfig, policy *detect.Policy, logger *logging.Logger) *Builder {
	if policy == nil {
		policy = detect.DefaultPolicy()
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if cfg.Level == "" {
		cfg.Level = config.LevelMedium
	}
	return &Builder{cfg: cfg, policy: policy, logger: logger}
}

// Build assembles the report. Unreadable files contribute no signal.
func (b *Builder) Build(ctx context.Context, in Input) (*Report, error) {
	report := &Report{Level: b.cfg.Level}
	if len(in.Files) == 0 {
		return report, nil
	}

	cache, err := collect.NewTextCache(in.Root, b.cfg.MaxScanBytes, b.cfg.TextCacheEntries)
	if err != nil {
		return nil, err
	}
	set := detect.NewFileSet(in.Files)

	scanned := collect.SelectForScan(in.Files, b.cfg.MaxTextScanFiles)
	texts := cache.ReadAll(ctx, scanned, b.Workers)
	lineCounts := collect.CountLines(ctx, in.Root, in.Files, b.Workers)

	manifest := detect.ManifestEntrypoints(set, func(rel string) ([]byte, error) {
		return os.ReadFile(filepath.Join(in.Root, filepath.FromSlash(rel)))
	})
	entrypoints := b.policy.FindEntrypoints(detect.EntrypointInput{
		Files:      in.Files,
		Texts:      texts,
		Executable: func(rel string) bool { return collect.IsExecutable(in.Root, rel) },
		Manifest:   manifest,
	}, 0)
	report.Dispatch = b.policy.ParseDispatch(entrypoints, texts, set)

	testFiles := detect.FindTestFiles(in.Files)
	testTexts := cache.ReadAll(ctx, testFiles, b.Workers)
	commandHits := b.policy.CommandHits(testTexts)

	edges := detect.InternalEdges(in.Files, texts, set)
	continuity := history.TouchContinuity(in.Touches, b.cfg.ContinuityTargetBuckets)

	critical := scoring.RankCritical(criticalInput(in.Files, lineCounts, entrypoints, report.Dispatch,
		texts, testTexts, commandHits, edges, b.policy), b.cfg.CriticalTop)

	b.logger.Debug("Primer signals collected", map[string]interface{}{
		"files":       len(in.Files),
		"scanned":     len(texts),
		"entrypoints": len(entrypoints),
		"dispatch":    len(report.Dispatch),
		"tests":       len(testFiles),
		"commits":     len(in.Touches),
	})

	// light orientation ranks entries without structural terms
	rankWith := critical
	if !report.ShowsCritical() {
		rankWith = nil
	} else {
		report.Critical = critical
	}
	report.Entrypoints = scoring.RerankEntrypoints(candidates(entrypoints), rankWith, continuity, b.policy, b.cfg.EntrypointTop)
	report.Boundaries = detect.FindBoundaries(texts)

	if report.ShowsContract() {
		summary := b.policy.SummarizeTests(testFiles, testTexts)
		report.Tests = &summary
	}
	if report.ShowsHotspots() {
		report.Hotspots = b.policy.FindHotspots(texts)
	}
	return report, nil
}

func candidates(eps []detect.Entrypoint) []scoring.Candidate {
	out := make([]scoring.Candidate, len(eps))
	for i, ep := range eps {
		out[i] = scoring.Candidate{Path: ep.Path, Score: ep.Score, Signals: ep.Signals}
	}
	return out
}
