package engine

import (
	"context"
	"sort"

	"rqs/internal/collect"
	"rqs/internal/render"
	"rqs/internal/sigmap"
	"rqs/internal/symbols"
)

// SignaturesOptions selects the signature map.
type SignaturesOptions struct {
	Scope     string
	WithSpans bool
	Budget    int // 0 = unbudgeted
	ChurnData string
}

// Signatures lists signature lines per file under opts.Scope, budgeted
// into detail and catalog tiers when opts.Budget is set.
func (e *Engine) Signatures(ctx context.Context, opts SignaturesOptions) (*render.SignaturesReport, error) {
	scope, err := e.resolveScope(opts.Scope)
	if err != nil {
		return nil, err
	}
	files := e.trackedFiles(ctx, scope)
	sort.Strings(files)
	tags := e.tagsFor(ctx, files)
	lineCounts := collect.CountLines(ctx, e.root, keys(tags), e.cfg.Workers)

	var sigFiles []sigmap.File
	for _, rel := range files {
		lines := symbols.FormatSignatureLines(tags[rel])
		if len(lines) == 0 {
			continue
		}
		sigFiles = append(sigFiles, sigmap.File{
			Path:     rel,
			Language: symbols.FenceLanguage(rel),
			LOC:      lineCounts[rel],
			Lines:    lines,
		})
	}

	report := &render.SignaturesReport{
		Scope:     opts.Scope,
		WithSpans: opts.WithSpans,
		Budget:    opts.Budget,
		Catalog:   e.cfg.Budget.CatalogSymbols,
	}
	if opts.Budget <= 0 {
		report.Files = sigFiles
		return report, nil
	}

	sopts := sigmap.DefaultOptions(opts.Budget)
	b := e.cfg.Budget
	if b.PerFileCap > 0 {
		sopts.PerFileCap = b.PerFileCap
	}
	if b.OverheadFraction > 0 {
		sopts.OverheadFraction = b.OverheadFraction
	}
	if b.OverheadMin > 0 {
		sopts.OverheadMin = b.OverheadMin
	}
	if b.FullFraction > 0 {
		sopts.FullFraction = b.FullFraction
	}
	report.Map = sigmap.Budgeted(sigFiles, e.loadChurn(opts.ChurnData), sopts)
	return report, nil
}

// SymbolsOptions selects the symbol index.
type SymbolsOptions struct {
	Scope string
	Kinds []string
}

// Symbols returns every tag under opts.Scope, optionally filtered by kind.
func (e *Engine) Symbols(ctx context.Context, opts SymbolsOptions) (*render.SymbolsReport, error) {
	scope, err := e.resolveScope(opts.Scope)
	if err != nil {
		return nil, err
	}
	files := e.trackedFiles(ctx, scope)
	sort.Strings(files)
	byPath := e.tagsFor(ctx, files)

	var all []symbols.Tag
	for _, rel := range files {
		all = append(all, byPath[rel]...)
	}
	return &render.SymbolsReport{Scope: opts.Scope, Tags: symbols.FilterKinds(all, opts.Kinds)}, nil
}

// Outline returns the tags of one file.
func (e *Engine) Outline(ctx context.Context, file string) (*render.OutlineReport, error) {
	rel, err := e.resolveScope(file)
	if err != nil {
		return nil, err
	}
	tags := e.tagsFor(ctx, []string{rel})
	return &render.OutlineReport{File: file, Tags: tags[rel]}, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
