package engine

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rqs/internal/errors"
	"rqs/internal/paths"
	"rqs/internal/symbols"
)

// tagsFor extracts tags per file, ctags first and tree-sitter when ctags
// is missing. Results are keyed by path; files without tags are absent.
func (e *Engine) tagsFor(ctx context.Context, files []string) map[string][]symbols.Tag {
	if len(files) == 0 {
		return nil
	}
	if e.ctags.IsAvailable() {
		tags, unavailable := e.ctagsTags(ctx, files)
		if !unavailable {
			return tags
		}
	}
	if !symbols.IsAvailable() {
		e.logger.Warn("No symbol source available; install universal-ctags", map[string]interface{}{
			"files": len(files),
		})
		return nil
	}
	e.logger.Debug("Extracting symbols with tree-sitter", map[string]interface{}{
		"files": len(files),
	})
	return e.treeSitterTags(ctx, files)
}

// ctagsTags runs one ctags process per file in a bounded group. The second
// result reports that ctags could not be executed at all.
func (e *Engine) ctagsTags(ctx context.Context, files []string) (map[string][]symbols.Tag, bool) {
	results := make([][]symbols.Tag, len(files))
	failed := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			tags, err := e.ctags.Tags(gctx, rel)
			if err != nil {
				if errors.HasCode(err, errors.ToolUnavailable) {
					return err
				}
				failed[i] = true
				return nil
			}
			results[i] = tags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("ctags unavailable", map[string]interface{}{"error": err.Error()})
		return nil, true
	}

	nFailed := 0
	out := make(map[string][]symbols.Tag, len(files))
	for i, rel := range files {
		if failed[i] {
			nFailed++
		}
		if len(results[i]) > 0 {
			out[rel] = withPath(results[i], rel)
		}
	}
	if nFailed > 0 {
		e.logger.Warn("ctags failed on some files", map[string]interface{}{
			"failed": nFailed,
			"files":  len(files),
		})
	}
	return out, false
}

func (e *Engine) treeSitterTags(ctx context.Context, files []string) map[string][]symbols.Tag {
	results := make([][]symbols.Tag, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, rel := range files {
		i, rel := i, rel
		if !symbols.Supports(rel) {
			continue
		}
		g.Go(func() error {
			src, err := os.ReadFile(paths.JoinRepoPath(e.root, rel))
			if err != nil {
				return nil
			}
			// parsers are not shareable across goroutines
			tags, err := symbols.NewExtractor().ExtractSource(gctx, rel, src)
			if err != nil {
				e.logger.Debug("tree-sitter parse failed", map[string]interface{}{
					"path":  rel,
					"error": err.Error(),
				})
				return nil
			}
			results[i] = tags
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]symbols.Tag, len(files))
	for i, rel := range files {
		if len(results[i]) > 0 {
			out[rel] = withPath(results[i], rel)
		}
	}
	return out
}

// withPath stamps the requested path on tags; ctags may echo it differently.
func withPath(tags []symbols.Tag, rel string) []symbols.Tag {
	for i := range tags {
		tags[i].Path = rel
	}
	return tags
}

func (e *Engine) workers() int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}
	return runtime.NumCPU()
}
