package detect

import (
	"regexp"
	"sort"
	"strings"

	"rqs/internal/paths"
)

// Entrypoint is a candidate runtime entry file with its heuristic score
// and the signals that produced it, in detection order.
type Entrypoint struct {
	Path    string   `json:"path"`
	Score   int      `json:"score"`
	Signals []string `json:"signals"`
}

// MinEntrypointScore is the lowest heuristic score kept as a candidate.
const MinEntrypointScore = 4

var (
	caseDispatchRE = regexp.MustCompile(`case\s+"?\$[A-Za-z_]`)
	cliParserRE    = regexp.MustCompile(`argparse|add_parser|subparsers|click\.command`)
	dunderMainRE   = regexp.MustCompile(`if __name__ == ["']__main__["']`)
	cMainRE        = regexp.MustCompile(`\bint\s+main\s*\(`)
)

// runtimeRouters are signals that exempt a file from location penalties.
var runtimeRouters = map[string]bool{
	"case-dispatch": true,
	"cli-parser":    true,
	"__main__":      true,
	"c-main":        true,
	"bin":           true,
	"manifest":      true,
}

// EntrypointInput is what FindEntrypoints reads.
type EntrypointInput struct {
	Files []string
	Texts map[string]string
	// Executable reports the execute bit; nil means never executable.
	Executable func(rel string) bool
	// Manifest holds files declared as entries by package manifests.
	Manifest map[string]string
}

// FindEntrypoints scores every tracked file and keeps those scoring at
// least MinEntrypointScore, ordered by (-score, path), at most limit.
func (p *Policy) FindEntrypoints(in EntrypointInput, limit int) []Entrypoint {
	var out []Entrypoint
	for _, rel := range in.Files {
		if p.IsFixture(rel) || p.IsBuildOrchestration(rel) {
			continue
		}
		ep := p.scoreEntrypoint(rel, in)
		if ep.Score >= MinEntrypointScore {
			out = append(out, ep)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (p *Policy) scoreEntrypoint(rel string, in EntrypointInput) Entrypoint {
	base := strings.ToLower(baseName(rel))
	ext := paths.Ext(rel)
	ep := Entrypoint{Path: rel}
	add := func(points int, signal string) {
		ep.Score += points
		ep.Signals = append(ep.Signals, signal)
	}

	if strings.HasPrefix(rel, "bin/") {
		add(5, "bin")
	}
	if in.Executable != nil && in.Executable(rel) {
		add(4, "executable")
	}
	if contains(p.EntryNames, base) {
		add(4, "entry-name")
	}
	if p.hintRE().MatchString(base) {
		add(2, "name-hint")
	}
	if !strings.Contains(rel, "/") && contains(p.RootScriptExts, ext) {
		add(1, "repo-root")
	}
	if _, ok := in.Manifest[rel]; ok {
		add(4, "manifest")
	}

	if text := in.Texts[rel]; text != "" {
		if caseDispatchRE.MatchString(text) {
			add(4, "case-dispatch")
		}
		if cliParserRE.MatchString(text) {
			add(3, "cli-parser")
		}
		if dunderMainRE.MatchString(text) {
			add(2, "__main__")
		}
		if (ext == ".c" || ext == ".cc" || ext == ".cpp") && cMainRE.MatchString(text) {
			add(5, "c-main")
		}
	}

	router := false
	for _, s := range ep.Signals {
		if runtimeRouters[s] {
			router = true
			break
		}
	}
	if !router {
		if p.IsNonRuntime(rel) {
			add(-4, "non-runtime-path")
		}
		if (ext == ".sh" || ext == ".bash") && !strings.HasPrefix(rel, "bin/") {
			add(-3, "non-entry-shell")
		}
	}
	return ep
}
