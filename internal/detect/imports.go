package detect

import (
	"regexp"
	"sort"
	"strings"

	"rqs/internal/paths"
)

// ImportExtractor finds internal dependencies of one file, resolved
// against the tracked file set.
type ImportExtractor interface {
	Imports(rel, text string, files FileSet) []string
}

var importExtractors = map[string]ImportExtractor{
	".py":   pythonImports{},
	".js":   jsImports{},
	".jsx":  jsImports{},
	".ts":   jsImports{},
	".tsx":  jsImports{},
	".sh":   shellImports{},
	".bash": shellImports{},
	".c":    cImports{},
	".cc":   cImports{},
	".cpp":  cImports{},
	".h":    cImports{},
	".hpp":  cImports{},
}

// Edges maps each file to the sorted set of tracked files it imports.
type Edges map[string][]string

// InternalEdges extracts import edges for every file that has text.
func InternalEdges(files []string, texts map[string]string, set FileSet) Edges {
	edges := make(Edges)
	for _, rel := range files {
		text := texts[rel]
		if text == "" {
			continue
		}
		ex, ok := importExtractors[paths.Ext(rel)]
		if !ok {
			continue
		}
		deps := ex.Imports(rel, text, set)
		if len(deps) > 0 {
			edges[rel] = deps
		}
	}
	return edges
}

// FanIn counts, per file, how many files import it.
func (e Edges) FanIn() map[string]int {
	in := make(map[string]int)
	for _, deps := range e {
		for _, d := range deps {
			in[d]++
		}
	}
	return in
}

type depSet map[string]bool

func (d depSet) add(dep string) {
	if dep != "" {
		d[dep] = true
	}
}

func (d depSet) sorted() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var (
	pyImportRE     = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([A-Za-z0-9_.,][A-Za-z0-9_., \t]*)`)
	pyFromImportRE = regexp.MustCompile(`(?m)^[ \t]*from[ \t]+([.A-Za-z0-9_]+)[ \t]+import\b`)
	jsFromRE       = regexp.MustCompile(`\bfrom\s+["']([@A-Za-z0-9_./-]+)["']`)
	jsRequireRE    = regexp.MustCompile(`\brequire\s*\(\s*["']([@A-Za-z0-9_./-]+)["']\s*\)`)
	shSourceRE     = regexp.MustCompile(`(?:^|\s)(?:source|\.)\s+([A-Za-z0-9_./'"-]+)`)
	cIncludeRE     = regexp.MustCompile(`(?m)^\s*#\s*include\s*[<"]([^">]+)[">]`)
)

type pythonImports struct{}

func (pythonImports) Imports(rel, text string, files FileSet) []string {
	deps := depSet{}
	for _, m := range pyImportRE.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			token, _, _ := strings.Cut(strings.TrimSpace(part), " as ")
			deps.add(resolvePython(rel, strings.TrimSpace(token), files))
		}
	}
	for _, m := range pyFromImportRE.FindAllStringSubmatch(text, -1) {
		deps.add(resolvePython(rel, m[1], files))
	}
	return deps.sorted()
}

// resolvePython maps a dotted module to module.py or module/__init__.py,
// relative to the importing file for leading-dot imports, otherwise at the
// root first and then beside the importing file.
func resolvePython(rel, dep string, files FileSet) string {
	if dep == "" {
		return ""
	}
	srcDir := paths.Dir(rel)
	if strings.HasPrefix(dep, ".") {
		mod := strings.TrimLeft(dep, ".")
		if mod == "" {
			if srcDir == "" {
				return ""
			}
			return files.firstTracked(srcDir + "/__init__.py")
		}
		modPath := strings.ReplaceAll(mod, ".", "/")
		return files.firstTracked(
			joinDir(srcDir, modPath+".py"),
			joinDir(srcDir, modPath+"/__init__.py"),
		)
	}
	modPath := strings.ReplaceAll(dep, ".", "/")
	candidates := []string{modPath + ".py", modPath + "/__init__.py"}
	if srcDir != "" {
		candidates = append(candidates, srcDir+"/"+modPath+".py", srcDir+"/"+modPath+"/__init__.py")
	}
	return files.firstTracked(candidates...)
}

type jsImports struct{}

func (jsImports) Imports(rel, text string, files FileSet) []string {
	deps := depSet{}
	for _, re := range []*regexp.Regexp{jsFromRE, jsRequireRE} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			deps.add(resolveJS(rel, m[1], files))
		}
	}
	return deps.sorted()
}

// resolveJS resolves relative specifiers only; bare package names are
// external by definition.
func resolveJS(rel, dep string, files FileSet) string {
	dep = strings.TrimSpace(dep)
	if !strings.HasPrefix(dep, ".") {
		return ""
	}
	base := normalize(joinDir(paths.Dir(rel), dep))
	if base == "" {
		return ""
	}
	candidates := []string{base}
	for _, suffix := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidates = append(candidates, base+suffix)
	}
	for _, index := range []string{"index.ts", "index.tsx", "index.js", "index.jsx"} {
		candidates = append(candidates, base+"/"+index)
	}
	return files.firstTracked(candidates...)
}

type shellImports struct{}

func (shellImports) Imports(rel, text string, files FileSet) []string {
	deps := depSet{}
	for _, m := range shSourceRE.FindAllStringSubmatch(text, -1) {
		dep := strings.Trim(strings.TrimSpace(m[1]), `'"`)
		if dep == "" || strings.ContainsAny(dep, "$`") {
			continue
		}
		deps.add(files.firstTracked(dep, joinDir(paths.Dir(rel), dep)))
	}
	return deps.sorted()
}

type cImports struct{}

func (cImports) Imports(rel, text string, files FileSet) []string {
	deps := depSet{}
	for _, m := range cIncludeRE.FindAllStringSubmatch(text, -1) {
		deps.add(resolveC(rel, m[1], files))
	}
	return deps.sorted()
}

// resolveC tries the include as written, beside the source, one level up,
// then under src/, include/ and lib/.
func resolveC(rel, dep string, files FileSet) string {
	dep = strings.Trim(strings.TrimSpace(dep), `'"<>`)
	if dep == "" || strings.HasPrefix(dep, "/") {
		return ""
	}
	srcDir := paths.Dir(rel)
	candidates := []string{dep}
	if srcDir != "" {
		candidates = append(candidates, srcDir+"/"+dep, paths.JoinRel(srcDir, "..", dep))
	}
	for _, root := range []string{"src", "include", "lib"} {
		candidates = append(candidates, root+"/"+dep)
	}
	if !strings.Contains(dep, "/") && (strings.HasSuffix(dep, ".h") || strings.HasSuffix(dep, ".hpp")) {
		if parent := paths.Dir(srcDir); parent != "" {
			candidates = append(candidates, parent+"/"+dep)
		}
	}
	return files.firstTracked(candidates...)
}
