// Package detect holds the regex and convention heuristics that turn file
// paths and texts into orientation signals: entrypoints, dispatch tables,
// internal import edges, test evidence, runtime boundaries and risk
// hotspots. The detectors are approximate by nature; conventions that vary
// between repositories live in Policy and can be overridden from a TOML file.
package detect

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"rqs/internal/errors"
	"rqs/internal/paths"
)

// Policy is the set of path and naming conventions the detectors apply.
type Policy struct {
	// EntryNames are basenames that strongly suggest an entrypoint.
	EntryNames []string `toml:"entry_names"`
	// NameHint is matched against lowercased basenames.
	NameHint string `toml:"name_hint"`
	// RootScriptExts are extensions that count as top-level scripts.
	RootScriptExts []string `toml:"root_script_exts"`
	// CIPrefixes, BuildToolFiles and BuildDirs mark build orchestration.
	CIPrefixes     []string `toml:"ci_prefixes"`
	BuildToolFiles []string `toml:"build_tool_files"`
	BuildDirs      []string `toml:"build_dirs"`
	// NonRuntimePrefixes are documentation, test and example trees.
	NonRuntimePrefixes []string `toml:"non_runtime_prefixes"`
	// FixtureMarkers exclude test fixtures from every detector.
	FixtureMarkers []string `toml:"fixture_markers"`
	// ShellLibDirs are tried for `source $VAR/<file>` in shell dispatch.
	ShellLibDirs []string `toml:"shell_lib_dirs"`
	// CommandName is the CLI name whose invocations are counted in tests.
	CommandName string `toml:"command_name"`

	nameHint *regexp.Regexp
}

// DefaultPolicy returns the built-in conventions.
func DefaultPolicy() *Policy {
	p := &Policy{
		EntryNames: []string{
			"main.py", "main.go", "main.rs", "main.c", "main.cc", "main.cpp",
			"index.js", "app.py", "app.js",
			"cli.py", "cli.js", "manage.py", "server.py", "server.js",
		},
		NameHint:       `(main|cli|app|server)`,
		RootScriptExts: []string{".py", ".sh", ".js", ".ts", ".go", ".rb", ".rs"},
		CIPrefixes: []string{
			".github/", "contrib/", "ci/", ".circleci/", ".buildkite/",
			"scripts/ci", "scripts/release",
		},
		BuildToolFiles: []string{
			"makefile", "gnumakefile", "cmakelists.txt", "meson.build", "build.ninja",
			"package.json", "setup.py", "pyproject.toml",
		},
		BuildDirs: []string{"cmake/", "build/", "packaging/", "dist/"},
		NonRuntimePrefixes: []string{
			"runtime/scripts/", "doc/", "docs/", "test/", "tests/", "bench/", "benchmarks/",
			"examples/", "example/",
		},
		FixtureMarkers: []string{"tests/fixtures/"},
		ShellLibDirs:   []string{"lib"},
		CommandName:    "rqs",
	}
	_ = p.compile()
	return p
}

// LoadPolicy overlays the TOML file at path onto DefaultPolicy. A missing
// file yields the defaults.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}

	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, errors.New(errors.MalformedInput, "failed to parse heuristics policy", err, nil).
			WithDetails(map[string]interface{}{"path": path})
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ConfigInvalid,
			fmt.Sprintf("unknown heuristics keys: %s", strings.Join(keys, ", ")), nil, nil)
	}
	if err := p.compile(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid name_hint pattern", err, nil)
	}
	return p, nil
}

func (p *Policy) compile() error {
	re, err := regexp.Compile(p.NameHint)
	if err != nil {
		return err
	}
	p.nameHint = re
	return nil
}

func (p *Policy) hintRE() *regexp.Regexp {
	if p.nameHint == nil {
		if err := p.compile(); err != nil {
			p.nameHint = regexp.MustCompile(`(main|cli|app|server)`)
		}
	}
	return p.nameHint
}

// IsFixture reports whether rel lies in a test fixture tree.
func (p *Policy) IsFixture(rel string) bool {
	for _, m := range p.FixtureMarkers {
		if strings.Contains(rel, m) {
			return true
		}
	}
	return false
}

// IsBuildOrchestration reports whether rel is build or CI tooling.
func (p *Policy) IsBuildOrchestration(rel string) bool {
	lower := strings.ToLower(rel)
	if contains(p.BuildToolFiles, baseName(lower)) {
		return true
	}
	return paths.HasAnyPrefix(lower, p.CIPrefixes) || paths.HasAnyPrefix(lower, p.BuildDirs)
}

// IsNonRuntime reports whether rel lies under a docs/tests/examples tree.
func (p *Policy) IsNonRuntime(rel string) bool {
	return paths.HasAnyPrefix(strings.ToLower(rel), p.NonRuntimePrefixes)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
