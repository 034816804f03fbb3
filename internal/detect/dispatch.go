package detect

import (
	"regexp"
	"sort"
	"strings"

	"rqs/internal/paths"
)

// DispatchEntry maps a CLI command to the file that routes it and, when
// resolvable, the file and handler that implement it.
type DispatchEntry struct {
	Command    string `json:"command"`
	EntryFile  string `json:"entryFile"`
	SourceFile string `json:"sourceFile,omitempty"`
	Handler    string `json:"handler,omitempty"`
}

// DispatchParser extracts command routing from one entry file's text.
type DispatchParser interface {
	ParseDispatch(entry, text string, files FileSet) []DispatchEntry
}

// dispatchParsers is keyed by lowercased extension; "" covers
// extensionless scripts.
func (p *Policy) dispatchParsers() map[string]DispatchParser {
	sh := shellDispatch{libDirs: p.ShellLibDirs}
	return map[string]DispatchParser{
		".sh":   sh,
		".bash": sh,
		"":      sh,
		".py":   pythonDispatch{},
	}
}

// ParseDispatch runs the parser for each entrypoint's language, removes
// duplicates and orders the result by (entry file, command).
func (p *Policy) ParseDispatch(entrypoints []Entrypoint, texts map[string]string, files FileSet) []DispatchEntry {
	parsers := p.dispatchParsers()
	seen := make(map[DispatchEntry]bool)
	var out []DispatchEntry
	for _, ep := range entrypoints {
		text := texts[ep.Path]
		if text == "" {
			continue
		}
		parser, ok := parsers[paths.Ext(ep.Path)]
		if !ok {
			continue
		}
		for _, e := range parser.ParseDispatch(ep.Path, text, files) {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryFile != out[j].EntryFile {
			return out[i].EntryFile < out[j].EntryFile
		}
		return out[i].Command < out[j].Command
	})
	return out
}

var (
	caseLabelRE    = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+)\)\s*$`)
	sourceLineRE   = regexp.MustCompile(`^\s*source\s+(.+)$`)
	shellHandlerRE = regexp.MustCompile(`\b(cmd_[A-Za-z0-9_]+)\b`)
	pythonParserRE = regexp.MustCompile(`add_parser\(\s*["']([A-Za-z0-9_.-]+)["']`)
)

type shellDispatch struct {
	libDirs []string
}

// ParseDispatch walks `case "$x" in ... esac` blocks. Each `label)` arm
// records the first `source` target and first `cmd_*` handler seen before
// its terminating `;;`.
func (s shellDispatch) ParseDispatch(entry, text string, files FileSet) []DispatchEntry {
	var (
		out     []DispatchEntry
		inCase  bool
		current DispatchEntry
	)
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "case ") && strings.Contains(line, "$") {
			inCase = true
			current = DispatchEntry{}
			continue
		}
		if inCase && strings.HasPrefix(line, "esac") {
			inCase = false
			current = DispatchEntry{}
			continue
		}
		if !inCase {
			continue
		}

		if m := caseLabelRE.FindStringSubmatch(line); m != nil {
			current = DispatchEntry{Command: m[1], EntryFile: entry}
			continue
		}
		if current.Command == "" {
			continue
		}

		if m := sourceLineRE.FindStringSubmatch(raw); m != nil && current.SourceFile == "" {
			token, _, _ := strings.Cut(m[1], "#")
			current.SourceFile = s.resolveSource(strings.TrimSpace(token), entry, files)
		}
		if m := shellHandlerRE.FindStringSubmatch(raw); m != nil && current.Handler == "" {
			current.Handler = m[1]
		}
		if strings.HasPrefix(line, ";;") {
			out = append(out, current)
			current = DispatchEntry{}
		}
	}
	return out
}

// resolveSource maps a `source` argument to a tracked file. Unresolvable
// literal tokens are kept verbatim; dynamic ones resolve to "".
func (s shellDispatch) resolveSource(token, entry string, files FileSet) string {
	token = strings.Trim(strings.TrimSpace(token), `'"`)
	if token == "" || strings.ContainsAny(token, "$`") {
		return tailCandidate(token, s.libDirs, files)
	}
	if files.Has(token) {
		return token
	}
	if strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../") {
		if c := files.firstTracked(joinDir(paths.Dir(entry), token)); c != "" {
			return c
		}
	}
	if c := tailCandidate(token, s.libDirs, files); c != "" {
		return c
	}
	return token
}

// tailCandidate resolves "$LIB_DIR/x.sh"-style tokens to "<libdir>/x.sh".
func tailCandidate(token string, libDirs []string, files FileSet) string {
	i := strings.LastIndex(token, "/")
	if i < 0 || i == len(token)-1 {
		return ""
	}
	tail := token[i+1:]
	for _, dir := range libDirs {
		if c := joinDir(strings.TrimSuffix(dir, "/"), tail); files.Has(c) {
			return c
		}
	}
	return ""
}

type pythonDispatch struct{}

// ParseDispatch records each argparse `add_parser("name")` call.
func (pythonDispatch) ParseDispatch(entry, text string, _ FileSet) []DispatchEntry {
	var out []DispatchEntry
	for _, m := range pythonParserRE.FindAllStringSubmatch(text, -1) {
		out = append(out, DispatchEntry{Command: m[1], EntryFile: entry})
	}
	return out
}
