// Package symbols models tag records from a symbol source and formats them
// as signature lines. When ctags is unavailable a tree-sitter extractor
// produces the same Tag values.
package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// Scope is the enclosing symbol of a tag, e.g. {Name: "Server", Kind: "class"}.
type Scope struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// Tag is one symbol record. End, Signature and Scope are optional: End is 0
// and Signature empty when the source did not report them, Scope is nil.
type Tag struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	End       int    `json:"end,omitempty"`
	Signature string `json:"signature,omitempty"`
	Scope     *Scope `json:"scope,omitempty"`
}

// HasEnd reports whether the tag carries an end line.
func (t Tag) HasEnd() bool {
	return t.End > 0
}

// QualifiedName prefixes the scope name when present.
func (t Tag) QualifiedName() string {
	if t.Scope != nil && t.Scope.Name != "" {
		return t.Scope.Name + "." + t.Name
	}
	return t.Name
}

// ScopeDepth is the nesting depth implied by a dotted scope name.
func (t Tag) ScopeDepth() int {
	if t.Scope == nil || t.Scope.Name == "" {
		return 0
	}
	return strings.Count(t.Scope.Name, ".") + 1
}

// Lines renders "10-20", or "10" without an end.
func (t Tag) Lines() string {
	if t.HasEnd() {
		return fmt.Sprintf("%d-%d", t.Line, t.End)
	}
	return fmt.Sprintf("%d", t.Line)
}

// Span renders "L10-20", or "L10" without an end.
func (t Tag) Span() string {
	return "L" + t.Lines()
}

// SignatureLine renders "kind: name(sig) [L10-20]".
func (t Tag) SignatureLine() string {
	return fmt.Sprintf("%s: %s%s [%s]", t.Kind, t.Name, t.Signature, t.Span())
}

// signatureKinds are the kinds worth showing in a signature map.
var signatureKinds = map[string]bool{
	"class":     true,
	"function":  true,
	"method":    true,
	"member":    true,
	"struct":    true,
	"interface": true,
	"type":      true,
	"enum":      true,
	"prototype": true,
	"module":    true,
}

// IsSignatureKind reports whether kind belongs in a signature map.
func IsSignatureKind(kind string) bool {
	return signatureKinds[kind]
}

// SortByLine orders tags by line, then name, in place.
func SortByLine(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Line != tags[j].Line {
			return tags[i].Line < tags[j].Line
		}
		return tags[i].Name < tags[j].Name
	})
}

// FormatSignatureLines keeps signature kinds, orders them by line and renders
// one line each. Scoped symbols are indented four spaces.
func FormatSignatureLines(tags []Tag) []string {
	kept := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if IsSignatureKind(t.Kind) {
			kept = append(kept, t)
		}
	}
	SortByLine(kept)

	lines := make([]string, 0, len(kept))
	for _, t := range kept {
		indent := ""
		if t.Scope != nil {
			indent = "    "
		}
		lines = append(lines, indent+t.SignatureLine())
	}
	return lines
}

// FilterKinds keeps tags whose kind is in kinds. An empty set keeps all.
func FilterKinds(tags []Tag, kinds []string) []Tag {
	if len(kinds) == 0 {
		return tags
	}
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[strings.TrimSpace(k)] = true
	}
	out := tags[:0:0]
	for _, t := range tags {
		if want[t.Kind] {
			out = append(out, t)
		}
	}
	return out
}

// GroupByPath groups tags per file and returns the sorted path list.
func GroupByPath(tags []Tag) (map[string][]Tag, []string) {
	groups := make(map[string][]Tag)
	for _, t := range tags {
		groups[t.Path] = append(groups[t.Path], t)
	}
	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
		SortByLine(groups[p])
	}
	sort.Strings(paths)
	return groups, paths
}
