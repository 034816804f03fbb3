//go:build cgo

package symbols

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Extractor produces tags from source with tree-sitter. It is not safe for
// concurrent use; create one per goroutine.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{parser: sitter.NewParser()}
}

// IsAvailable reports whether tree-sitter extraction is compiled in.
func IsAvailable() bool {
	return true
}

// Supports reports whether a grammar exists for the file.
func Supports(p string) bool {
	_, ok := LanguageFromExtension(path.Ext(p))
	return ok
}

// ExtractSource parses source and returns its tags in document order.
// Unsupported languages yield no tags and no error.
func (e *Extractor) ExtractSource(ctx context.Context, relPath string, source []byte) ([]Tag, error) {
	lang, ok := LanguageFromExtension(path.Ext(relPath))
	if !ok {
		return nil, nil
	}
	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}

	e.parser.SetLanguage(grammar)
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}
	defer tree.Close()

	w := walker{lang: lang, path: relPath, src: source}
	w.visit(tree.RootNode(), nil)
	SortByLine(w.tags)
	return w.tags, nil
}

func grammarFor(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangGo:
		return golang.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	case LangRust:
		return rust.GetLanguage(), nil
	case LangJava:
		return java.GetLanguage(), nil
	case LangKotlin:
		return kotlin.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// containerKinds maps node types that open a scope to the tag kind they
// produce. An empty kind opens a scope without emitting a tag (Rust impl).
var containerKinds = map[Language]map[string]string{
	LangJavaScript: {"class_declaration": "class"},
	LangTypeScript: {"class_declaration": "class", "interface_declaration": "interface", "enum_declaration": "enum"},
	LangTSX:        {"class_declaration": "class", "interface_declaration": "interface", "enum_declaration": "enum"},
	LangPython:     {"class_definition": "class"},
	LangRust:       {"struct_item": "struct", "enum_item": "enum", "trait_item": "interface", "impl_item": ""},
	LangJava:       {"class_declaration": "class", "interface_declaration": "interface", "enum_declaration": "enum"},
	LangKotlin:     {"class_declaration": "class", "object_declaration": "class"},
}

var functionNodes = map[Language]map[string]bool{
	LangGo:         {"function_declaration": true, "method_declaration": true},
	LangJavaScript: {"function_declaration": true, "generator_function_declaration": true, "method_definition": true},
	LangTypeScript: {"function_declaration": true, "generator_function_declaration": true, "method_definition": true},
	LangTSX:        {"function_declaration": true, "generator_function_declaration": true, "method_definition": true},
	LangPython:     {"function_definition": true},
	LangRust:       {"function_item": true},
	LangJava:       {"method_declaration": true, "constructor_declaration": true},
	LangKotlin:     {"function_declaration": true},
}

type walker struct {
	lang Language
	path string
	src  []byte
	tags []Tag
}

func (w *walker) visit(node *sitter.Node, scope *Scope) {
	if node == nil {
		return
	}
	typ := node.Type()

	switch {
	case w.lang == LangGo && typ == "type_spec":
		if name := w.text(node.ChildByFieldName("name")); name != "" {
			w.emit(node, name, goTypeKind(node), "", nil)
		}
		return

	case functionNodes[w.lang][typ]:
		name := w.functionName(node)
		if name == "" {
			break
		}
		kind, owner := "function", scope
		if w.lang == LangGo && typ == "method_declaration" {
			owner = &Scope{Name: w.receiverType(node), Kind: "struct"}
		}
		if owner != nil {
			kind = "method"
		}
		w.emit(node, name, kind, w.parameters(node), owner)
		// Nested definitions are attributed to the enclosing function's scope.
		w.visitChildren(node, scope)
		return
	}

	if kind, ok := containerKinds[w.lang][typ]; ok {
		name := w.containerName(node)
		if name == "" {
			w.visitChildren(node, scope)
			return
		}
		if kind != "" {
			w.emit(node, name, kind, "", scope)
		}
		inner := &Scope{Name: name, Kind: kind}
		if kind == "" {
			inner.Kind = "struct"
		}
		if scope != nil && kind != "" {
			inner.Name = scope.Name + "." + name
		}
		w.visitChildren(node, inner)
		return
	}

	w.visitChildren(node, scope)
}

func (w *walker) visitChildren(node *sitter.Node, scope *Scope) {
	for i := 0; i < int(node.ChildCount()); i++ {
		w.visit(node.Child(i), scope)
	}
}

func (w *walker) emit(node *sitter.Node, name, kind, sig string, scope *Scope) {
	w.tags = append(w.tags, Tag{
		Name:      name,
		Path:      w.path,
		Kind:      kind,
		Line:      int(node.StartPoint().Row) + 1,
		End:       int(node.EndPoint().Row) + 1,
		Signature: sig,
		Scope:     scope,
	})
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) functionName(node *sitter.Node) string {
	if w.lang == LangKotlin {
		return w.text(firstChildOfType(node, "simple_identifier"))
	}
	return w.text(node.ChildByFieldName("name"))
}

func (w *walker) containerName(node *sitter.Node) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return w.text(n)
	}
	if node.Type() == "impl_item" {
		return w.text(node.ChildByFieldName("type"))
	}
	for _, t := range []string{"type_identifier", "simple_identifier", "identifier"} {
		if n := firstChildOfType(node, t); n != nil {
			return w.text(n)
		}
	}
	return ""
}

// parameters returns the parameter list with whitespace collapsed.
func (w *walker) parameters(node *sitter.Node) string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = firstChildOfType(node, "function_value_parameters")
	}
	if params == nil {
		return ""
	}
	return strings.Join(strings.Fields(w.text(params)), " ")
}

func (w *walker) receiverType(node *sitter.Node) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	if id := findFirst(recv, "type_identifier"); id != nil {
		return w.text(id)
	}
	return ""
}

func goTypeKind(spec *sitter.Node) string {
	t := spec.ChildByFieldName("type")
	if t == nil {
		return "type"
	}
	switch t.Type() {
	case "struct_type":
		return "struct"
	case "interface_type":
		return "interface"
	}
	return "type"
}

func firstChildOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

func findFirst(node *sitter.Node, typ string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == typ {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if n := findFirst(node.Child(i), typ); n != nil {
			return n
		}
	}
	return nil
}
