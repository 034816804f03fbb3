package symbols

import (
	"reflect"
	"testing"
)

func TestTagFormatting(t *testing.T) {
	withEnd := Tag{Name: "render", Kind: "function", Line: 10, End: 42, Signature: "(args)"}
	if withEnd.SignatureLine() != "function: render(args) [L10-42]" {
		t.Errorf("SignatureLine = %q", withEnd.SignatureLine())
	}

	bare := Tag{Name: "CONFIG", Kind: "variable", Line: 3}
	if bare.HasEnd() {
		t.Error("zero End means absent")
	}
	if bare.Span() != "L3" || bare.Lines() != "3" {
		t.Errorf("Span = %q, Lines = %q", bare.Span(), bare.Lines())
	}
	if bare.QualifiedName() != "CONFIG" || bare.ScopeDepth() != 0 {
		t.Error("unscoped tag should have plain name and depth 0")
	}

	nested := Tag{Name: "run", Kind: "method", Line: 5, Scope: &Scope{Name: "pkg.Server", Kind: "class"}}
	if nested.QualifiedName() != "pkg.Server.run" {
		t.Errorf("QualifiedName = %q", nested.QualifiedName())
	}
	if nested.ScopeDepth() != 2 {
		t.Errorf("ScopeDepth = %d, want 2", nested.ScopeDepth())
	}
}

func TestFormatSignatureLines(t *testing.T) {
	tags := []Tag{
		{Name: "helper", Kind: "function", Line: 30, End: 35},
		{Name: "VERSION", Kind: "variable", Line: 1},
		{Name: "Server", Kind: "class", Line: 5, End: 28},
		{Name: "start", Kind: "method", Line: 8, End: 20, Signature: "(self)", Scope: &Scope{Name: "Server", Kind: "class"}},
	}

	got := FormatSignatureLines(tags)
	want := []string{
		"class: Server [L5-28]",
		"    method: start(self) [L8-20]",
		"function: helper [L30-35]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatSignatureLines =\n%q\nwant\n%q", got, want)
	}
	if FormatSignatureLines(nil) == nil {
		t.Error("empty input should yield an empty, non-nil slice")
	}
}

func TestFilterAndGroup(t *testing.T) {
	tags := []Tag{
		{Name: "b", Path: "z.py", Kind: "function", Line: 9},
		{Name: "a", Path: "z.py", Kind: "function", Line: 2},
		{Name: "C", Path: "a.py", Kind: "class", Line: 1},
		{Name: "x", Path: "a.py", Kind: "variable", Line: 4},
	}

	kept := FilterKinds(tags, []string{"function", " class"})
	if len(kept) != 3 {
		t.Fatalf("FilterKinds kept %d, want 3", len(kept))
	}
	if len(FilterKinds(tags, nil)) != 4 {
		t.Error("empty kind list keeps everything")
	}

	groups, paths := GroupByPath(kept)
	if !reflect.DeepEqual(paths, []string{"a.py", "z.py"}) {
		t.Errorf("paths = %v", paths)
	}
	if groups["z.py"][0].Name != "a" {
		t.Error("groups should be sorted by line")
	}
}

func TestLanguageLookups(t *testing.T) {
	if lang, ok := LanguageFromExtension(".PY"); !ok || lang != LangPython {
		t.Errorf("LanguageFromExtension(.PY) = %v, %v", lang, ok)
	}
	if _, ok := LanguageFromExtension(".sh"); ok {
		t.Error("shell has no grammar")
	}
	if FenceLanguage("bin/run.sh") != "bash" || FenceLanguage("Makefile") != "" {
		t.Error("FenceLanguage mismatch")
	}
}
