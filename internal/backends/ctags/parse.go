package ctags

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"rqs/internal/symbols"
)

// kindCodes maps single-letter classic ctags kinds to kind names.
var kindCodes = map[string]string{
	"c": "class",
	"f": "function",
	"m": "member",
	"v": "variable",
	"p": "prototype",
	"s": "struct",
	"u": "union",
	"e": "enumerator",
	"g": "enum",
	"t": "typedef",
}

// scopeKeys are the extension fields that name an enclosing scope.
var scopeKeys = map[string]bool{
	"class":     true,
	"struct":    true,
	"function":  true,
	"enum":      true,
	"interface": true,
	"namespace": true,
	"module":    true,
}

// jsonTag mirrors one Universal Ctags JSON record.
type jsonTag struct {
	Type      string `json:"_type"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Line      *int   `json:"line"`
	End       *int   `json:"end"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
	Scope     string `json:"scope"`
	ScopeKind string `json:"scopeKind"`
}

func (j jsonTag) tag() symbols.Tag {
	t := symbols.Tag{Name: j.Name, Path: j.Path, Kind: j.Kind, Signature: j.Signature}
	if j.Line != nil {
		t.Line = *j.Line
	}
	if j.End != nil {
		t.End = *j.End
	}
	if j.Scope != "" {
		t.Scope = &symbols.Scope{Name: j.Scope, Kind: j.ScopeKind}
	}
	return t
}

// Result is a parse outcome with the count of lines that were not tags.
type Result struct {
	Tags    []symbols.Tag
	Skipped int
}

// Parse reads JSON or classic ctags output, one record per line. Lines
// that are neither are counted in Skipped; pseudo-tags are ignored.
func Parse(r io.Reader) Result {
	var res Result
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if tag, ok := ParseLine(line); ok {
			res.Tags = append(res.Tags, tag)
		} else if !strings.HasPrefix(line, "!") && !strings.Contains(line, `"_type": "ptag"`) && !strings.Contains(line, `"_type":"ptag"`) {
			res.Skipped++
		}
	}
	return res
}

// ParseString is Parse over a string.
func ParseString(s string) Result {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single JSON or classic record.
func ParseLine(line string) (symbols.Tag, bool) {
	if strings.HasPrefix(line, "{") {
		var j jsonTag
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			if j.Type != "tag" {
				return symbols.Tag{}, false
			}
			return j.tag(), true
		}
	}
	return parseClassic(line)
}

// parseClassic parses "name<TAB>path<TAB>excmd;\"<TAB>kind<TAB>key:value...".
func parseClassic(line string) (symbols.Tag, bool) {
	if strings.HasPrefix(line, "!") {
		return symbols.Tag{}, false
	}
	parts := strings.Split(line, "\t")
	if len(parts) < 4 {
		return symbols.Tag{}, false
	}

	t := symbols.Tag{Name: parts[0], Path: parts[1]}
	code := parts[3]
	if name, ok := kindCodes[code]; ok {
		t.Kind = name
	} else {
		t.Kind = strings.TrimPrefix(code, "kind:")
	}

	for _, field := range parts[4:] {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		switch {
		case key == "line":
			if n, err := strconv.Atoi(value); err == nil {
				t.Line = n
			}
		case key == "end":
			if n, err := strconv.Atoi(value); err == nil {
				t.End = n
			}
		case key == "signature":
			t.Signature = value
		case scopeKeys[key]:
			t.Scope = &symbols.Scope{Name: value, Kind: key}
		}
	}
	return t, true
}
