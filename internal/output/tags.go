package output

import "strings"

// Attr is one attribute of a wrapper tag. Order is preserved.
type Attr struct {
	Key   string
	Value string
}

var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")

// EscapeAttr escapes a value for use inside a double-quoted attribute.
func EscapeAttr(v string) string {
	return attrEscaper.Replace(v)
}

// OpenTag renders <name k="v" ...>.
func OpenTag(name string, attrs ...Attr) string {
	if len(attrs) == 0 {
		return "<" + name + ">"
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Key + `="` + EscapeAttr(a.Value) + `"`
	}
	return "<" + name + " " + strings.Join(parts, " ") + ">"
}

// CloseTag renders </name>.
func CloseTag(name string) string {
	return "</" + name + ">"
}
