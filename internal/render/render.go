// Package render formats engine results as markdown. Every function is a
// pure transformation of its input; nothing here touches the filesystem or
// runs commands.
package render

import (
	"fmt"
	"strings"

	"rqs/internal/output"
)

// doc accumulates output lines.
type doc struct {
	b strings.Builder
}

func (d *doc) line(s string) {
	d.b.WriteString(s)
	d.b.WriteByte('\n')
}

func (d *doc) linef(format string, args ...interface{}) {
	d.line(fmt.Sprintf(format, args...))
}

func (d *doc) lines(ls []string) {
	for _, l := range ls {
		d.line(l)
	}
}

func (d *doc) blank() {
	d.b.WriteByte('\n')
}

func (d *doc) String() string {
	return d.b.String()
}

// Wrap encloses a report body in <mode> ... </mode> tags.
func Wrap(mode, body string) string {
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return output.OpenTag(mode) + "\n" + body + output.CloseTag(mode) + "\n"
}

func openFile(path string, attrs ...output.Attr) string {
	return output.OpenTag("file", append([]output.Attr{{Key: "path", Value: path}}, attrs...)...)
}

func titled(base, scope string) string {
	if scope == "" {
		return base
	}
	return base + ": " + output.Code(scope)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
