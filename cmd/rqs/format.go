package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"rqs/internal/errors"
	"rqs/internal/output"
	"rqs/internal/render"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatMarkdown, formatJSON, formatYAML:
		return nil
	}
	return errors.Newf(errors.InvalidArgument, "unknown format %q; use markdown, json, or yaml", f)
}

// report is one command's result in both shapes.
type report struct {
	mode     string
	value    interface{}
	markdown func() string
	// bare skips the <mode> wrapper.
	bare bool
}

// write prints r in the selected format.
func write(w io.Writer, r report) error {
	var (
		data []byte
		err  error
	)
	switch formatFlag {
	case formatJSON:
		data, err = output.DeterministicEncodeIndented(r.value, "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case formatYAML:
		data, err = output.EncodeYAML(r.value)
	default:
		body := r.markdown()
		if !r.bare {
			body = render.Wrap(r.mode, body)
		}
		if prettyFlag {
			body, err = pretty(body)
		}
		data = []byte(body)
	}
	if err != nil {
		return fmt.Errorf("failed to format %s output: %w", r.mode, err)
	}
	_, err = w.Write(data)
	return err
}

// pretty renders markdown for a terminal.
func pretty(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
