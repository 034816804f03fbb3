package render

import (
	"strconv"

	"rqs/internal/output"
)

// TreeReport is a rendered-ready directory tree.
type TreeReport struct {
	Root       string         `json:"root"`
	Depth      int            `json:"depth,omitempty"` // 0 = full depth
	Files      int            `json:"files"`
	Budget     int            `json:"budget,omitempty"`
	HasChurn   bool           `json:"churnInformed,omitempty"`
	Lines      []string       `json:"lines"`
	LineCounts map[string]int `json:"-"`
}

// TreeFrameLines is what Tree adds around a budgeted tree: the title, two
// notes, the fences and the root label.
const TreeFrameLines = 6

// Tree renders a tree report.
func Tree(r TreeReport) string {
	var d doc
	if r.Files == 0 {
		d.line("*(empty)*")
		return d.String()
	}

	label := RootLabel(r.Root)
	d.line("## Tree: " + output.Code(label))

	depth := "full depth"
	if r.Depth > 0 {
		depth = "depth: " + strconv.Itoa(r.Depth)
	}
	if r.Budget > 0 {
		churn := ""
		if r.HasChurn {
			churn = ", churn-informed"
		}
		d.linef("> Budgeted directory structure (%s, %d files, budget: %d lines%s).", depth, r.Files, r.Budget, churn)
		d.line("> Collapsed dirs show (file count). Request `rqs tree <path> --depth N` to explore.")
	} else {
		d.linef("> Filtered directory structure from git-tracked files (%s, %d files). Request `rqs tree <path> --depth N` to explore subdirectories.", depth, r.Files)
	}
	d.line("```")
	d.line(label + "/")
	d.lines(r.Lines)
	d.line("```")
	return d.String()
}

// RootLabel is "." for the repository root, else the scope without a
// trailing slash.
func RootLabel(root string) string {
	for len(root) > 1 && root[len(root)-1] == '/' {
		root = root[:len(root)-1]
	}
	if root == "" {
		return "."
	}
	return root
}
