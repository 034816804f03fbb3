package tree

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	branch     = "├─ "
	lastBranch = "└─ "
	pipeIndent = "│  "
	spaceInset = "   "
)

// Lines renders the whole tree with per-file line counts where known.
func Lines(root *Node, lineCounts map[string]int) []string {
	return renderLines(root, "", nil, lineCounts, false)
}

// BudgetedLines renders the tree following plan. Collapsed directories
// carry a file count and, when hasChurn is set, their hottest files.
func BudgetedLines(root *Node, plan *Plan, lineCounts map[string]int, hasChurn bool) []string {
	return renderLines(root, "", plan, lineCounts, hasChurn)
}

func renderLines(n *Node, prefix string, plan *Plan, lineCounts map[string]int, hasChurn bool) []string {
	var lines []string

	children := n.SortedChildren()
	hidden := 0
	if plan != nil {
		if partial, ok := plan.Partial[n.Path]; ok && n.Path != "" {
			kept := children[:0:0]
			for _, c := range children {
				if partial.Shown[c.Name] {
					kept = append(kept, c)
				}
			}
			children = kept
			hidden = partial.Remaining
		}
	}

	for i, c := range children {
		last := i == len(children)-1 && hidden == 0
		connector := branch
		if last {
			connector = lastBranch
		}

		switch {
		case c.IsDir() && (plan == nil || plan.expanded(c.Path)):
			lines = append(lines, prefix+connector+c.Name+"/")
			inset := pipeIndent
			if last {
				inset = spaceInset
			}
			lines = append(lines, renderLines(c, prefix+inset, plan, lineCounts, hasChurn)...)
		case c.IsDir():
			line := prefix + connector + c.Name + "/"
			if note := CollapsedAnnotation(c.Stats, hasChurn); note != "" {
				line += "  " + note
			}
			lines = append(lines, line)
		default:
			line := prefix + connector + c.Name
			if lc, ok := lineCounts[c.Path]; ok {
				line += " (" + strconv.Itoa(lc) + ")"
			}
			lines = append(lines, line)
		}
	}

	if hidden > 0 {
		lines = append(lines, fmt.Sprintf("%s%s... and %d more", prefix, lastBranch, hidden))
	}
	return lines
}

// CollapsedAnnotation is "(N files)" or "(N files; hot: K — a.py, b.py)".
func CollapsedAnnotation(st *DirStats, hasChurn bool) string {
	if st == nil {
		return ""
	}
	parts := []string{"1 file"}
	if st.FileCount != 1 {
		parts[0] = fmt.Sprintf("%d files", st.FileCount)
	}
	if hasChurn && st.HotCount > 0 {
		hot := fmt.Sprintf("hot: %d", st.HotCount)
		var names []string
		for i, hf := range st.HotFiles {
			if i == 2 {
				break
			}
			names = append(names, path.Base(hf.Path))
		}
		if len(names) > 0 {
			hot += " — " + strings.Join(names, ", ")
		}
		parts = append(parts, hot)
	}
	return "(" + strings.Join(parts, "; ") + ")"
}
