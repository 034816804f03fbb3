// Package tree builds a directory tree from tracked paths, aggregates
// per-directory statistics bottom-up and plans a budgeted expansion of it.
package tree

import (
	"sort"
	"strings"
)

// Node is a file or directory in the tree.
type Node struct {
	Name     string
	Path     string // repo-relative; "" for the root
	Dir      bool   // has children or was cut off by the depth limit
	Children map[string]*Node
	Stats    *DirStats // set on directories by ComputeStats
}

// Build creates a tree from repo-relative paths. A maxDepth > 0 cuts paths
// at that many segments; the cut leaf becomes a directory.
func Build(files []string, maxDepth int) *Node {
	root := &Node{Dir: true, Children: make(map[string]*Node)}
	for _, f := range files {
		f = strings.Trim(strings.TrimSpace(f), "/")
		if f == "" {
			continue
		}
		parts := strings.Split(f, "/")
		truncated := maxDepth > 0 && len(parts) > maxDepth
		if truncated {
			parts = parts[:maxDepth]
		}

		node := root
		for i, part := range parts {
			child, ok := node.Children[part]
			if !ok {
				child = &Node{Name: part, Path: joinPath(node.Path, part), Children: make(map[string]*Node)}
				node.Children[part] = child
			}
			if i < len(parts)-1 || truncated {
				child.Dir = true
			}
			node = child
		}
	}
	return root
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// IsDir reports whether n renders as a directory.
func (n *Node) IsDir() bool {
	return n.Dir || len(n.Children) > 0
}

// SortedChildren returns children ordered by name.
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the node at a repo-relative path, or nil.
func (n *Node) Find(p string) *Node {
	if p == "" {
		return n
	}
	node := n
	for _, part := range strings.Split(p, "/") {
		next, ok := node.Children[part]
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

// Files lists the file paths below n, sorted.
func (n *Node) Files() []string {
	var out []string
	var walk func(*Node)
	walk = func(x *Node) {
		for _, c := range x.SortedChildren() {
			if c.IsDir() {
				walk(c)
			} else {
				out = append(out, c.Path)
			}
		}
	}
	walk(n)
	return out
}
