package tree

import (
	"container/heap"
	"sort"
)

// Partial records a directory shown with only some of its children.
type Partial struct {
	Shown     map[string]bool // child names kept
	Remaining int             // children summarized as "... and N more"
}

// Plan is the outcome of budgeted expansion. Directories absent from both
// maps render collapsed.
type Plan struct {
	Budget   int
	Cost     int // visible lines below the root label
	Expanded map[string]bool
	Partial  map[string]*Partial
}

func (p *Plan) expanded(path string) bool {
	return p != nil && p.Expanded[path]
}

type queued struct {
	path       string
	importance float64
}

// dirQueue pops the highest importance first, ties by path.
type dirQueue []queued

func (q dirQueue) Len() int { return len(q) }
func (q dirQueue) Less(i, j int) bool {
	if q[i].importance != q[j].importance {
		return q[i].importance > q[j].importance
	}
	return q[i].path < q[j].path
}
func (q dirQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *dirQueue) Push(x any)   { *q = append(*q, x.(queued)) }
func (q *dirQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// PlanBudget greedily expands the most important directories until the
// visible line count reaches budget. root must carry stats from
// ComputeStats.
//
// Expanding a directory keeps its own line and adds one per child. A
// directory that overflows is deferred while the queue still has
// directories to try. Once the queue is drained, the most important
// deferred directory is partially expanded into the remaining lines, and
// that ends the pass.
func PlanBudget(root *Node, budget int, lineCounts map[string]int) *Plan {
	plan := &Plan{
		Budget:   budget,
		Cost:     len(root.Children),
		Expanded: make(map[string]bool),
		Partial:  make(map[string]*Partial),
	}

	q := &dirQueue{}
	pushDirs(q, root)
	var deferred dirQueue

	for q.Len() > 0 && plan.Cost < budget {
		item := heap.Pop(q).(queued)
		if plan.Expanded[item.path] {
			continue
		}
		node := root.Find(item.path)
		if node == nil {
			continue
		}
		if len(node.Children) == 0 {
			plan.Expanded[item.path] = true
			continue
		}

		grow := len(node.Children)
		if plan.Cost+grow <= budget {
			plan.Expanded[item.path] = true
			plan.Cost += grow
			pushDirs(q, node)
			continue
		}
		// cost only grows, so an overflowing directory never fits whole later
		deferred = append(deferred, item)
	}

	// kept children plus the "... and N more" line
	slots := budget - plan.Cost
	if len(deferred) == 0 || slots < 2 {
		return plan
	}
	sort.Sort(deferred)
	node := root.Find(deferred[0].path)
	ranked := rankChildren(node, lineCounts)
	show := min(slots-1, len(ranked))
	shown := make(map[string]bool, show)
	for _, c := range ranked[:show] {
		shown[c.Name] = true
	}
	plan.Expanded[node.Path] = true
	plan.Partial[node.Path] = &Partial{Shown: shown, Remaining: len(ranked) - show}
	plan.Cost += show + 1
	return plan
}

func pushDirs(q *dirQueue, n *Node) {
	for _, c := range n.Children {
		if c.IsDir() && c.Stats != nil {
			heap.Push(q, queued{path: c.Path, importance: c.Stats.Importance})
		}
	}
}

// rankChildren orders directories by importance and files by line count
// scaled down by 1000, ties by name.
func rankChildren(n *Node, lineCounts map[string]int) []*Node {
	type ranked struct {
		node  *Node
		score float64
	}
	items := make([]ranked, 0, len(n.Children))
	for _, c := range n.Children {
		score := float64(lineCounts[c.Path]) / 1000
		if c.IsDir() && c.Stats != nil {
			score = c.Stats.Importance
		}
		items = append(items, ranked{c, score})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].node.Name < items[j].node.Name
	})
	out := make([]*Node, len(items))
	for i, it := range items {
		out[i] = it.node
	}
	return out
}
