// Package graph provides a generic directed graph used as the substrate for
// dominator, post-dominator and loop-header analyses. It is the teacher's own
// generic CFG container, trimmed of the interval-node bookkeeping the Cifuentes
// structuring algorithm needed and which this module's reaching-conditions
// structurizer does not use.
package graph

import "strings"

// Node represents a node in a directed graph, wrapping a comparable value
// from the caller's domain (typically *ir.BasicBlock).
type Node[N comparable] struct {
	Value N

	// Order is the reverse-postorder number assigned by InitOrder. Zero
	// until InitOrder has run.
	Order int
}

func (n *Node[N]) String() string {
	return anyString(n.Value)
}

func anyString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// Graph is a directed graph over comparable node values.
type Graph[N comparable] struct {
	root     *Node[N]
	nodes    map[N]*Node[N]
	order    []N
	incoming map[N]map[N]struct{}
	outgoing map[N]map[N]struct{}
}

// New creates an empty directed graph.
func New[N comparable]() *Graph[N] {
	return &Graph[N]{
		nodes:    make(map[N]*Node[N]),
		incoming: make(map[N]map[N]struct{}),
		outgoing: make(map[N]map[N]struct{}),
	}
}

// String returns a debug string representation of the graph.
func (g *Graph[N]) String() string {
	var sb strings.Builder
	for _, value := range g.order {
		n := g.nodes[value]
		sb.WriteString(n.String())
		sb.WriteString(" -> ")
		for _, succ := range g.Successors(n) {
			sb.WriteString(succ.String())
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SetRoot sets the root (entry) node of the graph.
func (g *Graph[N]) SetRoot(node *Node[N]) {
	g.root = node
}

// Root returns the root node of the graph.
func (g *Graph[N]) Root() *Node[N] {
	return g.root
}

// GetNode returns the node wrapping value, if it has been added.
func (g *Graph[N]) GetNode(value N) (*Node[N], bool) {
	node, ok := g.nodes[value]
	return node, ok
}

// Node adds a new node wrapping value to the graph, or returns the existing
// one if value was already added.
func (g *Graph[N]) Node(value N) *Node[N] {
	if node, ok := g.nodes[value]; ok {
		return node
	}
	node := &Node[N]{Value: value}
	g.nodes[value] = node
	g.order = append(g.order, value)
	g.incoming[value] = make(map[N]struct{})
	g.outgoing[value] = make(map[N]struct{})
	return node
}

// SetEdge creates an edge from the "from" node to the "to" node.
func (g *Graph[N]) SetEdge(from, to *Node[N]) {
	g.outgoing[from.Value][to.Value] = struct{}{}
	g.incoming[to.Value][from.Value] = struct{}{}
}

// Nodes returns all nodes in the graph, in insertion order.
func (g *Graph[N]) Nodes() []*Node[N] {
	nodes := make([]*Node[N], 0, len(g.order))
	for _, v := range g.order {
		nodes = append(nodes, g.nodes[v])
	}
	return nodes
}

// Len returns the number of nodes in the graph.
func (g *Graph[N]) Len() int {
	return len(g.nodes)
}

// Successors returns the nodes directly reachable from n.
func (g *Graph[N]) Successors(n *Node[N]) []*Node[N] {
	out := g.outgoing[n.Value]
	succ := make([]*Node[N], 0, len(out))
	for v := range out {
		succ = append(succ, g.nodes[v])
	}
	return succ
}

// Predecessors returns the nodes with a direct edge to n.
func (g *Graph[N]) Predecessors(n *Node[N]) []*Node[N] {
	in := g.incoming[n.Value]
	preds := make([]*Node[N], 0, len(in))
	for v := range in {
		preds = append(preds, g.nodes[v])
	}
	return preds
}

// DFS performs a depth-first search from the root node.
//   - pre is invoked before exploring a node's children.
//   - post is invoked after all its children have been processed.
func (g *Graph[N]) DFS(pre, post func(n *Node[N])) {
	visited := make(map[N]bool, len(g.nodes))

	var visit func(n *Node[N])
	visit = func(n *Node[N]) {
		visited[n.Value] = true
		if pre != nil {
			pre(n)
		}
		for _, succ := range g.Successors(n) {
			if !visited[succ.Value] {
				visit(succ)
			}
		}
		if post != nil {
			post(n)
		}
	}

	if g.root != nil {
		visit(g.root)
	}
}

// InitOrder assigns reverse-postorder numbers to every node reachable from
// the root. Unreachable nodes keep Order == 0.
func (g *Graph[N]) InitOrder() {
	num := g.Len()
	g.DFS(nil, func(n *Node[N]) {
		n.Order = num
		num--
	})
}

// Reversed returns a new graph with every edge flipped and the given node as
// root. dominator.NewPost builds its own reversed graph with a synthetic
// sink instead of calling this.
func (g *Graph[N]) Reversed(root N) *Graph[N] {
	rg := New[N]()
	for _, v := range g.order {
		rg.Node(v)
	}
	for _, v := range g.order {
		from := g.nodes[v]
		for _, succ := range g.Successors(from) {
			rg.SetEdge(rg.nodes[succ.Value], rg.nodes[v])
		}
	}
	rg.SetRoot(rg.Node(root))
	return rg
}
