// Package dominator computes dominator trees, post-dominator trees and
// dominance frontiers over graph.Graph, using the iterative algorithm from
// Cooper, Harvey & Kennedy, "A Simple, Fast Dominance Algorithm" — the same
// style of algorithm the example pack's SSA packages hand-roll rather than
// import (see dominikh-go-tools' buildDomTree, a Lengauer-Tarjan variant of
// the same idea).
package dominator

import "github.com/larchwood/restructure/graph"

// Tree is a dominator tree (or, when built over a reversed graph, a
// post-dominator tree) computed for graph.Graph[N].
type Tree[N comparable] struct {
	g      *graph.Graph[N]
	idom   map[N]N
	hasIdom map[N]bool
	children map[N][]N
}

// New computes the dominator tree of g, rooted at g.Root(). Precondition:
// g.InitOrder has been called so reverse-postorder numbers are available;
// New calls it itself to keep the contract simple for callers, matching the
// teacher's own Structure entry point which calls g.InitOrder() once up
// front.
func New[N comparable](g *graph.Graph[N]) *Tree[N] {
	g.InitOrder()
	return build(g, func(n *graph.Node[N]) []*graph.Node[N] { return g.Predecessors(n) })
}

// NewPost computes the post-dominator tree of g: the dominator tree of the
// reverse graph, rooted at a synthetic sink that is a predecessor-less
// successor of every block with no real successors (the function's virtual
// end-of-function sink, spec §4.2/§9).
func NewPost[N comparable](g *graph.Graph[N], sink N) *Tree[N] {
	rg := graph.New[N]()
	for _, n := range g.Nodes() {
		rg.Node(n.Value)
	}
	sinkNode := rg.Node(sink)
	for _, n := range g.Nodes() {
		succs := g.Successors(n)
		from := rg.Node(n.Value)
		if len(succs) == 0 {
			rg.SetEdge(sinkNode, from)
			continue
		}
		for _, s := range succs {
			rg.SetEdge(rg.Node(s.Value), from)
		}
	}
	rg.SetRoot(sinkNode)
	rg.InitOrder()
	return build(rg, func(n *graph.Node[N]) []*graph.Node[N] { return rg.Predecessors(n) })
}

func build[N comparable](g *graph.Graph[N], preds func(*graph.Node[N]) []*graph.Node[N]) *Tree[N] {
	t := &Tree[N]{
		g:        g,
		idom:     make(map[N]N),
		hasIdom:  make(map[N]bool),
		children: make(map[N][]N),
	}
	root := g.Root()
	if root == nil {
		return t
	}

	order := reversePostorder(g)
	index := make(map[N]int, len(order))
	for i, n := range order {
		index[n.Value] = i
	}

	t.idom[root.Value] = root.Value
	t.hasIdom[root.Value] = true

	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b.Value == root.Value {
				continue
			}
			var newIdom N
			set := false
			for _, p := range preds(b) {
				if !t.hasIdom[p.Value] {
					continue
				}
				if !set {
					newIdom = p.Value
					set = true
					continue
				}
				newIdom = t.intersect(newIdom, p.Value, index)
			}
			if !set {
				continue
			}
			if !t.hasIdom[b.Value] || t.idom[b.Value] != newIdom {
				t.idom[b.Value] = newIdom
				t.hasIdom[b.Value] = true
				changed = true
			}
		}
	}

	for _, b := range order {
		if b.Value == root.Value {
			continue
		}
		if p, ok := t.idom[b.Value]; ok {
			t.children[p] = append(t.children[p], b.Value)
		}
	}
	return t
}

// intersect walks two nodes up the (partially built) dominator tree until
// they meet, using reverse-postorder index as the finger-walk ordering.
func (t *Tree[N]) intersect(a, b N, index map[N]int) N {
	for a != b {
		for index[a] > index[b] {
			a = t.idom[a]
		}
		for index[b] > index[a] {
			b = t.idom[b]
		}
	}
	return a
}

func reversePostorder[N comparable](g *graph.Graph[N]) []*graph.Node[N] {
	nodes := g.Nodes()
	order := make([]*graph.Node[N], 0, len(nodes))
	for _, n := range nodes {
		if n.Order > 0 || n.Value == g.Root().Value {
			order = append(order, n)
		}
	}
	// Order is assigned by graph.InitOrder as len(nodes) downto 1 in
	// reverse-postorder; sort ascending by that number so index 0 is root.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j-1].Order > order[j].Order; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}

// ImmediateDominator returns the immediate dominator of n, and whether n has
// one. Nodes not reachable from the root have none; the root is reported as
// its own immediate dominator, per the usual convention.
func (t *Tree[N]) ImmediateDominator(n N) (N, bool) {
	v, ok := t.idom[n]
	return v, ok
}

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (t *Tree[N]) Dominates(a, b N) bool {
	if a == b {
		return true
	}
	cur, ok := t.idom[b]
	if !ok {
		return false
	}
	for {
		if cur == a {
			return true
		}
		if !t.hasIdom[cur] {
			return false
		}
		parent := t.idom[cur]
		if parent == cur {
			return false
		}
		cur = parent
	}
}

// DominatedBy returns the nodes immediately dominated by n (its children in
// the dominator tree).
func (t *Tree[N]) DominatedBy(n N) []N {
	return t.children[n]
}

// Root returns the root of the tree (the entry node for a dominator tree,
// the synthetic sink for a post-dominator tree).
func (t *Tree[N]) Root() *graph.Node[N] {
	return t.g.Root()
}
