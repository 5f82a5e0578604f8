// Package loopinfo identifies loop headers and per-header loop membership in
// a graph.Graph by detecting back edges in a depth-first traversal from the
// entry node, per spec §4.5 step 1: "the set of back-edge destinations
// (targets of edges that close cycles in a DFS from the entry block)".
//
// This supersedes the teacher's interval/latch-based loop discovery
// (nukilabs-decompile's findLatch/markNodesInLoop), which served a different
// structuring algorithm (Cifuentes intervals) than the reaching-conditions
// approach this module implements.
package loopinfo

import "github.com/larchwood/restructure/graph"

// Info reports, for a single DFS from the graph's root, which nodes are loop
// headers (back-edge destinations) and which nodes belong to each header's
// loop body.
type Info[N comparable] struct {
	headers map[N]bool
	// body maps a loop header to its natural loop: the header plus every
	// node it dominates that reaches a back edge's source without passing
	// through the header, merged over all back edges into that header.
	body map[N]map[N]bool
}

// Compute runs a single DFS over g, marking back-edge destinations as loop
// headers. dominates reports whether a dominates b; callers pass the
// dominator tree's Dominates method. Loop bodies are collected by walking
// predecessors backward from each back edge's source.
func Compute[N comparable](g *graph.Graph[N], dominates func(a, b N) bool) *Info[N] {
	info := &Info[N]{
		headers: make(map[N]bool),
		body:    make(map[N]map[N]bool),
	}
	root := g.Root()
	if root == nil {
		return info
	}

	onStack := make(map[N]bool)
	visited := make(map[N]bool)
	var backEdges []struct{ from, to N }

	var visit func(n *graph.Node[N])
	visit = func(n *graph.Node[N]) {
		visited[n.Value] = true
		onStack[n.Value] = true
		for _, succ := range g.Successors(n) {
			if onStack[succ.Value] {
				backEdges = append(backEdges, struct{ from, to N }{n.Value, succ.Value})
				info.headers[succ.Value] = true
				continue
			}
			if !visited[succ.Value] {
				visit(succ)
			}
		}
		onStack[n.Value] = false
	}
	visit(root)

	for _, e := range backEdges {
		header := e.to
		latch := e.from
		members := info.body[header]
		if members == nil {
			members = make(map[N]bool)
			info.body[header] = members
		}
		members[header] = true
		work := []N{latch}
		for len(work) > 0 {
			v := work[len(work)-1]
			work = work[:len(work)-1]
			node, ok := g.GetNode(v)
			if members[v] || !ok || !dominates(header, v) {
				continue
			}
			members[v] = true
			for _, p := range g.Predecessors(node) {
				work = append(work, p.Value)
			}
		}
	}

	return info
}

// IsLoopHeader reports whether n is the destination of some back edge.
func (info *Info[N]) IsLoopHeader(n N) bool {
	return info.headers[n]
}

// GetLoopFor returns the members of the loop headed by header, including
// header itself, or nil if header is not a loop header.
func (info *Info[N]) GetLoopFor(header N) []N {
	members := info.body[header]
	if members == nil {
		return nil
	}
	out := make([]N, 0, len(members))
	for n := range members {
		out = append(out, n)
	}
	return out
}

// Contains reports whether n belongs to the loop headed by header.
func (info *Info[N]) Contains(header, n N) bool {
	return info.body[header][n]
}
