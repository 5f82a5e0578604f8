package restructure

import (
	"github.com/larchwood/restructure/dominator"
	"github.com/larchwood/restructure/ir"
)

// isRegion reports whether (entry, exit) is a region: for every block b
// reachable from entry without crossing exit, entry dominates b and (exit is
// nil or exit post-dominates b), per spec §4.2. This is deliberately
// stricter and simpler than the canonical program-structure-tree definition,
// because a generic region-analysis library may misclassify self-loop
// graphs the way spec §4.2 warns about; we compute it ourselves with a
// frontier BFS instead.
//
// A nil exit stands for the function's virtual end-of-function sink and is
// treated as dominating everything. The interval is half-open: exit is not
// inside the region, so its own dominance is never checked and its
// successors are never explored.
func isRegion(entry, exit *ir.BasicBlock, dom, post *dominator.Tree[*ir.BasicBlock]) bool {
	visited := map[*ir.BasicBlock]bool{entry: true}
	queue := []*ir.BasicBlock{entry}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]

		if b == exit {
			continue
		}
		if !dom.Dominates(entry, b) {
			return false
		}
		if exit != nil && !post.Dominates(exit, b) {
			return false
		}
		for _, s := range b.Successors() {
			if !visited[s] {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}
	return true
}
