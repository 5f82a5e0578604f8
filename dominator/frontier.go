package dominator

import "github.com/larchwood/restructure/graph"

// Frontier maps each node to its dominance frontier: the set of nodes y such
// that n dominates an immediate predecessor of y but does not strictly
// dominate y itself. Exposed to satisfy spec §6's DominanceFrontier consumed
// interface; the region predicate in region.go does not need it (it recomputes
// a simpler frontier BFS directly, per spec §4.2), but loop/region tooling
// built on top of this module may.
type Frontier[N comparable] map[N][]N

// ComputeFrontier computes the dominance frontier of g given its dominator
// tree t, using the standard Cytron et al. algorithm.
func ComputeFrontier[N comparable](g *graph.Graph[N], t *Tree[N]) Frontier[N] {
	df := make(Frontier[N])
	for _, n := range g.Nodes() {
		preds := g.Predecessors(n)
		if len(preds) < 2 {
			continue
		}
		idomN, ok := t.ImmediateDominator(n.Value)
		if !ok {
			continue
		}
		for _, p := range preds {
			runner := p.Value
			for runner != idomN {
				df[runner] = appendUnique(df[runner], n.Value)
				next, ok := t.ImmediateDominator(runner)
				if !ok || next == runner {
					break
				}
				runner = next
			}
		}
	}
	return df
}

func appendUnique[N comparable](s []N, v N) []N {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}
