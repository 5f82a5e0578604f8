package restructure

import (
	"fmt"

	"github.com/larchwood/restructure/dominator"
	"github.com/larchwood/restructure/graph"
	"github.com/larchwood/restructure/ir"
	"github.com/larchwood/restructure/loopinfo"
)

// Structure converts fn's control-flow graph into a goto-free structured
// Statement tree, per spec §4: loop headers are folded into Loop statements
// first, then every block is climbed upward through the post-dominator tree,
// folding the largest SESE region at each step, until the whole function
// collapses into its entry block's node.
func Structure(fn *ir.Function) (Statement, error) {
	if fn.Empty() {
		return nil, nil
	}

	cfg := graphOf(fn)
	domTree := dominator.New(cfg)
	postTree := dominator.NewPost(cfg, nil)
	loops := loopinfo.Compute(cfg, domTree.Dominates)

	grapher := NewAstGrapher()
	exprs := newExprArenas()

	order := postOrder(fn)
	for _, bb := range order {
		grapher.AddBasicBlock(bb)
	}

	for _, bb := range order {
		if loops.IsLoopHeader(bb) {
			if err := runOnLoop(grapher, exprs, loops, bb); err != nil {
				return nil, err
			}
		}
		if err := climb(grapher, domTree, postTree, exprs, bb); err != nil {
			return nil, err
		}
	}

	root, ok := grapher.GraphNodeFromEntry(fn.Entry)
	if !ok {
		return nil, fmt.Errorf("%w: function entry %v", ErrMissingGraphNode, fn.Entry)
	}
	return simplify(root.Stmt), nil
}

// graphOf builds the generic graph.Graph view of fn's CFG that dominator and
// loopinfo operate over.
func graphOf(fn *ir.Function) *graph.Graph[*ir.BasicBlock] {
	g := graph.New[*ir.BasicBlock]()
	for _, bb := range fn.Blocks {
		g.Node(bb)
	}
	for _, bb := range fn.Blocks {
		from := g.Node(bb)
		for _, s := range bb.Successors() {
			g.SetEdge(from, g.Node(s))
		}
	}
	g.SetRoot(g.Node(fn.Entry))
	return g
}

// postOrder returns fn's blocks in DFS post-order from the entry block: a
// block is listed only after every block it can reach has been listed.
func postOrder(fn *ir.Function) []*ir.BasicBlock {
	visited := map[*ir.BasicBlock]bool{}
	var order []*ir.BasicBlock
	var visit func(bb *ir.BasicBlock)
	visit = func(bb *ir.BasicBlock) {
		if bb == nil || visited[bb] {
			return
		}
		visited[bb] = true
		for _, s := range bb.Successors() {
			visit(s)
		}
		order = append(order, bb)
	}
	visit(fn.Entry)
	return order
}

// climb walks the post-dominator tree upward from entry, folding the
// largest valid SESE region at each step (spec §4.5 steps a-d). It restarts
// each candidate exit from the post-dominator of the PREVIOUS exit, not of
// entry, so that once entry's own node has a distinct exit (HasExit), the
// next candidate continues past the fold instead of re-examining its
// interior — isRegion still operates on the raw CFG, so the climb itself is
// a pure loop over candidate exits rather than something isRegion needs to
// know about.
func climb(g *AstGrapher, dom, post *dominator.Tree[*ir.BasicBlock], exprs *exprArenas, entry *ir.BasicBlock) error {
	current := entry
	if n, ok := g.GraphNodeFromEntry(entry); ok && n.HasExit() {
		if n.Exit == nil {
			return nil
		}
		current = n.Exit
	}
	for {
		exit, ok := post.ImmediateDominator(current)
		if !ok {
			return nil
		}
		if exit != nil && !dom.Dominates(entry, exit) {
			return nil
		}
		if isRegion(entry, exit, dom, post) {
			if err := runOnRegion(g, exprs, entry, exit); err != nil {
				return err
			}
		}
		if exit == nil {
			return nil
		}
		current = exit
	}
}

// runOnRegion folds the SESE region (entry, exit) into a single Statement
// and records it in g via UpdateRegion, per spec §4.5 step e: compute
// reaching conditions for every node strictly between entry and exit,
// collapse each to a guard, and append the nodes in topological order,
// greedily merging guards that share a prefix.
func runOnRegion(g *AstGrapher, exprs *exprArenas, entry, exit *ir.BasicBlock) error {
	entryNode, ok := g.GraphNodeFromEntry(entry)
	if !ok {
		return fmt.Errorf("%w: region entry %v", ErrMissingGraphNode, entry)
	}
	var exitNode *GraphNode
	if exit != nil {
		exitNode, ok = g.GraphNodeFromEntry(exit)
		if !ok {
			return fmt.Errorf("%w: region exit %v", ErrMissingGraphNode, exit)
		}
	}

	conditions, err := reachingConditions(g, entryNode, exitNode)
	if err != nil {
		return err
	}

	nodes := regionReversePostOrder(g, entryNode, exitNode)

	var built []Statement
	for _, n := range nodes {
		guard := simplifyDNF(conditions[n.Stmt], exprs)
		built = appendGuarded(exprs, built, guard, n.Stmt)
	}

	g.UpdateRegion(entry, exit, asStatement(built))
	return nil
}

// regionReversePostOrder lists every GraphNode strictly between entry and
// exit, entry first, in a topological order consistent with the region's
// edges (a plain DFS post-order, reversed, which is valid because a region
// by definition contains no back edges).
func regionReversePostOrder(g *AstGrapher, entry, exit *GraphNode) []*GraphNode {
	var order []*GraphNode
	visited := map[*GraphNode]bool{}
	if exit != nil {
		visited[exit] = true
	}
	var visit func(n *GraphNode)
	visit = func(n *GraphNode) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, c := range g.Children(n) {
			visit(c)
		}
		order = append(order, n)
	}
	visit(entry)
	reverseNodes(order)
	return order
}

func reverseNodes(s []*GraphNode) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
