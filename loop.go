package restructure

import (
	"fmt"

	"github.com/larchwood/restructure/arena"
	"github.com/larchwood/restructure/ir"
	"github.com/larchwood/restructure/loopinfo"
)

// breakNode is a pseudo-GraphNode standing in for "control leaves the loop
// here." It is shared by every exit edge of a given loop body walk, the
// same way a shared join block is shared by every path that reaches it:
// reaching-condition products accumulate against it from every exit edge,
// and it takes one slot in the body's topological order, at the point
// every path that can reach it has already been emitted before it.
func newBreakNode() *GraphNode {
	return &GraphNode{Stmt: Break}
}

// runOnLoop folds the natural loop headed by header into a single Endless
// Loop statement and records it in g via UpdateRegion, per spec §4.5 step 1.
// Every edge leaving the loop body becomes a Break statement, guarded by the
// condition that reaches it; simplify's loop rewrite (spec §4.6) later turns
// a single leading or trailing guarded Break into a pre- or post-tested Loop
// where the shape allows it.
func runOnLoop(g *AstGrapher, exprs *exprArenas, loops *loopinfo.Info[*ir.BasicBlock], header *ir.BasicBlock) error {
	memberList := loops.GetLoopFor(header)
	if len(memberList) == 0 {
		return fmt.Errorf("%w: %v reported as loop header with no body", ErrLoopNotSimplified, header)
	}
	members := make(map[*ir.BasicBlock]bool, len(memberList))
	for _, m := range memberList {
		members[m] = true
	}

	headerNode, ok := g.GraphNodeFromEntry(header)
	if !ok {
		return fmt.Errorf("%w: loop header %v", ErrMissingGraphNode, header)
	}

	brk := newBreakNode()
	conditions, err := loopReachingConditions(g, headerNode, members, brk)
	if err != nil {
		return err
	}
	nodes := loopReversePostOrder(g, headerNode, members, brk)

	var built []Statement
	for _, n := range nodes {
		guard := simplifyDNF(conditions[n.Stmt], exprs)
		built = appendGuarded(exprs, built, guard, n.Stmt)
	}

	loopStmt := &Loop{Position: Endless, Body: asStatement(built)}
	g.UpdateRegion(header, loopExit(g, members), loopStmt)
	return nil
}

// loopExit picks the block outside members that the loop breaks to, for
// registering the folded Loop's GraphNode exit. A well-formed single-exit
// loop has exactly one candidate; when a loop has more than one (multiple
// distinct break targets, not modeled separately since Break carries no
// target of its own) the first one encountered is used as the loop's
// nominal follow block, a heuristic documented as a known limitation.
func loopExit(g *AstGrapher, members map[*ir.BasicBlock]bool) *ir.BasicBlock {
	for m := range members {
		node, ok := g.GraphNodeFromEntry(m)
		if !ok {
			continue
		}
		for _, s := range loopSuccessors(node) {
			if !members[s] {
				return s
			}
		}
	}
	return nil
}

func loopSuccessors(n *GraphNode) []*ir.BasicBlock {
	if n.HasExit() {
		if n.Exit != nil {
			return []*ir.BasicBlock{n.Exit}
		}
		return nil
	}
	return n.Entry.Successors()
}

// loopReachingConditions is reachingConditions's loop-body counterpart: the
// walk starts at header (already on the visit stack from the top-level
// call, so the implicit back edge from the latch naturally halts there
// without extra bookkeeping), and any successor outside members is treated
// as reaching brk instead of being expanded further.
func loopReachingConditions(g *AstGrapher, header *GraphNode, members map[*ir.BasicBlock]bool, brk *GraphNode) (map[Statement][]Product, error) {
	exprs := &reachingExprArenas{}
	conditions := make(map[Statement][]Product)
	onStack := map[*GraphNode]bool{}
	var stack []Expression
	var walkErr error

	resolve := func(bb *ir.BasicBlock) *GraphNode {
		if bb == nil {
			return nil
		}
		if !members[bb] {
			return brk
		}
		n, ok := g.GraphNodeFromEntry(bb)
		if !ok {
			return nil
		}
		return n
	}

	var visit func(n *GraphNode)
	visit = func(n *GraphNode) {
		if walkErr != nil || n == nil || onStack[n] {
			return
		}
		onStack[n] = true
		defer func() { onStack[n] = false }()

		product := make(Product, len(stack))
		copy(product, stack)
		conditions[n.Stmt] = append(conditions[n.Stmt], product)

		if n == brk {
			return
		}
		if n.HasExit() {
			visit(resolve(n.Exit))
			return
		}

		switch term := n.Entry.Term.(type) {
		case *ir.CondBranch:
			cond := Expression(arena.Alloc(&exprs.values, Value{V: term.Cond}))
			stack = append(stack, cond)
			visit(resolve(term.Then))
			stack = stack[:len(stack)-1]

			notCond := Expression(arena.Alloc(&exprs.nots, UnaryNot{X: cond}))
			stack = append(stack, notCond)
			visit(resolve(term.Else))
			stack = stack[:len(stack)-1]
		case *ir.Jump:
			visit(resolve(term.Target))
		case *ir.Return:
		case nil:
			walkErr = fmt.Errorf("%w: block %v has no terminator", ErrUnsupportedTerminator, n.Entry)
		default:
			walkErr = fmt.Errorf("%w: block %v ends with %T", ErrUnsupportedTerminator, n.Entry, term)
		}
	}

	visit(header)
	if walkErr != nil {
		return nil, walkErr
	}
	return conditions, nil
}

// loopReversePostOrder lists header's loop body, including brk wherever the
// body can reach it, in the same reverse-postorder convention
// regionReversePostOrder uses.
func loopReversePostOrder(g *AstGrapher, header *GraphNode, members map[*ir.BasicBlock]bool, brk *GraphNode) []*GraphNode {
	var order []*GraphNode
	visited := map[*GraphNode]bool{}

	children := func(n *GraphNode) []*GraphNode {
		if n == brk {
			return nil
		}
		if n.HasExit() {
			if n.Exit == nil || !members[n.Exit] {
				return []*GraphNode{brk}
			}
			if child, ok := g.GraphNodeFromEntry(n.Exit); ok {
				return []*GraphNode{child}
			}
			return nil
		}
		succs := n.Entry.Successors()
		out := make([]*GraphNode, 0, len(succs))
		for _, s := range succs {
			if s == nil {
				continue
			}
			if !members[s] {
				out = append(out, brk)
				continue
			}
			if child, ok := g.GraphNodeFromEntry(s); ok {
				out = append(out, child)
			}
		}
		return out
	}

	var visit func(n *GraphNode)
	visit = func(n *GraphNode) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		for _, c := range children(n) {
			visit(c)
		}
		order = append(order, n)
	}
	visit(header)
	reverseNodes(order)
	return order
}
