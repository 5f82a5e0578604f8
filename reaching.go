package restructure

import (
	"fmt"

	"github.com/larchwood/restructure/arena"
	"github.com/larchwood/restructure/ir"
)

// Product is one conjunctive term of a disjunctive-normal-form reaching
// condition: a list of Expression literals to be conjoined. A node's full
// reaching condition is the disjunction (sum) of its Products.
type Product []Expression

// reachingExprArenas holds the arenas a single reachingConditions walk
// allocates Value/UnaryNot nodes from. Kept separate from AstGrapher's own
// arenas since reaching conditions are scoped to one runOnRegion call, not
// to the whole function.
type reachingExprArenas struct {
	values arena.Arena[Value]
	nots   arena.Arena[UnaryNot]
}

// reachingConditions walks the AST graph from astEntry and accumulates, for
// every reachable node strictly before astExit, the DNF sum-of-products by
// which it can be reached, per spec §4.3. astExit may be nil, meaning the
// walk should run to the natural end of the function (every block whose
// terminator has no successors) rather than stopping at a designated sink.
func reachingConditions(g *AstGrapher, astEntry, astExit *GraphNode) (map[Statement][]Product, error) {
	exprs := &reachingExprArenas{}
	conditions := make(map[Statement][]Product)
	onStack := make(map[*GraphNode]bool)
	if astExit != nil {
		onStack[astExit] = true
	}

	var stack []Expression
	var walkErr error

	var visit func(n *GraphNode)
	visit = func(n *GraphNode) {
		if walkErr != nil || onStack[n] {
			return
		}
		onStack[n] = true
		defer func() { onStack[n] = false }()

		product := make(Product, len(stack))
		copy(product, stack)
		conditions[n.Stmt] = append(conditions[n.Stmt], product)

		if n.HasExit() {
			if child, ok := g.GraphNodeFromEntry(n.Exit); ok {
				visit(child)
			}
			return
		}

		switch term := n.Entry.Term.(type) {
		case *ir.CondBranch:
			cond := Expression(arena.Alloc(&exprs.values, Value{V: term.Cond}))
			if thenChild, ok := g.GraphNodeFromEntry(term.Then); ok {
				stack = append(stack, cond)
				visit(thenChild)
				stack = stack[:len(stack)-1]
			}
			notCond := Expression(arena.Alloc(&exprs.nots, UnaryNot{X: cond}))
			if elseChild, ok := g.GraphNodeFromEntry(term.Else); ok {
				stack = append(stack, notCond)
				visit(elseChild)
				stack = stack[:len(stack)-1]
			}
		case *ir.Jump:
			if child, ok := g.GraphNodeFromEntry(term.Target); ok {
				visit(child)
			}
		case *ir.Return:
			// No successors: the walk naturally terminates here.
		case nil:
			walkErr = fmt.Errorf("%w: block %v has no terminator", ErrUnsupportedTerminator, n.Entry)
		default:
			walkErr = fmt.Errorf("%w: block %v ends with %T", ErrUnsupportedTerminator, n.Entry, term)
		}
	}

	visit(astEntry)
	if walkErr != nil {
		return nil, walkErr
	}
	return conditions, nil
}
