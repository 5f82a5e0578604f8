package restructure

import (
	"fmt"

	"github.com/larchwood/restructure/arena"
	"github.com/larchwood/restructure/ir"
)

// Expression is a finite tree over branch predicates: an opaque IR value, a
// logical negation, or a short-circuit binary operator. Expressions are
// immutable once constructed (spec §3) and live in an arena.Arena for the
// duration of one Structure call.
type Expression interface {
	isExpression()
}

// Value wraps an opaque IR value, typically a branch condition.
type Value struct {
	V ir.Value
}

func (*Value) isExpression() {}

// UnaryNot is the logical negation of an expression.
type UnaryNot struct {
	X Expression
}

func (*UnaryNot) isExpression() {}

// BinaryOp is the operator of a Binary expression.
type BinaryOp uint8

const (
	ShortCircuitAnd BinaryOp = iota
	ShortCircuitOr
)

func (op BinaryOp) String() string {
	switch op {
	case ShortCircuitAnd:
		return "&&"
	case ShortCircuitOr:
		return "||"
	default:
		return "?"
	}
}

// Binary is a short-circuit binary combination of two expressions.
type Binary struct {
	Op   BinaryOp
	L, R Expression
}

func (*Binary) isExpression() {}

// IsReferenceEqual reports whether a and b are the identical Expression node
// (not merely structurally equal). Structural equality is intentionally not
// used for deduplication in this module (spec §3); callers match sub-
// expressions produced from the same IR value by construction of the
// reaching-conditions walk, where a Value is allocated once per branch push
// and shared by pointer across every descendant's product. Go interface
// equality on pointer-typed concretes already is reference equality; this
// wrapper exists so callers never reach for a bare == on Expression.
func IsReferenceEqual(a, b Expression) bool {
	return a == b
}

// isNegationOf reports whether a is syntactically UnaryNot(b) or b is
// syntactically UnaryNot(a), by reference equality on the inner expression.
// Used by the structurizer's guard-merging step (spec §4.5) to decide
// whether a new guard belongs in an existing IfElse's else branch.
func isNegationOf(a, b Expression) bool {
	if not, ok := a.(*UnaryNot); ok {
		return IsReferenceEqual(not.X, b)
	}
	if not, ok := b.(*UnaryNot); ok {
		return IsReferenceEqual(not.X, a)
	}
	return false
}

// newNot allocates the negation of x, unless x is itself already a UnaryNot,
// in which case it returns the inner expression (double-negation collapses
// at construction time rather than requiring a later simplification pass).
func newNot(exprs *arena.Arena[UnaryNot], x Expression) Expression {
	if not, ok := x.(*UnaryNot); ok {
		return not.X
	}
	return arena.Alloc(exprs, UnaryNot{X: x})
}

func exprString(e Expression) string {
	switch x := e.(type) {
	case nil:
		return "<nil>"
	case *Value:
		return fmt.Sprintf("%v", x.V)
	case *UnaryNot:
		return "!" + exprString(x.X)
	case *Binary:
		return "(" + exprString(x.L) + " " + x.Op.String() + " " + exprString(x.R) + ")"
	default:
		return fmt.Sprintf("<unknown expression %T>", e)
	}
}
