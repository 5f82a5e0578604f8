package restructure

import "github.com/larchwood/restructure/arena"

// exprArenas owns the Binary and UnaryNot nodes synthesized while collapsing
// a reaching condition into a single Expression. Scoped to one Structure
// call, the same way reachingExprArenas is scoped to one reachingConditions
// walk.
type exprArenas struct {
	nots arena.Arena[UnaryNot]
	bins arena.Arena[Binary]
}

func newExprArenas() *exprArenas {
	return &exprArenas{}
}

func (a *exprArenas) fold(op BinaryOp, terms []Expression) Expression {
	if len(terms) == 0 {
		return nil
	}
	result := terms[0]
	for _, t := range terms[1:] {
		result = arena.Alloc(&a.bins, Binary{Op: op, L: result, R: t})
	}
	return result
}

func (a *exprArenas) and(terms []Expression) Expression { return a.fold(ShortCircuitAnd, terms) }
func (a *exprArenas) or(terms []Expression) Expression  { return a.fold(ShortCircuitOr, terms) }

// hasContradiction reports whether product conjoins some term with its own
// syntactic negation, making it unsatisfiable.
func hasContradiction(product Product) bool {
	for i, a := range product {
		for j, b := range product {
			if i != j && isNegationOf(a, b) {
				return true
			}
		}
	}
	return false
}

func containsTerm(product Product, t Expression) bool {
	for _, p := range product {
		if IsReferenceEqual(p, t) {
			return true
		}
	}
	return false
}

func removeTerm(product Product, t Expression) Product {
	out := make(Product, 0, len(product))
	for _, p := range product {
		if !IsReferenceEqual(p, t) {
			out = append(out, p)
		}
	}
	return out
}

// commonTerms returns the terms, by reference equality, present in every
// product of live, in the order they appear in live[0].
func commonTerms(live []Product) []Expression {
	if len(live) == 0 {
		return nil
	}
	var common []Expression
	for _, t := range live[0] {
		inAll := true
		for _, p := range live[1:] {
			if !containsTerm(p, t) {
				inAll = false
				break
			}
		}
		if inAll && !containsTerm(Product(common), t) {
			common = append(common, t)
		}
	}
	return common
}

// simplifyDNF collapses a DNF sum-of-products reaching condition into a
// single Expression, per spec §4.4's three-step heuristic:
//
//  1. drop any product that conjoins a term with its own negation (trivial
//     contradiction removal) — such a path can never actually be taken;
//  2. factor out the terms common to every surviving product, so a guard
//     shared by every path is tested once instead of once per disjunct;
//  3. OR together whatever residue (non-common terms) remains of each
//     product.
//
// Returns nil when some surviving product is empty (the condition is
// unconditionally true) and also when no product survives step 1; callers
// treat nil as "append unconditionally, no guard needed." When every
// surviving product reduces to the common prefix, the prefix alone is
// returned.
func simplifyDNF(products []Product, exprs *exprArenas) Expression {
	live := make([]Product, 0, len(products))
	for _, p := range products {
		if !hasContradiction(p) {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return nil
	}

	common := commonTerms(live)

	var residues []Expression
	vacuous := false
	for _, p := range live {
		residue := p
		for _, c := range common {
			residue = removeTerm(residue, c)
		}
		if len(residue) == 0 {
			vacuous = true
			continue
		}
		residues = append(residues, exprs.and(residue))
	}

	var disjunction Expression
	if !vacuous {
		disjunction = exprs.or(residues)
	}

	prefix := exprs.and(common)
	switch {
	case prefix == nil:
		return disjunction
	case disjunction == nil:
		return prefix
	default:
		return arena.Alloc(&exprs.bins, Binary{Op: ShortCircuitAnd, L: prefix, R: disjunction})
	}
}

// andClauses flattens the left-associated ShortCircuitAnd chain exprArenas.and
// builds back into its individual clauses, outermost (leftmost) first. A
// non-AND expression, including a ShortCircuitOr disjunction left over from
// simplifyDNF's residue, is returned as its own single, unsplit clause.
func andClauses(e Expression) []Expression {
	bin, ok := e.(*Binary)
	if !ok || bin.Op != ShortCircuitAnd {
		return []Expression{e}
	}
	return append(andClauses(bin.L), bin.R)
}
