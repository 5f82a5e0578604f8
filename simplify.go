package restructure

// simplify rewrites a freshly-structured Statement tree bottom-up, per
// spec §4.6: flatten and collapse sequences, drop vacuous branches and
// swap a conditional's arms so the non-empty one leads, strip a negated
// condition by swapping the arms, hoist a lone nested if into its parent's
// guard, and fold an Endless loop whose body is a single leading or
// trailing conditional break into a pre- or post-tested loop.
func simplify(s Statement) Statement {
	switch st := s.(type) {
	case nil:
		return nil
	case *Sequence:
		return simplifySequence(st)
	case *IfElse:
		return simplifyIfElse(st)
	case *Loop:
		return simplifyLoop(st)
	default:
		return s
	}
}

// negate returns the logical negation of x, collapsing a double negation at
// construction time. Unlike newNot, which allocates from an arena, it
// allocates on the heap: the negations simplify introduces have no
// reference-equality contract to honor — boolsimp's merging has already
// run — so no arena is needed.
func negate(x Expression) Expression {
	if not, ok := x.(*UnaryNot); ok {
		return not.X
	}
	return &UnaryNot{X: x}
}

func isEmptyStatement(s Statement) bool {
	if s == nil {
		return true
	}
	seq, ok := s.(*Sequence)
	return ok && len(seq.Stmts) == 0
}

// simplifySequence simplifies every child, flattens nested sequences into
// their parent, and drops children that simplified away to nothing.
func simplifySequence(seq *Sequence) Statement {
	var flat []Statement
	for _, child := range seq.Stmts {
		c := simplify(child)
		if isEmptyStatement(c) {
			continue
		}
		if nested, ok := c.(*Sequence); ok {
			flat = append(flat, nested.Stmts...)
			continue
		}
		flat = append(flat, c)
	}
	return asStatement(flat)
}

// simplifyIfElse simplifies both arms, drops an arm that simplified away to
// nothing, and swaps the arms under a negated condition when only the else
// arm is left — "if cond {} else { y }" reads better as "if !cond { y }".
// When both arms remain and the condition is a negation, the negation is
// stripped and the arms swapped. With no else arm, a then arm that is
// itself a single else-less IfElse is hoisted: "if a { if b { x } }"
// becomes "if a && b { x }".
func simplifyIfElse(st *IfElse) Statement {
	then := simplify(st.Then)
	els := simplify(st.Else)
	cond := st.Cond

	if isEmptyStatement(then) && !isEmptyStatement(els) {
		then, els = els, nil
		cond = negate(cond)
	} else if isEmptyStatement(els) {
		els = nil
	}

	if isEmptyStatement(then) {
		return nil
	}
	for els != nil {
		not, ok := cond.(*UnaryNot)
		if !ok {
			break
		}
		cond, then, els = not.X, els, then
	}
	if els == nil {
		if inner, ok := then.(*IfElse); ok && inner.Else == nil {
			cond = &Binary{Op: ShortCircuitAnd, L: cond, R: inner.Cond}
			then = inner.Then
		}
	}
	return &IfElse{Cond: cond, Then: then, Else: els}
}

// simplifyLoop simplifies the body, then checks whether it is exactly the
// shape produced by a structured while or do-while loop: a single
// conditional break with nothing else guarding it, either leading the body
// (pre-tested) or trailing it (post-tested). Anything else — multiple break
// sites, a break nested under other statements on both sides, or a
// genuinely unconditional loop with no escape — stays an Endless loop with
// Break left in place, matching spec §4.6's note that not every loop
// reduces to a pre/post-tested form.
func simplifyLoop(st *Loop) Statement {
	body := simplify(st.Body)
	if st.Position != Endless {
		return &Loop{Cond: st.Cond, Body: body, Position: st.Position}
	}

	if cond, rest, ok := leadingBreakGuard(body); ok {
		return &Loop{Cond: cond, Body: rest, Position: PreTested}
	}
	if cond, rest, ok := trailingBreakGuard(body); ok {
		return &Loop{Cond: cond, Body: rest, Position: PostTested}
	}
	return &Loop{Body: body, Position: Endless}
}

// leadingBreakGuard recognizes a body that is exactly "if cond { break }"
// (continue in the else/fallthrough) or "if cond { ... } else { break }"
// (continue in the then), with nothing before or after it — the shape a
// structured while(cond) produces when its header block has no
// instructions of its own besides the test.
func leadingBreakGuard(body Statement) (Expression, Statement, bool) {
	ifElse, ok := body.(*IfElse)
	if !ok {
		return nil, nil, false
	}
	if IsBreak(ifElse.Then) && !isEmptyStatement(ifElse.Else) {
		return negate(ifElse.Cond), ifElse.Else, true
	}
	if IsBreak(ifElse.Else) && !isEmptyStatement(ifElse.Then) {
		return ifElse.Cond, ifElse.Then, true
	}
	return nil, nil, false
}

// trailingBreakGuard recognizes a body whose last statement is exactly
// "if cond { break }" (with no else) or "if cond {} else { break }", and
// nothing after it — the shape a structured do-while(cond) produces, where
// the continue condition is the negation of the break condition.
func trailingBreakGuard(body Statement) (Expression, Statement, bool) {
	seq, ok := body.(*Sequence)
	var rest []Statement
	var last Statement
	if ok {
		if len(seq.Stmts) == 0 {
			return nil, nil, false
		}
		last = seq.Stmts[len(seq.Stmts)-1]
		rest = seq.Stmts[:len(seq.Stmts)-1]
	} else {
		last = body
	}

	ifElse, ok := last.(*IfElse)
	if !ok {
		return nil, nil, false
	}
	if IsBreak(ifElse.Then) && isEmptyStatement(ifElse.Else) {
		return negate(ifElse.Cond), asStatement(rest), true
	}
	if IsBreak(ifElse.Else) && isEmptyStatement(ifElse.Then) {
		return ifElse.Cond, asStatement(rest), true
	}
	return nil, nil, false
}
