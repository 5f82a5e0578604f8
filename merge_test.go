package restructure

import "testing"

func TestAppendGuardedNoGuardAppendsDirectly(t *testing.T) {
	exprs := newExprArenas()
	a := &ExprStmt{}
	got := appendGuarded(exprs, nil, nil, a)
	if len(got) != 1 || got[0] != a {
		t.Fatalf("appendGuarded(nil guard) = %v, want [a]", got)
	}
}

func TestAppendGuardedOpensNewIfElse(t *testing.T) {
	exprs := newExprArenas()
	a := &ExprStmt{}
	c := Expression(&Value{})

	got := appendGuarded(exprs, nil, c, a)
	if len(got) != 1 {
		t.Fatalf("appendGuarded = %v, want a single IfElse", got)
	}
	ifElse, ok := got[0].(*IfElse)
	if !ok {
		t.Fatalf("got[0] = %T, want *IfElse", got[0])
	}
	if !IsReferenceEqual(ifElse.Cond, c) {
		t.Errorf("ifElse.Cond not reference-equal to c")
	}
	if ifElse.Then != Statement(a) {
		t.Errorf("ifElse.Then = %v, want a", ifElse.Then)
	}
}

func TestAppendGuardedMergesSharedPrefixIntoThen(t *testing.T) {
	exprs := newExprArenas()
	a := &ExprStmt{}
	b := &ExprStmt{}
	c := Expression(&Value{})

	built := appendGuarded(exprs, nil, c, a)
	built = appendGuarded(exprs, built, c, b)

	if len(built) != 1 {
		t.Fatalf("built = %v, want a single merged IfElse", built)
	}
	ifElse := built[0].(*IfElse)
	seq, ok := ifElse.Then.(*Sequence)
	if !ok || len(seq.Stmts) != 2 {
		t.Fatalf("ifElse.Then = %v, want a 2-element Sequence[a, b]", ifElse.Then)
	}
	if seq.Stmts[0] != Statement(a) || seq.Stmts[1] != Statement(b) {
		t.Errorf("ifElse.Then.Stmts = %v, want [a, b]", seq.Stmts)
	}
}

func TestAppendGuardedMergesNegationIntoElse(t *testing.T) {
	exprs := newExprArenas()
	a := &ExprStmt{}
	b := &ExprStmt{}
	c := Expression(&Value{})
	notC := Expression(&UnaryNot{X: c})

	built := appendGuarded(exprs, nil, c, a)
	built = appendGuarded(exprs, built, notC, b)

	if len(built) != 1 {
		t.Fatalf("built = %v, want the same IfElse mutated in place", built)
	}
	ifElse := built[0].(*IfElse)
	if ifElse.Then != Statement(a) {
		t.Errorf("ifElse.Then = %v, want a unchanged", ifElse.Then)
	}
	if ifElse.Else != Statement(b) {
		t.Errorf("ifElse.Else = %v, want b", ifElse.Else)
	}
}

func TestAppendGuardedUnrelatedGuardNests(t *testing.T) {
	exprs := newExprArenas()
	a := &ExprStmt{}
	b := &ExprStmt{}
	c := Expression(&Value{})
	d := Expression(&Value{})

	built := appendGuarded(exprs, nil, c, a)
	built = appendGuarded(exprs, built, d, b)

	if len(built) != 2 {
		t.Fatalf("built = %v, want two independent top-level IfElse statements", built)
	}
	first := built[0].(*IfElse)
	second := built[1].(*IfElse)
	if !IsReferenceEqual(first.Cond, c) || !IsReferenceEqual(second.Cond, d) {
		t.Errorf("unrelated guards should not merge: %v", built)
	}
}

func TestAsStatementCollapsesSingleton(t *testing.T) {
	a := &ExprStmt{}
	if asStatement([]Statement{a}) != Statement(a) {
		t.Error("asStatement([a]) should return a directly, not wrap it")
	}
	if _, ok := asStatement(nil).(*Sequence); !ok {
		t.Error("asStatement(nil) should return an empty *Sequence")
	}
	if _, ok := asStatement([]Statement{a, a}).(*Sequence); !ok {
		t.Error("asStatement of 2+ elements should return a *Sequence")
	}
}
