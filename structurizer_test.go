package restructure

import (
	"testing"

	"github.com/larchwood/restructure/ir"
)

func block(name string, instrs ...string) *ir.BasicBlock {
	bb := &ir.BasicBlock{Name: name}
	for _, s := range instrs {
		bb.Instr = append(bb.Instr, ir.Instruction{Result: ir.Name(s)})
	}
	return bb
}

func fn(entry *ir.BasicBlock, blocks ...*ir.BasicBlock) *ir.Function {
	return &ir.Function{Name: "f", Entry: entry, Blocks: blocks}
}

// names collects every ExprStmt's instruction name reachable from s, in a
// left-to-right (Then-before-Else, body-before-rest) traversal order,
// skipping Break.
func names(s Statement) []string {
	var out []string
	var walk func(Statement)
	walk = func(s Statement) {
		switch st := s.(type) {
		case nil, *breakStmt:
			return
		case *ExprStmt:
			out = append(out, st.X.String())
		case *Sequence:
			for _, c := range st.Stmts {
				walk(c)
			}
		case *IfElse:
			walk(st.Then)
			walk(st.Else)
		case *Loop:
			walk(st.Body)
		}
	}
	walk(s)
	return out
}

func findIfElse(s Statement) *IfElse {
	var found *IfElse
	var walk func(Statement)
	walk = func(s Statement) {
		if found != nil {
			return
		}
		switch st := s.(type) {
		case *IfElse:
			found = st
		case *Sequence:
			for _, c := range st.Stmts {
				walk(c)
			}
		case *Loop:
			walk(st.Body)
		}
	}
	walk(s)
	return found
}

func findLoop(s Statement) *Loop {
	var found *Loop
	var walk func(Statement)
	walk = func(s Statement) {
		if found != nil {
			return
		}
		switch st := s.(type) {
		case *Loop:
			found = st
		case *Sequence:
			for _, c := range st.Stmts {
				walk(c)
			}
		case *IfElse:
			walk(st.Then)
			walk(st.Else)
		}
	}
	walk(s)
	return found
}

func condName(e Expression) string {
	switch x := e.(type) {
	case *Value:
		return x.V.String()
	case *UnaryNot:
		return "!" + condName(x.X)
	default:
		return ""
	}
}

func TestStructureStraightLine(t *testing.T) {
	a := block("A", "a1")
	b := block("B", "b1")
	a.Term = &ir.Jump{Target: b}
	b.Term = &ir.Return{}

	stmt, err := Structure(fn(a, a, b))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	got := names(stmt)
	want := []string{"a1", "b1"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestStructureIfElse(t *testing.T) {
	a := block("A", "a1")
	b := block("B", "b1")
	c := block("C", "c1")
	j := block("J", "j1")
	a.Term = &ir.CondBranch{Cond: ir.Name("cond"), Then: b, Else: c}
	b.Term = &ir.Jump{Target: j}
	c.Term = &ir.Jump{Target: j}
	j.Term = &ir.Return{}

	stmt, err := Structure(fn(a, a, b, c, j))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	all := names(stmt)
	wantAll := map[string]bool{"a1": true, "b1": true, "c1": true, "j1": true}
	if len(all) != len(wantAll) {
		t.Fatalf("names = %v, want all of %v", all, wantAll)
	}
	for _, n := range all {
		if !wantAll[n] {
			t.Errorf("unexpected name %q in output", n)
		}
	}

	ifElse := findIfElse(stmt)
	if ifElse == nil {
		t.Fatalf("no IfElse found in %s", Sprint(stmt))
	}
	if condName(ifElse.Cond) != "cond" {
		t.Errorf("IfElse.Cond = %s, want cond", condName(ifElse.Cond))
	}
	thenNames := names(ifElse.Then)
	elseNames := names(ifElse.Else)
	if len(thenNames) != 1 || thenNames[0] != "b1" {
		t.Errorf("Then names = %v, want [b1]", thenNames)
	}
	if len(elseNames) != 1 || elseNames[0] != "c1" {
		t.Errorf("Else names = %v, want [c1]", elseNames)
	}
}

func TestStructureIfThenNoElse(t *testing.T) {
	a := block("A", "a1")
	b := block("B", "b1")
	j := block("J", "j1")
	a.Term = &ir.CondBranch{Cond: ir.Name("cond"), Then: b, Else: j}
	b.Term = &ir.Jump{Target: j}
	j.Term = &ir.Return{}

	stmt, err := Structure(fn(a, a, b, j))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	ifElse := findIfElse(stmt)
	if ifElse == nil {
		t.Fatalf("no IfElse found in %s", Sprint(stmt))
	}
	thenNames := names(ifElse.Then)
	if len(thenNames) != 1 || thenNames[0] != "b1" {
		t.Errorf("Then names = %v, want [b1]", thenNames)
	}
	if ifElse.Else != nil {
		t.Errorf("Else = %v, want nil", Sprint(ifElse.Else))
	}
}

func TestStructureNestedIfSharedGuard(t *testing.T) {
	a := block("A", "a1")
	b := block("B", "b1")
	c := block("C", "c1")
	j := block("J", "j1")
	a.Term = &ir.CondBranch{Cond: ir.Name("c1cond"), Then: b, Else: j}
	b.Term = &ir.CondBranch{Cond: ir.Name("c2cond"), Then: c, Else: j}
	c.Term = &ir.Jump{Target: j}
	j.Term = &ir.Return{}

	stmt, err := Structure(fn(a, a, b, c, j))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	outer := findIfElse(stmt)
	if outer == nil {
		t.Fatalf("no outer IfElse found in %s", Sprint(stmt))
	}
	if condName(outer.Cond) != "c1cond" {
		t.Errorf("outer Cond = %s, want c1cond", condName(outer.Cond))
	}
	// B's own instructions run unconditionally once c1cond holds; C's are
	// gated behind the nested c2cond guard.
	thenNames := names(outer.Then)
	if len(thenNames) != 2 || thenNames[0] != "b1" || thenNames[1] != "c1" {
		t.Fatalf("outer.Then names = %v, want [b1 c1]", thenNames)
	}

	inner := findIfElse(outer.Then)
	if inner == nil {
		t.Fatalf("no nested IfElse found in %s", Sprint(outer.Then))
	}
	if condName(inner.Cond) != "c2cond" {
		t.Errorf("inner Cond = %s, want c2cond", condName(inner.Cond))
	}
	innerThenNames := names(inner.Then)
	if len(innerThenNames) != 1 || innerThenNames[0] != "c1" {
		t.Errorf("inner.Then names = %v, want [c1]", innerThenNames)
	}
}

func TestStructureDoWhile(t *testing.T) {
	a := block("A", "a1")
	j := block("J", "j1")
	a.Term = &ir.CondBranch{Cond: ir.Name("again"), Then: a, Else: j}
	j.Term = &ir.Return{}

	stmt, err := Structure(fn(a, a, j))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	loop := findLoop(stmt)
	if loop == nil {
		t.Fatalf("no Loop found in %s", Sprint(stmt))
	}
	if loop.Position != PostTested {
		t.Errorf("loop.Position = %v, want post-tested", loop.Position)
	}
	if condName(loop.Cond) != "again" {
		t.Errorf("loop.Cond = %s, want again", condName(loop.Cond))
	}
	bodyNames := names(loop.Body)
	if len(bodyNames) != 1 || bodyNames[0] != "a1" {
		t.Errorf("loop body names = %v, want [a1]", bodyNames)
	}

	all := names(stmt)
	if len(all) != 2 || all[0] != "a1" || all[1] != "j1" {
		t.Fatalf("names = %v, want [a1 j1]", all)
	}
}

func TestStructureEndlessWithBreak(t *testing.T) {
	h := block("H")
	m := block("M", "m1")
	n := block("N", "n1")
	x := block("X", "x1")
	h.Term = &ir.Jump{Target: m}
	m.Term = &ir.CondBranch{Cond: ir.Name("stop"), Then: x, Else: n}
	n.Term = &ir.Jump{Target: h}
	x.Term = &ir.Return{}

	stmt, err := Structure(fn(h, h, m, n, x))
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	loop := findLoop(stmt)
	if loop == nil {
		t.Fatalf("no Loop found in %s", Sprint(stmt))
	}
	if loop.Position != Endless {
		t.Errorf("loop.Position = %v, want endless", loop.Position)
	}

	bodyNames := names(loop.Body)
	wantNames := map[string]bool{"m1": true, "n1": true}
	if len(bodyNames) != len(wantNames) {
		t.Fatalf("loop body names = %v, want %v", bodyNames, wantNames)
	}

	var sawBreak bool
	var walk func(Statement)
	walk = func(s Statement) {
		switch st := s.(type) {
		case *breakStmt:
			sawBreak = true
		case *Sequence:
			for _, c := range st.Stmts {
				walk(c)
			}
		case *IfElse:
			walk(st.Then)
			walk(st.Else)
		}
	}
	walk(loop.Body)
	if !sawBreak {
		t.Errorf("no Break found in loop body %s", Sprint(loop.Body))
	}

	all := names(stmt)
	if len(all) != 3 || !(contains(all, "m1") && contains(all, "n1") && contains(all, "x1")) {
		t.Fatalf("names = %v, want m1,n1,x1", all)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func TestStructureEmptyFunction(t *testing.T) {
	stmt, err := Structure(&ir.Function{})
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if len(names(stmt)) != 0 {
		t.Errorf("names = %v, want none", names(stmt))
	}
}
