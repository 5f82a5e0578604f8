package loopinfo

import (
	"testing"

	"github.com/larchwood/restructure/dominator"
	"github.com/larchwood/restructure/graph"
)

// buildSelfLoop builds a do-while shape: A -> B -> A, B -> C.
func buildSelfLoop() *graph.Graph[string] {
	g := graph.New[string]()
	a, b, c := g.Node("A"), g.Node("B"), g.Node("C")
	g.SetRoot(a)
	g.SetEdge(a, b)
	g.SetEdge(b, a)
	g.SetEdge(b, c)
	return g
}

func TestIsLoopHeader(t *testing.T) {
	g := buildSelfLoop()
	dom := dominator.New(g)
	info := Compute(g, dom.Dominates)

	if !info.IsLoopHeader("A") {
		t.Errorf("A should be a loop header (target of back edge B->A)")
	}
	if info.IsLoopHeader("B") {
		t.Errorf("B should not be a loop header")
	}
	if info.IsLoopHeader("C") {
		t.Errorf("C should not be a loop header")
	}
}

func TestGetLoopFor(t *testing.T) {
	g := buildSelfLoop()
	dom := dominator.New(g)
	info := Compute(g, dom.Dominates)

	members := info.GetLoopFor("A")
	want := map[string]bool{"A": true, "B": true}
	if len(members) != len(want) {
		t.Fatalf("GetLoopFor(A) = %v, want members %v", members, want)
	}
	for _, m := range members {
		if !want[m] {
			t.Errorf("unexpected loop member %v", m)
		}
	}
	if info.Contains("A", "C") {
		t.Errorf("C should not belong to the loop headed by A")
	}
}

func TestNoLoop(t *testing.T) {
	g := graph.New[string]()
	a, b := g.Node("A"), g.Node("B")
	g.SetRoot(a)
	g.SetEdge(a, b)
	dom := dominator.New(g)
	info := Compute(g, dom.Dominates)
	if info.IsLoopHeader("A") || info.IsLoopHeader("B") {
		t.Errorf("acyclic graph should have no loop headers")
	}
	if info.GetLoopFor("A") != nil {
		t.Errorf("GetLoopFor(A) = %v, want nil", info.GetLoopFor("A"))
	}
}
