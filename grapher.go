package restructure

import (
	"github.com/larchwood/restructure/arena"
	"github.com/larchwood/restructure/ir"
)

// GraphNode is one node of the AST graph overlay: a Statement together with
// the CFG entry block that first produced it and an exit block (equal to
// entry for raw blocks; distinct once a region has been folded into one
// node), per spec §3.
type GraphNode struct {
	Stmt  Statement
	Entry *ir.BasicBlock
	Exit  *ir.BasicBlock
}

// HasExit reports whether this node represents an already-folded SESE
// region, i.e. its exit is distinct from its entry.
func (n *GraphNode) HasExit() bool {
	return n.Exit != n.Entry
}

// AstGrapher is a mutable overlay on the CFG: it owns nodeStorage (a stable-
// address container of GraphNode, backed by arena.Arena), the entry-block to
// statement index, and the statement to GraphNode index (spec §3). No graph
// node is ever deleted; folding a region adds a new node that subsumes the
// entry block, overwriting the entry index so future queries land on the
// coarsest fold — mirroring original_source/x86Emulator/ast_grapher.cpp's
// AstGrapher::updateRegion exactly.
type AstGrapher struct {
	nodes       arena.Arena[GraphNode]
	seqArena    arena.Arena[Sequence]
	exprArena   arena.Arena[ExprStmt]
	byEntry     map[*ir.BasicBlock]Statement
	byStatement map[Statement]*GraphNode
}

// NewAstGrapher returns an empty grapher.
func NewAstGrapher() *AstGrapher {
	return &AstGrapher{
		byEntry:     make(map[*ir.BasicBlock]Statement),
		byStatement: make(map[Statement]*GraphNode),
	}
}

// AddBasicBlock builds a Sequence whose children are one ExprStmt per
// non-terminator instruction of bb, registers a new leaf GraphNode with
// entry == exit == bb, and returns its Statement. Idempotent: re-adding an
// already-registered block returns the existing Statement rather than
// building a new one.
func (g *AstGrapher) AddBasicBlock(bb *ir.BasicBlock) Statement {
	if existing, ok := g.byEntry[bb]; ok {
		return existing
	}

	stmts := make([]Statement, 0, len(bb.Instr))
	for _, inst := range bb.Instr {
		stmts = append(stmts, arena.Alloc(&g.exprArena, ExprStmt{X: inst.Result}))
	}
	seq := arena.Alloc(&g.seqArena, Sequence{Stmts: stmts})

	node := arena.Alloc(&g.nodes, GraphNode{Stmt: seq, Entry: bb, Exit: bb})
	g.byEntry[bb] = seq
	g.byStatement[seq] = node
	return seq
}

// UpdateRegion allocates a new GraphNode (newStmt, entry, exit) and updates
// both indices so entry now resolves to newStmt. The old node (if any)
// remains in nodeStorage but becomes unreachable from the indices.
func (g *AstGrapher) UpdateRegion(entry, exit *ir.BasicBlock, newStmt Statement) {
	node := arena.Alloc(&g.nodes, GraphNode{Stmt: newStmt, Entry: entry, Exit: exit})
	g.byEntry[entry] = newStmt
	g.byStatement[newStmt] = node
}

// GraphNodeFromEntry returns the GraphNode currently registered at bb's
// entry index, i.e. the coarsest fold that subsumes bb.
func (g *AstGrapher) GraphNodeFromEntry(bb *ir.BasicBlock) (*GraphNode, bool) {
	stmt, ok := g.byEntry[bb]
	if !ok {
		return nil, false
	}
	return g.GraphNode(stmt)
}

// GraphNode returns the GraphNode that produced stmt.
func (g *AstGrapher) GraphNode(stmt Statement) (*GraphNode, bool) {
	n, ok := g.byStatement[stmt]
	return n, ok
}

// BlockAtEntry returns the entry block of the GraphNode that produced stmt.
func (g *AstGrapher) BlockAtEntry(stmt Statement) (*ir.BasicBlock, bool) {
	n, ok := g.GraphNode(stmt)
	if !ok {
		return nil, false
	}
	return n.Entry, true
}

// BlockAtExit returns the exit block of the GraphNode that produced stmt.
func (g *AstGrapher) BlockAtExit(stmt Statement) (*ir.BasicBlock, bool) {
	n, ok := g.GraphNode(stmt)
	if !ok {
		return nil, false
	}
	return n.Exit, true
}

// Children returns the successor GraphNodes of n: if n.HasExit(), the
// unique successor is the node currently registered at n.Exit's entry index;
// otherwise the successors are the nodes registered at each of n.Entry's CFG
// successors, per spec §4.1.
func (g *AstGrapher) Children(n *GraphNode) []*GraphNode {
	if n.HasExit() {
		if child, ok := g.GraphNodeFromEntry(n.Exit); ok {
			return []*GraphNode{child}
		}
		return nil
	}
	succs := n.Entry.Successors()
	children := make([]*GraphNode, 0, len(succs))
	for _, s := range succs {
		if child, ok := g.GraphNodeFromEntry(s); ok {
			children = append(children, child)
		}
	}
	return children
}
