// Package ir defines the minimal low-level, branch-oriented intermediate
// representation the structuring core consumes. It stands in for the
// machine-code lifter's output surface (spec §6, "Consumed from the
// lifter/analysis layer"): enough shape to see basic blocks, instructions and
// branch terminators, with no instruction semantics of its own.
package ir

// Value is an opaque handle to an IR value, such as a branch condition.
// The structuring core never inspects a Value's contents; it only compares
// Values by identity (the == the Go comparison it is given).
type Value interface {
	String() string
}

// Name is the simplest Value: an opaque symbolic name, sufficient for
// fixtures and tests where no real lifter is available.
type Name string

func (n Name) String() string { return string(n) }

// Instruction is a single non-terminator instruction of a basic block.
type Instruction struct {
	Result Value
}

// Terminator is the tagged union of basic block terminators this core
// understands: unconditional jump, 2-way conditional branch, and return.
// Any other terminator is an unsupported-terminator error (spec §7).
type Terminator interface {
	isTerminator()
	Successors() []*BasicBlock
}

// Jump is an unconditional branch to a single successor.
type Jump struct {
	Target *BasicBlock
}

func (*Jump) isTerminator()             {}
func (j *Jump) Successors() []*BasicBlock { return []*BasicBlock{j.Target} }

// CondBranch is a 2-way conditional branch. Successor 0 is taken when Cond
// is true, successor 1 otherwise.
type CondBranch struct {
	Cond    Value
	Then    *BasicBlock
	Else    *BasicBlock
}

func (*CondBranch) isTerminator() {}
func (c *CondBranch) Successors() []*BasicBlock {
	return []*BasicBlock{c.Then, c.Else}
}

// IsConditional reports whether the branch depends on a condition. CondBranch
// is always conditional; it exists as a method so callers matching spec §6's
// BranchInstruction.isConditional contract can call it uniformly.
func (c *CondBranch) IsConditional() bool { return true }

// GetCondition returns the branch's condition value.
func (c *CondBranch) GetCondition() Value { return c.Cond }

// GetSuccessor returns successor i (0 = Then, 1 = Else).
func (c *CondBranch) GetSuccessor(i int) *BasicBlock {
	if i == 0 {
		return c.Then
	}
	return c.Else
}

// Return is a function exit with no successors.
type Return struct{}

func (*Return) isTerminator()               {}
func (*Return) Successors() []*BasicBlock { return nil }

// BasicBlock is a maximal straight-line instruction sequence ending in a
// single Terminator.
type BasicBlock struct {
	Name  string
	Instr []Instruction
	Term  Terminator
}

// Successors returns the blocks this block's terminator may transfer to.
func (bb *BasicBlock) Successors() []*BasicBlock {
	if bb.Term == nil {
		return nil
	}
	return bb.Term.Successors()
}

func (bb *BasicBlock) String() string {
	if bb == nil {
		return "<nil>"
	}
	return bb.Name
}

// Function is a single function's basic blocks with a designated entry.
type Function struct {
	Name    string
	Entry   *BasicBlock
	Blocks  []*BasicBlock
}

// Predecessors returns, for every block, the blocks with an edge into it.
// Computed on demand; the structuring core caches what it needs in
// graph.Graph rather than calling this repeatedly.
func (f *Function) Predecessors() map[*BasicBlock][]*BasicBlock {
	preds := make(map[*BasicBlock][]*BasicBlock, len(f.Blocks))
	for _, bb := range f.Blocks {
		for _, succ := range bb.Successors() {
			preds[succ] = append(preds[succ], bb)
		}
	}
	return preds
}

// Empty reports whether the function has no basic blocks, the "empty
// function" boundary case of spec §7/§8 (not an error — returns a null AST).
func (f *Function) Empty() bool {
	return f == nil || len(f.Blocks) == 0
}
