// Package cfgfile loads a *ir.Function from a small YAML fixture format, so
// the structuring core can be exercised end to end without a real
// machine-code lifter wired in front of it. It is intentionally the
// plainest possible document shape: a list of blocks, each naming its
// instructions and how it ends.
package cfgfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/larchwood/restructure/ir"
)

// Document is the top-level YAML shape: a function name and its blocks.
type Document struct {
	Function string  `yaml:"function"`
	Blocks   []Block `yaml:"blocks"`
}

// Block is one basic block: a name, an ordered list of opaque instruction
// names, and exactly one of the Term fields.
type Block struct {
	Name   string   `yaml:"name"`
	Instrs []string `yaml:"instrs,omitempty"`
	Term   Term     `yaml:"term"`
}

// Term is a terminator, tagged by which field is set. Exactly one of Jump,
// Cond or Return must be present.
type Term struct {
	Jump   string    `yaml:"jump,omitempty"`
	Cond   *CondTerm `yaml:"cond,omitempty"`
	Return bool      `yaml:"return,omitempty"`
}

// CondTerm is a 2-way conditional terminator: branch to Then when Value is
// true, to Else otherwise.
type CondTerm struct {
	Value string `yaml:"value"`
	Then  string `yaml:"then"`
	Else  string `yaml:"else"`
}

// Load reads and parses a Document from path, then builds it into an
// *ir.Function.
func Load(path string) (*ir.Function, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cfgfile: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a Document from r and builds it into an *ir.Function.
func Decode(r io.Reader) (*ir.Function, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cfgfile: decode: %w", err)
	}
	return Build(&doc)
}

// Build converts a parsed Document into an *ir.Function, resolving each
// block's jump/then/else names against the document's own block names.
func Build(doc *Document) (*ir.Function, error) {
	blocks := make(map[string]*ir.BasicBlock, len(doc.Blocks))
	order := make([]*ir.BasicBlock, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if _, ok := blocks[b.Name]; ok {
			return nil, fmt.Errorf("cfgfile: duplicate block %q", b.Name)
		}
		bb := &ir.BasicBlock{Name: b.Name}
		for _, name := range b.Instrs {
			bb.Instr = append(bb.Instr, ir.Instruction{Result: ir.Name(name)})
		}
		blocks[b.Name] = bb
		order = append(order, bb)
	}

	resolve := func(name string) (*ir.BasicBlock, error) {
		if name == "" {
			return nil, nil
		}
		bb, ok := blocks[name]
		if !ok {
			return nil, fmt.Errorf("cfgfile: unknown block %q", name)
		}
		return bb, nil
	}

	for i, b := range doc.Blocks {
		bb := order[i]
		switch {
		case b.Term.Return:
			bb.Term = &ir.Return{}
		case b.Term.Cond != nil:
			then, err := resolve(b.Term.Cond.Then)
			if err != nil {
				return nil, err
			}
			els, err := resolve(b.Term.Cond.Else)
			if err != nil {
				return nil, err
			}
			bb.Term = &ir.CondBranch{
				Cond: ir.Name(b.Term.Cond.Value),
				Then: then,
				Else: els,
			}
		case b.Term.Jump != "":
			target, err := resolve(b.Term.Jump)
			if err != nil {
				return nil, err
			}
			bb.Term = &ir.Jump{Target: target}
		default:
			return nil, fmt.Errorf("cfgfile: block %q has no terminator", b.Name)
		}
	}

	if len(order) == 0 {
		return &ir.Function{Name: doc.Function}, nil
	}
	return &ir.Function{Name: doc.Function, Entry: order[0], Blocks: order}, nil
}
