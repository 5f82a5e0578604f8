package cfgfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larchwood/restructure/ir"
)

const ifElseDoc = `
function: sample
blocks:
  - name: A
    instrs: [a1]
    term:
      cond: {value: c1, then: B, else: C}
  - name: B
    instrs: [b1]
    term: {jump: J}
  - name: C
    instrs: [c1]
    term: {jump: J}
  - name: J
    term: {return: true}
`

func TestDecodeIfElse(t *testing.T) {
	fn, err := Decode(strings.NewReader(ifElseDoc))
	require.NoError(t, err)

	require.Len(t, fn.Blocks, 4)
	assert.Equal(t, "A", fn.Entry.Name)

	a := fn.Blocks[0]
	require.Len(t, a.Instr, 1)
	assert.Equal(t, "a1", a.Instr[0].Result.String())

	cond, ok := a.Term.(*ir.CondBranch)
	require.True(t, ok)
	assert.Equal(t, "c1", cond.Cond.String())
	assert.Equal(t, "B", cond.Then.Name)
	assert.Equal(t, "C", cond.Else.Name)
}

func TestDecodeUnknownBlockErrors(t *testing.T) {
	doc := `
function: bad
blocks:
  - name: A
    term: {jump: Nowhere}
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown block")
}

func TestDecodeDuplicateBlockErrors(t *testing.T) {
	doc := `
function: bad
blocks:
  - name: A
    term: {return: true}
  - name: A
    term: {return: true}
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestDecodeEmptyFunction(t *testing.T) {
	fn, err := Decode(strings.NewReader("function: empty\nblocks: []\n"))
	require.NoError(t, err)
	assert.True(t, fn.Empty())
}

func TestDecodeMissingTerminatorErrors(t *testing.T) {
	doc := `
function: bad
blocks:
  - name: A
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminator")
}
