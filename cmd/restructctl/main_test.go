package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
function: sample
blocks:
  - name: A
    instrs: [a1]
    term:
      cond: {value: cond, then: B, else: C}
  - name: B
    instrs: [b1]
    term: {jump: J}
  - name: C
    instrs: [c1]
    term: {jump: J}
  - name: J
    instrs: [j1]
    term: {return: true}
`

func TestStructureCommandPrintsStructuredOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"structure", path})

	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "func sample:")
	assert.Contains(t, got, "if cond {")
	assert.Contains(t, got, "b1")
	assert.Contains(t, got, "c1")
	assert.Contains(t, got, "j1")
}

func TestStructureCommandRequiresOneArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"structure"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	require.Error(t, cmd.Execute())
}

func TestStructureCommandErrorsOnMissingFixture(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"structure", filepath.Join(t.TempDir(), "missing.yaml")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	require.Error(t, cmd.Execute())
}
