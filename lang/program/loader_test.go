package program_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ippcode23/lang/frame"
	"ippcode23/lang/program"
	"ippcode23/lang/vmerrors"
)

func mustValidate(t *testing.T, xml string) *program.Program {
	t.Helper()
	doc, err := program.Parse(strings.NewReader(xml))
	require.NoError(t, err)
	prog, err := program.Validate(doc)
	require.NoError(t, err)
	return prog
}

func TestEmptyDocumentIsNoOp(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, doc)

	prog, err := program.Validate(doc)
	require.NoError(t, err)
	assert.Empty(t, prog.Instructions)
}

func TestRootOnlyIsNoOp(t *testing.T) {
	prog := mustValidate(t, `<program language="IPPcode23"/>`)
	assert.Empty(t, prog.Instructions)
}

func TestWrongLanguageFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`<program language="other"/>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestMalformedXMLFailsBadDocument(t *testing.T) {
	_, err := program.Parse(strings.NewReader(`<program language="IPPcode23">`))
	require.Error(t, err)
	assert.Equal(t, 31, vmerrors.ExitCode(err))
}

func TestSortsByOrderAndResolvesOperands(t *testing.T) {
	prog := mustValidate(t, `
<program language="IPPcode23">
  <instruction order="2" opcode="WRITE"><arg1 type="var">GF@x</arg1></instruction>
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@x</arg1></instruction>
</program>`)

	require.Len(t, prog.Instructions, 2)
	assert.Equal(t, "DEFVAR", prog.Instructions[0].Opcode)
	assert.Equal(t, "WRITE", prog.Instructions[1].Opcode)
	assert.Equal(t, frame.Ref{Scope: frame.Global, Name: "x"}, prog.Instructions[0].Args[0].Ref)
}

func TestDuplicateOrderFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="BREAK"/>
  <instruction order="1" opcode="BREAK"/>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestUnknownOpcodeFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="FROBNICATE"/>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestWrongArityFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="ADD">
    <arg1 type="var">GF@x</arg1>
    <arg2 type="int">1</arg2>
  </instruction>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestUnexpectedRootChildFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <foo/>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestUnexpectedArgChildFails(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="WRITE">
    <arg1 type="string">hi</arg1>
    <arg9 type="string">stray</arg9>
  </instruction>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 32, vmerrors.ExitCode(err))
}

func TestDuplicateLabelFailsSemanticError(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="LABEL"><arg1 type="label">L</arg1></instruction>
  <instruction order="2" opcode="JUMP"><arg1 type="label">L</arg1></instruction>
  <instruction order="3" opcode="LABEL"><arg1 type="label">L</arg1></instruction>
</program>`))
	require.NoError(t, err)
	_, err = program.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 52, vmerrors.ExitCode(err))
}

func TestSymbAcceptsVarOrImmediate(t *testing.T) {
	prog := mustValidate(t, `
<program language="IPPcode23">
  <instruction order="1" opcode="PUSHS"><arg1 type="int">42</arg1></instruction>
  <instruction order="2" opcode="PUSHS"><arg1 type="var">GF@x</arg1></instruction>
</program>`)

	assert.Equal(t, program.KindImmediate, prog.Instructions[0].Args[0].Kind)
	assert.Equal(t, program.KindVar, prog.Instructions[1].Args[0].Kind)
}

func TestReadRequiresTypeSlot(t *testing.T) {
	doc, err := program.Parse(strings.NewReader(`
<program language="IPPcode23">
  <instruction order="1" opcode="READ">
    <arg1 type="var">GF@x</arg1>
    <arg2 type="type">int</arg2>
  </instruction>
</program>`))
	require.NoError(t, err)
	prog, err := program.Validate(doc)
	require.NoError(t, err)
	assert.Equal(t, "int", prog.Instructions[0].Args[1].Text)
}
