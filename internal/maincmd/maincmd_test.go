package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ippcode23/internal/maincmd"
)

func runCmd(t *testing.T, args []string, stdin string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := &maincmd.Cmd{}
	stdio := mainer.Stdio{Stdin: strings.NewReader(stdin), Stdout: &stdout, Stderr: &stderr}
	code := c.Main(append([]string{"ippvm"}, args...), stdio)
	return stdout.String(), stderr.String(), int(code)
}

func TestHelpPrintsUsage(t *testing.T) {
	stdout, _, code := runCmd(t, []string{"--help"}, "")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "usage:")
}

func TestMissingSourceAndInputFailsExit10(t *testing.T) {
	_, _, code := runCmd(t, nil, "")
	assert.Equal(t, 10, code)
}

func TestSourceFromFlagExecutesProgram(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.xml")
	require.NoError(t, os.WriteFile(src, []byte(`
<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@x</arg1></instruction>
  <instruction order="2" opcode="MOVE">
    <arg1 type="var">GF@x</arg1>
    <arg2 type="int">9</arg2>
  </instruction>
  <instruction order="3" opcode="WRITE"><arg1 type="var">GF@x</arg1></instruction>
</program>`), 0o600))

	stdout, _, code := runCmd(t, []string{"--source", src, "--input", src}, "")
	assert.Equal(t, 0, code)
	assert.Equal(t, "9", stdout)
}

func TestUnopenableSourceFailsExit11(t *testing.T) {
	_, _, code := runCmd(t, []string{"--source", "/no/such/file.xml", "--input", "/no/such/file.xml"}, "")
	assert.Equal(t, 11, code)
}

func TestBadStructureFailsExit32(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.xml")
	require.NoError(t, os.WriteFile(src, []byte(`<program language="IPPcode23"><instruction order="1" opcode="NOPE"/></program>`), 0o600))

	_, _, code := runCmd(t, []string{"--source", src, "--input", src}, "")
	assert.Equal(t, 32, code)
}
