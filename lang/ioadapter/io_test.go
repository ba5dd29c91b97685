package ioadapter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ippcode23/lang/ioadapter"
	"ippcode23/lang/values"
)

func TestReadTypedInt(t *testing.T) {
	r := ioadapter.NewReader(strings.NewReader("42\nabc\n"))
	assert.Equal(t, values.Int(42), r.ReadTyped("int"))
	assert.Equal(t, values.Nil, r.ReadTyped("int"))
}

func TestReadTypedBool(t *testing.T) {
	r := ioadapter.NewReader(strings.NewReader("TRUE\nnope\n"))
	assert.Equal(t, values.True, r.ReadTyped("bool"))
	assert.Equal(t, values.False, r.ReadTyped("bool"))
}

func TestReadTypedStringEOF(t *testing.T) {
	r := ioadapter.NewReader(strings.NewReader("hello"))
	assert.Equal(t, "hello", r.ReadTyped("string").String())
	assert.Equal(t, values.Nil, r.ReadTyped("string"))
}

func TestWriteRendersWithoutNewline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := ioadapter.NewWriter(&stdout, &stderr)
	w.Write(values.Int(42))
	w.Write(values.NewStr("x"))
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "42x", stdout.String())
}

func TestDPrintAddsNewline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := ioadapter.NewWriter(&stdout, &stderr)
	w.DPrint(values.NewStr("oops"))
	assert.Equal(t, "oops\n", stderr.String())
}
