// Package ioadapter implements the line-oriented input reader with typed
// coercion for READ, and the formatted writers for WRITE/DPRINT/BREAK
// (spec §4.5, component 5).
package ioadapter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ippcode23/lang/values"
)

// Reader wraps the single input byte stream READ consumes from.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r for line-oriented reads.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadTyped reads one line, strips a trailing newline, and coerces it to
// the requested type (spec §4.5 READ). At end-of-file with no content, or
// on a coercion failure for "int", it returns values.Nil rather than an
// error: READ never fails the run, per the reference semantics this
// behavior is grounded on (original_source/interpret_A.py).
func (r *Reader) ReadTyped(typ string) values.Value {
	line, err := r.br.ReadString('\n')
	if err != nil && line == "" {
		return values.Nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch typ {
	case "int":
		n, err := values.ParseInt(line)
		if err != nil {
			return values.Nil
		}
		return n
	case "bool":
		return values.Bool(strings.EqualFold(line, "true"))
	case "string":
		return values.NewStr(line)
	default:
		return values.Nil
	}
}

// Writer wraps the output sinks WRITE, DPRINT, and BREAK write to.
type Writer struct {
	stdout *bufio.Writer
	stderr io.Writer
}

// NewWriter buffers stdout (the hot path, written on every WRITE) and
// writes stderr (BREAK/DPRINT, comparatively rare) directly.
func NewWriter(stdout, stderr io.Writer) *Writer {
	return &Writer{stdout: bufio.NewWriter(stdout), stderr: stderr}
}

// Write prints v to standard output without a trailing newline (spec §4.5
// WRITE).
func (w *Writer) Write(v values.Value) {
	fmt.Fprint(w.stdout, values.Render(v))
}

// DPrint prints v to standard error with a trailing newline (spec §4.5
// DPRINT).
func (w *Writer) DPrint(v values.Value) {
	fmt.Fprintln(w.stderr, values.Render(v))
}

// Break writes an implementation-defined diagnostic line to standard error
// (spec §4.5 BREAK, §10.4).
func (w *Writer) Break(msg string) {
	fmt.Fprintln(w.stderr, msg)
}

// Flush releases any buffered standard output. Callers must invoke this on
// every exit path (spec §5).
func (w *Writer) Flush() error {
	return w.stdout.Flush()
}
