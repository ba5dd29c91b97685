// Package frame implements the frame and stack store (spec §3.3, §3.4,
// §4.2): the global frame, the at-most-one temporary frame, the stack of
// local frames, and the call stack and data stack.
package frame

import (
	"fmt"

	"github.com/dolthub/swiss"

	"ippcode23/lang/values"
	"ippcode23/lang/vmerrors"
)

// Scope identifies which of the three frame kinds a Ref addresses.
type Scope int

const (
	Global Scope = iota
	Local
	Temporary
)

func (s Scope) String() string {
	switch s {
	case Global:
		return "GF"
	case Local:
		return "LF"
	case Temporary:
		return "TF"
	default:
		return "?"
	}
}

// Ref is a structured variable reference: a frame selector and a name. This
// replaces the source representation's string-prefix convention (TF@x,
// LF@x) with a representation that never needs string surgery to relocate a
// variable between frames.
type Ref struct {
	Scope Scope
	Name  string
}

// frameTable is the name -> slot storage backing a single frame. Frame
// population is a hot path (read/written by nearly every instruction), so it
// is backed by a swiss-table hash map rather than Go's built-in map.
type frameTable struct {
	vars *swiss.Map[string, values.Value]
}

func newFrameTable() *frameTable {
	return &frameTable{vars: swiss.NewMap[string, values.Value](8)}
}

// Store owns the global frame, the at-most-one temporary frame, the stack of
// local frames, the call stack, and the data stack.
type Store struct {
	global *frameTable
	temp   *frameTable // nil when no TF exists (invariant L2)
	locals []*frameTable

	callStack []int
	dataStack []values.Value
}

// NewStore returns a Store with only the global frame in existence, as
// mandated at program start (spec §4.3).
func NewStore() *Store {
	return &Store{global: newFrameTable()}
}

func (s *Store) frameFor(scope Scope) (*frameTable, error) {
	switch scope {
	case Global:
		return s.global, nil
	case Temporary:
		if s.temp == nil {
			return nil, vmerrors.UndefinedFrame{Msg: "TF does not exist"}
		}
		return s.temp, nil
	case Local:
		if len(s.locals) == 0 {
			return nil, vmerrors.UndefinedFrame{Msg: "LF stack is empty"}
		}
		return s.locals[len(s.locals)-1], nil
	default:
		panic("frame: unknown scope")
	}
}

// Define declares ref in its addressed frame, initialising it to Undefined
// (spec §4.2 define). It fails with UndefinedFrame if the frame does not
// exist, and SemanticError if the name is already declared there.
func (s *Store) Define(ref Ref) error {
	ft, err := s.frameFor(ref.Scope)
	if err != nil {
		return err
	}
	if _, ok := ft.vars.Get(ref.Name); ok {
		return vmerrors.SemanticError{Msg: fmt.Sprintf("%s@%s is already defined", ref.Scope, ref.Name)}
	}
	ft.vars.Put(ref.Name, values.Undefined)
	return nil
}

// Read returns the current value stored at ref (possibly Undefined). It
// fails with UndefinedFrame or AccessUndefinedVariable.
func (s *Store) Read(ref Ref) (values.Value, error) {
	ft, err := s.frameFor(ref.Scope)
	if err != nil {
		return nil, err
	}
	v, ok := ft.vars.Get(ref.Name)
	if !ok {
		return nil, vmerrors.AccessUndefinedVariable{Msg: fmt.Sprintf("%s@%s", ref.Scope, ref.Name)}
	}
	return v, nil
}

// Write stores v at ref, which must already be declared.
func (s *Store) Write(ref Ref, v values.Value) error {
	ft, err := s.frameFor(ref.Scope)
	if err != nil {
		return err
	}
	if _, ok := ft.vars.Get(ref.Name); !ok {
		return vmerrors.AccessUndefinedVariable{Msg: fmt.Sprintf("%s@%s", ref.Scope, ref.Name)}
	}
	ft.vars.Put(ref.Name, v)
	return nil
}

// CreateTemporary (re)initialises the TF to an empty frame, discarding any
// previous contents (CREATEFRAME, spec §4.5).
func (s *Store) CreateTemporary() {
	s.temp = newFrameTable()
}

// PushFrame moves the TF onto the top of the LF stack; the TF ceases to
// exist afterwards (PUSHFRAME, spec §4.5).
func (s *Store) PushFrame() error {
	if s.temp == nil {
		return vmerrors.UndefinedFrame{Msg: "TF does not exist"}
	}
	s.locals = append(s.locals, s.temp)
	s.temp = nil
	return nil
}

// PopFrame pops the top LF into a fresh TF, replacing any previous TF
// contents (POPFRAME, spec §4.5).
func (s *Store) PopFrame() error {
	if len(s.locals) == 0 {
		return vmerrors.UndefinedFrame{Msg: "LF stack is empty"}
	}
	s.temp = s.locals[len(s.locals)-1]
	s.locals = s.locals[:len(s.locals)-1]
	return nil
}

// HasLocalFrame reports whether the LF stack is non-empty (invariant L1).
func (s *Store) HasLocalFrame() bool { return len(s.locals) > 0 }

// HasTemporaryFrame reports whether a TF currently exists (invariant L2).
func (s *Store) HasTemporaryFrame() bool { return s.temp != nil }

// LocalDepth returns the current depth of the LF stack, used by BREAK's
// diagnostic dump (spec §10.4).
func (s *Store) LocalDepth() int { return len(s.locals) }

// PushCall pushes a return address onto the call stack (CALL, spec §4.5).
func (s *Store) PushCall(addr int) {
	s.callStack = append(s.callStack, addr)
}

// PopCall pops the top return address off the call stack (RETURN, spec
// §4.5). It fails with MissingValue if the call stack is empty.
func (s *Store) PopCall() (int, error) {
	if len(s.callStack) == 0 {
		return 0, vmerrors.MissingValue{Msg: "call stack is empty"}
	}
	addr := s.callStack[len(s.callStack)-1]
	s.callStack = s.callStack[:len(s.callStack)-1]
	return addr, nil
}

// PushData pushes v onto the data stack (PUSHS, spec §4.5).
func (s *Store) PushData(v values.Value) {
	s.dataStack = append(s.dataStack, v)
}

// PopData pops the top value off the data stack (POPS, spec §4.5). It fails
// with MissingValue if the data stack is empty.
func (s *Store) PopData() (values.Value, error) {
	if len(s.dataStack) == 0 {
		return nil, vmerrors.MissingValue{Msg: "data stack is empty"}
	}
	v := s.dataStack[len(s.dataStack)-1]
	s.dataStack = s.dataStack[:len(s.dataStack)-1]
	return v, nil
}
