package program

import (
	"ippcode23/lang/frame"
	"ippcode23/lang/values"
)

// OperandKind is the resolved category of an Operand, mirroring the
// operand-kind distinctions of spec §3.2.
type OperandKind int

const (
	// KindVar addresses a frame slot; Operand.Ref is valid.
	KindVar OperandKind = iota
	// KindLabel names a label; Operand.Text is the label name.
	KindLabel
	// KindType is a literal type name ("int", "string", "bool");
	// Operand.Text holds it, normalised to lowercase.
	KindType
	// KindImmediate is a pre-parsed immediate value; Operand.Imm holds it.
	KindImmediate
)

// Operand is a fully resolved argument slot: parsing and frame-reference
// splitting happen once, here, at load time rather than on every execution
// of the owning instruction (spec §4.4).
type Operand struct {
	Kind OperandKind
	Ref  frame.Ref
	Text string
	Imm  values.Value
}

// Instruction is one normalised program instruction: its source order, its
// canonicalised (uppercase) opcode name, and its resolved argument slots,
// already sorted into declaration order (arg1, arg2, arg3).
type Instruction struct {
	Order  int
	Opcode string
	Args   []Operand
}

// Program is the loader's output: the ordered instruction vector and the
// label index built while scanning it (spec §3.5, §4.1).
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
}
