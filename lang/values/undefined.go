package values

// UndefinedType is the marker held by a variable slot that has been declared
// (DEFVAR) but never written. Reading it is a runtime error for most opcodes
// (spec invariant L4); TYPE is the one opcode that tolerates it, writing the
// empty string.
type UndefinedType struct{}

// Undefined is the singleton Undefined marker.
var Undefined = UndefinedType{}

var _ Value = Undefined

func (UndefinedType) String() string { return "" }
func (UndefinedType) Type() string   { return "" }
