package values

// NilType is the type of the Nil singleton. Represented as an empty struct
// type rather than a pointer so that Nil is a comparable, zero-size
// constant-like value.
type NilType struct{}

// Nil is the singleton Nil value.
var Nil = NilType{}

var _ Value = Nil

func (NilType) String() string { return "" }
func (NilType) Type() string   { return "nil" }
