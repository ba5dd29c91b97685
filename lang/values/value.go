// Package values implements the runtime value model of the interpreter: a
// tagged union over Int, Bool, Str, Nil and Undefined (spec §3.1).
package values

// Value is the interface implemented by every concrete runtime value,
// including the Undefined marker held by a declared-but-unassigned slot. A
// data-stack entry is always a Value other than Undefined.
type Value interface {
	// String renders the value the way WRITE/DPRINT would (see Render),
	// except Undefined, which has no defined rendering.
	String() string

	// Type is the name used by the TYPE opcode: "int", "bool", "string",
	// "nil", or "" for Undefined.
	Type() string
}

// Ordered is implemented by value types that support relational comparison
// (LT/GT/EQ, §4.5). Nil deliberately does not implement Ordered: it may only
// be compared with EQ/JUMPIFEQ/JUMPIFNEQ, handled separately.
type Ordered interface {
	Value
	// Cmp compares the receiver to v, which is guaranteed by the caller to be
	// of the same concrete type. It returns a negative number, zero, or a
	// positive number as the receiver is less than, equal to, or greater
	// than v.
	Cmp(v Value) int
}

// SameType reports whether a and b share a concrete value type. Undefined is
// never considered to share a type with anything, including itself.
func SameType(a, b Value) bool {
	if _, ok := a.(UndefinedType); ok {
		return false
	}
	if _, ok := b.(UndefinedType); ok {
		return false
	}
	return a.Type() == b.Type()
}

// IsNil reports whether v is the Nil singleton.
func IsNil(v Value) bool {
	_, ok := v.(NilType)
	return ok
}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v Value) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// Render renders v the way WRITE and DPRINT do: Bool as true/false, Nil as
// the empty string, Int in decimal, Str literally. It mirrors the
// stringification table in original_source/interpret_A.py's WRITE handler.
func Render(v Value) string {
	return v.String()
}
