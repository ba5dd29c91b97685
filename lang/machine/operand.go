package machine

import (
	"ippcode23/lang/program"
	"ippcode23/lang/values"
)

// resolveValue resolves a SYMB operand (Var or immediate) to its concrete
// stored value, which may be Undefined (spec §4.4). Callers that must
// reject Undefined call requireDefined on the result; TYPE is the one
// opcode that does not.
func (vm *VM) resolveValue(op program.Operand) (values.Value, error) {
	switch op.Kind {
	case program.KindVar:
		return vm.store.Read(op.Ref)
	case program.KindImmediate:
		return op.Imm, nil
	default:
		panic("machine: resolveValue called on a non-SYMB operand")
	}
}
