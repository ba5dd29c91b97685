package machine

import (
	"fmt"

	"ippcode23/lang/program"
	"ippcode23/lang/values"
	"ippcode23/lang/vmerrors"
)

// step executes the instruction at the current PC and returns the next PC
// to run (spec §4.3). Opcodes that redirect control flow (CALL, RETURN,
// JUMP, JUMPIFEQ/NEQ) compute next explicitly and EXIT ends the run; every
// other opcode falls through to pc+1.
func (vm *VM) step(inst program.Instruction) (int, error) {
	switch inst.Opcode {

	case "CREATEFRAME":
		vm.store.CreateTemporary()
		return vm.pc + 1, nil

	case "PUSHFRAME":
		if err := vm.store.PushFrame(); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "POPFRAME":
		if err := vm.store.PopFrame(); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "DEFVAR":
		if err := vm.store.Define(inst.Args[0].Ref); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "CALL":
		target, ok := vm.program.Labels[inst.Args[0].Text]
		if !ok {
			return 0, vmerrors.SemanticError{Msg: fmt.Sprintf("call to undefined label %q", inst.Args[0].Text)}
		}
		vm.store.PushCall(vm.pc + 1)
		return target, nil

	case "RETURN":
		addr, err := vm.store.PopCall()
		if err != nil {
			return 0, err
		}
		return addr, nil

	case "LABEL":
		return vm.pc + 1, nil

	case "JUMP":
		target, ok := vm.program.Labels[inst.Args[0].Text]
		if !ok {
			return 0, vmerrors.SemanticError{Msg: fmt.Sprintf("jump to undefined label %q", inst.Args[0].Text)}
		}
		return target, nil

	case "JUMPIFEQ", "JUMPIFNEQ":
		return vm.execJumpIf(inst)

	case "PUSHS":
		v, err := vm.resolveValue(inst.Args[0])
		if err != nil {
			return 0, err
		}
		v, err = requireDefined(v)
		if err != nil {
			return 0, err
		}
		vm.store.PushData(v)
		return vm.pc + 1, nil

	case "POPS":
		v, err := vm.store.PopData()
		if err != nil {
			return 0, err
		}
		if err := vm.store.Write(inst.Args[0].Ref, v); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "MOVE":
		v, err := vm.resolveDefined(inst.Args[1])
		if err != nil {
			return 0, err
		}
		if err := vm.store.Write(inst.Args[0].Ref, v); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "ADD", "SUB", "MUL", "IDIV":
		return vm.execArith(inst)

	case "LT", "GT", "EQ":
		return vm.execRelational(inst)

	case "AND", "OR":
		return vm.execLogicalBinary(inst)

	case "NOT":
		return vm.execNot(inst)

	case "INT2CHAR":
		return vm.execInt2Char(inst)

	case "STRI2INT":
		return vm.execStri2Int(inst)

	case "TYPE":
		return vm.execType(inst)

	case "READ":
		typ := inst.Args[1].Text
		v := vm.in.ReadTyped(typ)
		if err := vm.store.Write(inst.Args[0].Ref, v); err != nil {
			return 0, err
		}
		return vm.pc + 1, nil

	case "WRITE":
		v, err := vm.resolveValue(inst.Args[0])
		if err != nil {
			return 0, err
		}
		v, err = requireDefined(v)
		if err != nil {
			return 0, err
		}
		vm.out.Write(v)
		return vm.pc + 1, nil

	case "DPRINT":
		v, err := vm.resolveValue(inst.Args[0])
		if err != nil {
			return 0, err
		}
		v, err = requireDefined(v)
		if err != nil {
			return 0, err
		}
		vm.out.DPrint(v)
		return vm.pc + 1, nil

	case "BREAK":
		vm.out.Break(fmt.Sprintf(
			"BREAK at order=%d pc=%d GF=present LF-depth=%d TF=%v",
			inst.Order, vm.pc, vm.store.LocalDepth(), vm.store.HasTemporaryFrame(),
		))
		return vm.pc + 1, nil

	case "CONCAT":
		return vm.execConcat(inst)

	case "STRLEN":
		return vm.execStrlen(inst)

	case "GETCHAR":
		return vm.execGetChar(inst)

	case "SETCHAR":
		return vm.execSetChar(inst)

	case "EXIT":
		return vm.execExit(inst)

	default:
		panic(fmt.Sprintf("machine: unreachable opcode %q (should have been rejected at load)", inst.Opcode))
	}
}

func requireDefined(v values.Value) (values.Value, error) {
	if values.IsUndefined(v) {
		return nil, vmerrors.MissingValue{Msg: "value is undefined"}
	}
	return v, nil
}

func asInt(v values.Value) (values.Int, error) {
	n, ok := v.(values.Int)
	if !ok {
		return 0, vmerrors.TypeError{Msg: fmt.Sprintf("expected int, got %s", v.Type())}
	}
	return n, nil
}

func asBool(v values.Value) (values.Bool, error) {
	b, ok := v.(values.Bool)
	if !ok {
		return false, vmerrors.TypeError{Msg: fmt.Sprintf("expected bool, got %s", v.Type())}
	}
	return b, nil
}

func asStr(v values.Value) (values.Str, error) {
	s, ok := v.(values.Str)
	if !ok {
		return nil, vmerrors.TypeError{Msg: fmt.Sprintf("expected string, got %s", v.Type())}
	}
	return s, nil
}

func (vm *VM) resolveDefined(op program.Operand) (values.Value, error) {
	v, err := vm.resolveValue(op)
	if err != nil {
		return nil, err
	}
	return requireDefined(v)
}

func (vm *VM) execArith(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	x, err := asInt(a)
	if err != nil {
		return 0, err
	}
	y, err := asInt(b)
	if err != nil {
		return 0, err
	}

	var result values.Int
	switch inst.Opcode {
	case "ADD":
		result = x + y
	case "SUB":
		result = x - y
	case "MUL":
		result = x * y
	case "IDIV":
		if y == 0 {
			return 0, vmerrors.BadValue{Msg: "integer division by zero"}
		}
		result = x / y
	}
	if err := vm.store.Write(inst.Args[0].Ref, result); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execRelational(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}

	var result values.Bool
	switch inst.Opcode {
	case "EQ":
		switch {
		case values.IsNil(a) || values.IsNil(b):
			result = values.Bool(values.IsNil(a) && values.IsNil(b))
		case !values.SameType(a, b):
			return 0, vmerrors.TypeError{Msg: fmt.Sprintf("cannot compare %s and %s", a.Type(), b.Type())}
		default:
			result = a.(values.Ordered).Cmp(b) == 0
		}
	case "LT", "GT":
		if values.IsNil(a) || values.IsNil(b) {
			return 0, vmerrors.TypeError{Msg: "nil is not orderable"}
		}
		if !values.SameType(a, b) {
			return 0, vmerrors.TypeError{Msg: fmt.Sprintf("cannot compare %s and %s", a.Type(), b.Type())}
		}
		cmp := a.(values.Ordered).Cmp(b)
		if inst.Opcode == "LT" {
			result = cmp < 0
		} else {
			result = cmp > 0
		}
	}
	if err := vm.store.Write(inst.Args[0].Ref, result); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execLogicalBinary(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	x, err := asBool(a)
	if err != nil {
		return 0, err
	}
	y, err := asBool(b)
	if err != nil {
		return 0, err
	}

	var result values.Bool
	if inst.Opcode == "AND" {
		result = x && y
	} else {
		result = x || y
	}
	if err := vm.store.Write(inst.Args[0].Ref, result); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execNot(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	x, err := asBool(a)
	if err != nil {
		return 0, err
	}
	if err := vm.store.Write(inst.Args[0].Ref, !x); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execInt2Char(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	n, err := asInt(a)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > 255 {
		return 0, vmerrors.StringError{Msg: fmt.Sprintf("INT2CHAR: %d is not a valid codepoint in [1,255]", n)}
	}
	if err := vm.store.Write(inst.Args[0].Ref, values.Str{rune(n)}); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execStri2Int(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	s, err := asStr(a)
	if err != nil {
		return 0, err
	}
	i, err := asInt(b)
	if err != nil {
		return 0, err
	}
	if i < 0 || int(i) >= s.Len() {
		return 0, vmerrors.StringError{Msg: fmt.Sprintf("STRI2INT: index %d out of range [0,%d)", i, s.Len())}
	}
	if err := vm.store.Write(inst.Args[0].Ref, values.Int(s[i])); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execType(inst program.Instruction) (int, error) {
	v, err := vm.resolveValue(inst.Args[1])
	if err != nil {
		return 0, err
	}
	typeName := ""
	if !values.IsUndefined(v) {
		typeName = v.Type()
	}
	if err := vm.store.Write(inst.Args[0].Ref, values.NewStr(typeName)); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execConcat(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	s1, err := asStr(a)
	if err != nil {
		return 0, err
	}
	s2, err := asStr(b)
	if err != nil {
		return 0, err
	}
	if err := vm.store.Write(inst.Args[0].Ref, s1.Concat(s2)); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execStrlen(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	s, err := asStr(a)
	if err != nil {
		return 0, err
	}
	if err := vm.store.Write(inst.Args[0].Ref, values.Int(s.Len())); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execGetChar(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	s, err := asStr(a)
	if err != nil {
		return 0, err
	}
	i, err := asInt(b)
	if err != nil {
		return 0, err
	}
	if i < 0 || int(i) >= s.Len() {
		return 0, vmerrors.StringError{Msg: fmt.Sprintf("GETCHAR: index %d out of range [0,%d)", i, s.Len())}
	}
	if err := vm.store.Write(inst.Args[0].Ref, s.At(int(i))); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execSetChar(inst program.Instruction) (int, error) {
	target, err := vm.store.Read(inst.Args[0].Ref)
	if err != nil {
		return 0, err
	}
	target, err = requireDefined(target)
	if err != nil {
		return 0, err
	}
	dst, err := asStr(target)
	if err != nil {
		return 0, err
	}

	idx, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	i, err := asInt(idx)
	if err != nil {
		return 0, err
	}

	repl, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}
	s, err := asStr(repl)
	if err != nil {
		return 0, err
	}

	if i < 0 || int(i) >= dst.Len() {
		return 0, vmerrors.StringError{Msg: fmt.Sprintf("SETCHAR: index %d out of range [0,%d)", i, dst.Len())}
	}
	if s.Len() == 0 {
		return 0, vmerrors.StringError{Msg: "SETCHAR: replacement string is empty"}
	}

	if err := vm.store.Write(inst.Args[0].Ref, dst.WithCharAt(int(i), s)); err != nil {
		return 0, err
	}
	return vm.pc + 1, nil
}

func (vm *VM) execJumpIf(inst program.Instruction) (int, error) {
	a, err := vm.resolveDefined(inst.Args[1])
	if err != nil {
		return 0, err
	}
	b, err := vm.resolveDefined(inst.Args[2])
	if err != nil {
		return 0, err
	}

	var equal bool
	switch {
	case values.IsNil(a) || values.IsNil(b):
		equal = values.IsNil(a) && values.IsNil(b)
	case !values.SameType(a, b):
		return 0, vmerrors.TypeError{Msg: fmt.Sprintf("cannot compare %s and %s", a.Type(), b.Type())}
	default:
		equal = a.(values.Ordered).Cmp(b) == 0
	}

	jump := equal
	if inst.Opcode == "JUMPIFNEQ" {
		jump = !equal
	}
	if !jump {
		return vm.pc + 1, nil
	}

	target, ok := vm.program.Labels[inst.Args[0].Text]
	if !ok {
		return 0, vmerrors.SemanticError{Msg: fmt.Sprintf("jump to undefined label %q", inst.Args[0].Text)}
	}
	return target, nil
}

func (vm *VM) execExit(inst program.Instruction) (int, error) {
	v, err := vm.resolveDefined(inst.Args[0])
	if err != nil {
		return 0, err
	}
	n, err := asInt(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 49 {
		return 0, vmerrors.BadValue{Msg: fmt.Sprintf("EXIT: %d is out of range [0,49]", n)}
	}
	return 0, exitError{code: int(n)}
}
