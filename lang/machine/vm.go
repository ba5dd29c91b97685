// Package machine implements the instruction dispatcher (spec §4.3, §4.4,
// §4.5): the step loop that resolves operands, enforces per-opcode type
// rules, mutates frame/stack state, and performs I/O and control flow.
package machine

import (
	"ippcode23/lang/frame"
	"ippcode23/lang/ioadapter"
	"ippcode23/lang/program"
)

// VM owns every piece of mutable execution state: the program counter, the
// frame/stack store, the loaded program and its label index, and the I/O
// adapter. There is exactly one VM per run (spec §5: single-threaded,
// synchronous, no concurrent access to any of this).
type VM struct {
	pc int

	store   *frame.Store
	program *program.Program

	in  *ioadapter.Reader
	out *ioadapter.Writer
}

// New builds a VM ready to execute prog, reading READ input from in and
// writing WRITE/DPRINT/BREAK output via out. Only the global frame exists
// at this point (spec §4.3).
func New(prog *program.Program, in *ioadapter.Reader, out *ioadapter.Writer) *VM {
	return &VM{
		pc:      0,
		store:   frame.NewStore(),
		program: prog,
		in:      in,
		out:     out,
	}
}

// exitError carries the requested code out of Run for EXIT (spec §4.5).
type exitError struct{ code int }

func (e exitError) Error() string { return "exit" }

// Run steps the VM to completion: either it runs off the end of the
// instruction vector (normal termination, exit 0), an EXIT instruction
// requests a specific code, or an opcode fails with a typed error (spec
// §4.3, §7). The returned exit code is meaningful only when err is nil.
//
// Output is flushed on every exit path, including a failing opcode: any
// WRITE already buffered before the failure must still reach stdout (spec
// §5, "the executor flushes output and releases resources on the way
// out").
func (vm *VM) Run() (code int, err error) {
	defer func() {
		if ferr := vm.out.Flush(); ferr != nil && err == nil {
			code, err = 0, ferr
		}
	}()

	for vm.pc < len(vm.program.Instructions) {
		inst := vm.program.Instructions[vm.pc]
		next, stepErr := vm.step(inst)
		if stepErr != nil {
			if ee, ok := stepErr.(exitError); ok {
				return ee.code, nil
			}
			return 0, stepErr
		}
		vm.pc = next
	}
	return 0, nil
}
