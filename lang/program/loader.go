package program

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ippcode23/lang/frame"
	"ippcode23/lang/values"
	"ippcode23/lang/vmerrors"
)

// slotKind is the operand-kind class an opcode declares for one of its
// argument slots (spec §4.1, §6.2).
type slotKind int

const (
	slotVar slotKind = iota
	slotSymb
	slotLabel
	slotType
)

// opcodeTable is the arity table of §6.2, expressed as the expected slot
// kind per argument position. The slice length is the opcode's arity.
var opcodeTable = map[string][]slotKind{
	"CREATEFRAME": {},
	"PUSHFRAME":   {},
	"POPFRAME":    {},
	"RETURN":      {},
	"BREAK":       {},

	"DEFVAR": {slotVar},
	"POPS":   {slotVar},
	"CALL":   {slotLabel},
	"LABEL":  {slotLabel},
	"JUMP":   {slotLabel},
	"PUSHS":  {slotSymb},
	"WRITE":  {slotSymb},
	"EXIT":   {slotSymb},
	"DPRINT": {slotSymb},

	"MOVE":     {slotVar, slotSymb},
	"INT2CHAR": {slotVar, slotSymb},
	"STRLEN":   {slotVar, slotSymb},
	"TYPE":     {slotVar, slotSymb},
	"READ":     {slotVar, slotType},
	"NOT":      {slotVar, slotSymb},

	"ADD":       {slotVar, slotSymb, slotSymb},
	"SUB":       {slotVar, slotSymb, slotSymb},
	"MUL":       {slotVar, slotSymb, slotSymb},
	"IDIV":      {slotVar, slotSymb, slotSymb},
	"LT":        {slotVar, slotSymb, slotSymb},
	"GT":        {slotVar, slotSymb, slotSymb},
	"EQ":        {slotVar, slotSymb, slotSymb},
	"JUMPIFEQ":  {slotLabel, slotSymb, slotSymb},
	"JUMPIFNEQ": {slotLabel, slotSymb, slotSymb},
	"OR":        {slotVar, slotSymb, slotSymb},
	"AND":       {slotVar, slotSymb, slotSymb},
	"STRI2INT":  {slotVar, slotSymb, slotSymb},
	"CONCAT":    {slotVar, slotSymb, slotSymb},
	"GETCHAR":   {slotVar, slotSymb, slotSymb},
	"SETCHAR":   {slotVar, slotSymb, slotSymb},
}

// Validate turns a parsed Document into an ordered Program, or fails with a
// typed error (spec §4.1). A nil doc (the empty-document case from Parse)
// yields an empty, successful Program.
func Validate(doc *Document) (*Program, error) {
	if doc == nil {
		return &Program{Labels: map[string]int{}}, nil
	}
	if doc.XMLName.Local != "program" {
		return nil, vmerrors.BadStructure{Msg: fmt.Sprintf("root element must be <program>, got <%s>", doc.XMLName.Local)}
	}
	if doc.Language != "IPPcode23" {
		return nil, vmerrors.BadStructure{Msg: fmt.Sprintf("unsupported language attribute %q", doc.Language)}
	}
	if len(doc.OtherChildren) > 0 {
		return nil, vmerrors.BadStructure{
			Msg: fmt.Sprintf("program: unexpected child element <%s>, want <instruction>", doc.OtherChildren[0].XMLName.Local),
		}
	}

	type entry struct {
		order int
		src   InstructionXML
	}

	seen := make(map[int]bool, len(doc.Instructions))
	entries := make([]entry, 0, len(doc.Instructions))
	for _, ix := range doc.Instructions {
		order, err := strconv.Atoi(ix.Order)
		if err != nil || order <= 0 {
			return nil, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction order %q must be a positive integer", ix.Order)}
		}
		if seen[order] {
			return nil, vmerrors.BadStructure{Msg: fmt.Sprintf("duplicate instruction order %d", order)}
		}
		seen[order] = true
		entries = append(entries, entry{order, ix})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	prog := &Program{
		Instructions: make([]Instruction, 0, len(entries)),
		Labels:       map[string]int{},
	}
	for _, e := range entries {
		inst, err := buildInstruction(e.order, e.src)
		if err != nil {
			return nil, err
		}
		if inst.Opcode == "LABEL" {
			name := inst.Args[0].Text
			if _, dup := prog.Labels[name]; dup {
				return nil, vmerrors.SemanticError{Msg: fmt.Sprintf("duplicate label %q", name)}
			}
			prog.Labels[name] = len(prog.Instructions)
		}
		prog.Instructions = append(prog.Instructions, inst)
	}
	return prog, nil
}

func buildInstruction(order int, ix InstructionXML) (Instruction, error) {
	opcode := strings.ToUpper(ix.Opcode)
	slots, ok := opcodeTable[opcode]
	if !ok {
		return Instruction{}, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction %d: unknown opcode %q", order, ix.Opcode)}
	}
	if len(ix.OtherArgs) > 0 {
		return Instruction{}, vmerrors.BadStructure{
			Msg: fmt.Sprintf("instruction %d (%s): unexpected child element <%s>, want <arg1>/<arg2>/<arg3>", order, opcode, ix.OtherArgs[0].XMLName.Local),
		}
	}

	args := []*ArgXML{ix.Arg1, ix.Arg2, ix.Arg3}
	present := make([]*ArgXML, 0, 3)
	for _, a := range args {
		if a != nil {
			present = append(present, a)
		}
	}
	if len(present) != len(slots) {
		return Instruction{}, vmerrors.BadStructure{
			Msg: fmt.Sprintf("instruction %d (%s): expected %d argument(s), got %d", order, opcode, len(slots), len(present)),
		}
	}

	resolved := make([]Operand, len(slots))
	for i, slot := range slots {
		op, err := resolveOperand(order, opcode, i+1, present[i], slot)
		if err != nil {
			return Instruction{}, err
		}
		resolved[i] = op
	}

	return Instruction{Order: order, Opcode: opcode, Args: resolved}, nil
}

func resolveOperand(order int, opcode string, pos int, arg *ArgXML, slot slotKind) (Operand, error) {
	badKind := func() error {
		return vmerrors.BadStructure{
			Msg: fmt.Sprintf("instruction %d (%s): argument %d has unexpected type %q", order, opcode, pos, arg.Type),
		}
	}

	switch slot {
	case slotVar:
		if arg.Type != "var" {
			return Operand{}, badKind()
		}
		ref, err := frame.ParseRef(arg.Text)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: KindVar, Ref: ref}, nil

	case slotLabel:
		if arg.Type != "label" {
			return Operand{}, badKind()
		}
		return Operand{Kind: KindLabel, Text: arg.Text}, nil

	case slotType:
		if arg.Type != "type" {
			return Operand{}, badKind()
		}
		name, err := values.TypeName(arg.Text)
		if err != nil {
			return Operand{}, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction %d (%s): %s", order, opcode, err)}
		}
		return Operand{Kind: KindType, Text: name}, nil

	case slotSymb:
		return resolveSymb(order, opcode, pos, arg)

	default:
		panic("program: unknown slot kind")
	}
}

func resolveSymb(order int, opcode string, pos int, arg *ArgXML) (Operand, error) {
	switch arg.Type {
	case "var":
		ref, err := frame.ParseRef(arg.Text)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: KindVar, Ref: ref}, nil
	case "int":
		v, err := values.ParseInt(arg.Text)
		if err != nil {
			return Operand{}, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction %d (%s): argument %d: %s", order, opcode, pos, err)}
		}
		return Operand{Kind: KindImmediate, Imm: v}, nil
	case "string":
		v, err := values.ParseStr(arg.Text)
		if err != nil {
			return Operand{}, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction %d (%s): argument %d: %s", order, opcode, pos, err)}
		}
		return Operand{Kind: KindImmediate, Imm: v}, nil
	case "bool":
		return Operand{Kind: KindImmediate, Imm: values.ParseBool(arg.Text)}, nil
	case "nil":
		v, err := values.ParseNil(arg.Text)
		if err != nil {
			return Operand{}, vmerrors.BadStructure{Msg: fmt.Sprintf("instruction %d (%s): argument %d: %s", order, opcode, pos, err)}
		}
		return Operand{Kind: KindImmediate, Imm: v}, nil
	default:
		return Operand{}, vmerrors.BadStructure{
			Msg: fmt.Sprintf("instruction %d (%s): argument %d has unexpected type %q", order, opcode, pos, arg.Type),
		}
	}
}
