// Package program implements the program loader/validator (spec §4.1,
// §6.2): it turns a parsed program document into an ordered instruction
// vector and a label index, or a typed error.
package program

import (
	"encoding/xml"
	"io"

	"ippcode23/lang/vmerrors"
)

// Document is the raw element tree delivered by the document parser. Per
// spec §1, parsing program *text* into this tree is an external
// collaborator's job; Parse here only turns well-formed XML bytes into this
// struct, deferring every semantic check (root name, language attribute,
// opcode/arity/operand-kind validity) to Validate.
//
// XMLName is deliberately left without a name constraint so that a
// mismatched root element name surfaces as a BadStructure from Validate,
// not a generic unmarshalling failure from this package.
type Document struct {
	XMLName      xml.Name
	Language     string           `xml:"language,attr"`
	Instructions []InstructionXML `xml:"instruction"`

	// OtherChildren catches any child element not named "instruction" (the
	// ",any" field only receives elements unmatched by another field).
	// Validate rejects a non-empty OtherChildren with BadStructure (spec
	// §4.1: "Every child element must be named instruction").
	OtherChildren []RawElement `xml:",any"`
}

// InstructionXML is one <instruction> element. Its <arg1>/<arg2>/<arg3>
// children are bound by tag name, so each lands in its own field whatever
// its position in the document.
type InstructionXML struct {
	Order  string  `xml:"order,attr"`
	Opcode string  `xml:"opcode,attr"`
	Arg1   *ArgXML `xml:"arg1"`
	Arg2   *ArgXML `xml:"arg2"`
	Arg3   *ArgXML `xml:"arg3"`

	// OtherArgs catches any child element not named "arg1"/"arg2"/"arg3".
	// Validate rejects a non-empty OtherArgs with BadStructure (spec §4.1:
	// "Each argument child must be named arg1, arg2, or arg3").
	OtherArgs []RawElement `xml:",any"`
}

// RawElement captures the name of an otherwise-unvalidated child element,
// used only to detect and report structurally illegal tag names.
type RawElement struct {
	XMLName xml.Name
}

// ArgXML is one argN element: a declared operand kind and the literal
// source text (spec §3.2).
type ArgXML struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// Parse decodes a program document from r. A zero-byte document is not an
// error: it returns (nil, nil), which Validate treats as the empty no-op
// program (spec §4.1). Any other malformed XML fails with BadDocument.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, vmerrors.BadDocument{Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, vmerrors.BadDocument{Err: err}
	}
	return &doc, nil
}
