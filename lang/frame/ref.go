package frame

import (
	"fmt"
	"strings"

	"ippcode23/lang/vmerrors"
)

// ParseRef parses a Var operand's source text ("GF@name", "LF@name",
// "TF@name") into a structured Ref. This is done once at load time (spec
// §3.2, §4.4) rather than re-splitting the string on every access.
func ParseRef(text string) (Ref, error) {
	scope, name, ok := strings.Cut(text, "@")
	if !ok || name == "" {
		return Ref{}, vmerrors.BadStructure{Msg: fmt.Sprintf("malformed variable reference %q", text)}
	}
	var s Scope
	switch scope {
	case "GF":
		s = Global
	case "LF":
		s = Local
	case "TF":
		s = Temporary
	default:
		return Ref{}, vmerrors.BadStructure{Msg: fmt.Sprintf("unknown frame selector %q in %q", scope, text)}
	}
	return Ref{Scope: s, Name: name}, nil
}
