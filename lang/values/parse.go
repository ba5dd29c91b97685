package values

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInt parses the decimal text of an Int immediate (spec §4.4): an
// optional leading +/- followed by decimal digits.
func ParseInt(text string) (Int, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int literal %q: %w", text, err)
	}
	return Int(n), nil
}

// ParseBool parses a Bool immediate: the literal text "true" yields true,
// anything else yields false (spec §4.4).
func ParseBool(text string) Bool {
	return Bool(text == "true")
}

// ParseNil validates a Nil immediate: its text must be exactly "nil".
func ParseNil(text string) (NilType, error) {
	if text != "nil" {
		return Nil, fmt.Errorf("invalid nil literal %q: want \"nil\"", text)
	}
	return Nil, nil
}

// ParseStr decodes a String immediate's source text, interpreting \ddd
// escape sequences (three decimal digits) as the scalar with that codepoint
// (spec §4.4). Absent text and an explicitly empty element are equivalent:
// both yield the empty Str (spec §9, open question).
func ParseStr(text string) (Str, error) {
	if text == "" {
		return Str{}, nil
	}

	var out Str
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+3 < len(runes) && isDigits(runes[i+1:i+4]) {
			n, err := strconv.Atoi(string(runes[i+1 : i+4]))
			if err != nil {
				return nil, fmt.Errorf("invalid escape sequence %q", string(runes[i:i+4]))
			}
			out = append(out, rune(n))
			i += 3
			continue
		}
		out = append(out, runes[i])
	}
	return out, nil
}

func isDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TypeName normalises the three literal TYPE operand values accepted by READ
// and the Type operand kind (spec §3.2): "int", "string", "bool".
func TypeName(text string) (string, error) {
	switch strings.ToLower(text) {
	case "int", "string", "bool":
		return strings.ToLower(text), nil
	default:
		return "", fmt.Errorf("invalid type literal %q", text)
	}
}
