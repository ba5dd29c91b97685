package values

// Str is the type of a text string: a sequence of Unicode scalar values
// (spec §3.1). It is rune-backed, not byte-backed, so that indexing
// (STRI2INT, GETCHAR, SETCHAR) addresses scalars in O(1) regardless of how
// many bytes a given scalar takes when UTF-8 encoded.
type Str []rune

var (
	_ Value   = Str(nil)
	_ Ordered = Str(nil)
)

// NewStr builds a Str from a Go string.
func NewStr(s string) Str { return Str([]rune(s)) }

func (s Str) String() string { return string([]rune(s)) }
func (s Str) Type() string   { return "string" }

// Len returns the number of Unicode scalars in s.
func (s Str) Len() int { return len(s) }

// At returns the one-scalar Str at index i. The caller must ensure
// 0 <= i < s.Len().
func (s Str) At(i int) Str { return Str{s[i]} }

// Concat returns the concatenation of s and o.
func (s Str) Concat(o Str) Str {
	out := make(Str, 0, len(s)+len(o))
	out = append(out, s...)
	out = append(out, o...)
	return out
}

// WithCharAt returns a copy of s with the scalar at index i replaced by the
// first scalar of repl. The caller must ensure 0 <= i < s.Len() and
// repl.Len() > 0.
func (s Str) WithCharAt(i int, repl Str) Str {
	out := make(Str, len(s))
	copy(out, s)
	out[i] = repl[0]
	return out
}

func (s Str) Cmp(v Value) int {
	o := v.(Str)
	n := len(s)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if s[i] != o[i] {
			if s[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(s) < len(o):
		return -1
	case len(s) > len(o):
		return 1
	default:
		return 0
	}
}
