package value

import "regexp"

// numericToken matches one number-like token within a Number's raw text:
// an integer, optionally followed by a single trailing letter (page "12a"),
// as CSL numeric variables commonly carry (e.g. "12a-13b").
var numericToken = regexp.MustCompile(`^[0-9]+[a-zA-Z]?$`)

// numericSplit splits a Number's raw text on the separators CSL treats as
// joining multiple numeric tokens into one value: hyphenated ranges,
// comma lists, and ampersand lists.
var numericSplit = regexp.MustCompile(`\s*[-,&]\s*`)

// Number is a CSL number-variable value: a raw string that may or may
// not parse as numeric (spec §4.1 is-numeric contract). Non-numeric
// literals ("L5", "Appendix A") are preserved verbatim and simply never
// qualify as numeric.
type Number struct {
	Raw string
}

// NewNumber builds a Number from raw text.
func NewNumber(raw string) Number {
	return Number{Raw: raw}
}

// IsNumeric reports whether every token of the raw value, once split on
// CSL's numeric-list separators, looks like an integer with at most one
// trailing letter.
func (n Number) IsNumeric() bool {
	if n.Raw == "" {
		return false
	}
	for _, tok := range numericSplit.Split(n.Raw, -1) {
		if !numericToken.MatchString(tok) {
			return false
		}
	}
	return true
}

// FirstInt returns the leading integer portion of the value's first
// token, and whether one could be extracted. Used by the builder's
// ordinal and roman number forms.
func (n Number) FirstInt() (int, bool) {
	if !n.IsNumeric() {
		return 0, false
	}
	toks := numericSplit.Split(n.Raw, -1)
	if len(toks) == 0 {
		return 0, false
	}
	tok := toks[0]
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	v := 0
	for _, c := range tok[:i] {
		v = v*10 + int(c-'0')
	}
	return v, true
}

func (n Number) String() string { return n.Raw }
