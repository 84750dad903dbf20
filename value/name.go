package value

import "strings"

// PersonName is a CSL name-variable entry. Family/Given/particles/suffix
// follow spec §3; a name can also be a LiteralName (an institution or
// otherwise unparsed name, e.g. "World Health Organization"), in which
// case the other fields are unused.
type PersonName struct {
	Literal              string
	Family               string
	Given                string
	NonDroppingParticle  string
	DroppingParticle     string
	Suffix               string
	StaticParticles      bool
	CommaSuffix          bool
}

// IsLiteral reports whether this name is a literal (institutional) name.
func (n PersonName) IsLiteral() bool { return n.Literal != "" }

// normalizeApostrophe replaces every ASCII apostrophe in s with U+2019, per the
// invariant in spec §3 and §8.
func normalizeApostrophe(s string) string {
	return strings.ReplaceAll(s, "'", "’")
}

// particleWords are the lowercase leading words recognized as
// non-dropping particles when they precede a capitalized family-name
// root, e.g. "van der Vlist" -> particle "van der", family "Vlist".
// This list follows the common CSL/BibTeX particle set; it is
// deliberately small and extended by new entries, not by generic
// case-sniffing alone, to avoid misparsing family names that simply
// start with a lowercase letter for stylistic reasons.
var particleWords = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true,
	"di": true, "du": true, "la": true, "le": true, "el": true,
	"al": true, "bin": true, "ibn": true, "da": true, "dos": true,
	"das": true, "do": true, "ter": true, "ten": true, "vande": true,
	"vander": true, "af": true, "av": true,
}

// ParseParticles extracts embedded particles from Family and (trailing)
// Given into their dedicated fields, per the invariant in spec §3 and
// example 3 of §8: {family: "van der Vlist", given: "Eric"} ->
// {family: "Vlist", non-dropping-particle: "van der", given: "Eric"}.
//
// It is a no-op — other than apostrophe normalization — when the input
// already carries a non-dropping particle, a dropping particle, a
// suffix, or sets StaticParticles, matching the "unless" clause of the
// invariant: a parser that already knows the particle boundaries is not
// second-guessed.
func ParseParticles(n PersonName) PersonName {
	out := n
	out.Literal = normalizeApostrophe(out.Literal)
	out.Family = normalizeApostrophe(out.Family)
	out.Given = normalizeApostrophe(out.Given)
	out.NonDroppingParticle = normalizeApostrophe(out.NonDroppingParticle)
	out.DroppingParticle = normalizeApostrophe(out.DroppingParticle)
	out.Suffix = normalizeApostrophe(out.Suffix)

	if out.IsLiteral() {
		return out
	}
	if out.StaticParticles || out.NonDroppingParticle != "" ||
		out.DroppingParticle != "" || out.Suffix != "" {
		return out
	}

	if particle, rest, ok := splitLeadingParticle(out.Family); ok {
		out.NonDroppingParticle = particle
		out.Family = rest
	}
	if rest, particle, ok := splitTrailingParticle(out.Given); ok {
		out.DroppingParticle = particle
		out.Given = rest
	}
	return out
}

// splitLeadingParticle consumes whitespace-separated lowercase words
// from the front of family, stopping at the first capitalized (or
// otherwise non-particle) word, which becomes the new family root.
func splitLeadingParticle(family string) (particle, rest string, ok bool) {
	words := strings.Fields(family)
	if len(words) < 2 {
		return "", family, false
	}
	i := 0
	for i < len(words)-1 && isParticleWord(words[i]) {
		i++
	}
	if i == 0 {
		return "", family, false
	}
	return strings.Join(words[:i], " "), strings.Join(words[i:], " "), true
}

// splitTrailingParticle consumes whitespace-separated lowercase words
// from the back of given, stopping at the first non-particle word
// (reading right to left), which leaves the remaining given name intact.
func splitTrailingParticle(given string) (rest, particle string, ok bool) {
	words := strings.Fields(given)
	if len(words) < 2 {
		return given, "", false
	}
	j := len(words)
	for j > 1 && isParticleWord(words[j-1]) {
		j--
	}
	if j == len(words) {
		return given, "", false
	}
	return strings.Join(words[:j], " "), strings.Join(words[j:], " "), true
}

func isParticleWord(w string) bool {
	if w == "" {
		return false
	}
	lower := strings.ToLower(w)
	if lower != w {
		return false
	}
	return particleWords[w]
}
