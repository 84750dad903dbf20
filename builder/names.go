package builder

import (
	"strconv"
	"strings"

	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// buildNames evaluates a <names> element: it resolves every variable in
// e.Variables, concatenates their name lists, and renders the result
// through RenderNameList. A names element with no names in any of its
// variables contributes OnlyEmpty, same as any other empty leaf.
func (b *Builder) buildNames(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	var all []value.PersonName
	referenced := false
	for _, v := range e.Variables {
		referenced = true
		names, ok := ctx.GetNames(v)
		if ok {
			all = append(all, names...)
		}
	}

	rendered := RenderNameList(all, e.NameOptions)
	rendered = applyTextAffixes(rendered, e.Affixes)

	node := ir.Names(strings.Join(e.Variables, "+"), rendered)
	return node, ir.LeafVars(referenced, rendered != ""), nil
}

// RenderNameList renders a list of person names per opts: et-al
// truncation, the long/short/count forms, and particle ordering (a
// non-dropping particle sorts with the family name; a dropping particle
// is only shown in the long form, after the given name). Grounded on
// spec §3's PersonName shape and §4.4's description of the
// disambiguation ladder these options are progressively widened along.
func RenderNameList(names []value.PersonName, opts style.NameOptions) string {
	if len(names) == 0 {
		return ""
	}

	if opts.Form == style.NameFormCount {
		return strconv.Itoa(len(names))
	}

	shown := names
	etAl := false
	if opts.EtAlMin > 0 && len(names) >= opts.EtAlMin {
		useFirst := opts.EtAlUseFirst
		if useFirst <= 0 {
			useFirst = 1
		}
		if useFirst < len(names) {
			shown = names[:useFirst]
			etAl = true
		}
	}

	rendered := make([]string, 0, len(shown))
	for _, n := range shown {
		rendered = append(rendered, renderOneName(n, opts))
	}

	joined := joinNames(rendered, opts, !etAl)
	if etAl {
		if joined != "" {
			joined += " et al."
		} else {
			joined = "et al."
		}
	}
	return joined
}

// joinNames joins rendered name strings with opts.Delimiter, inserting
// "and"/"&" before the final name when useAnd is true and opts.And is
// set (useAnd is false when the list was truncated for et-al, since CSL
// never conjuncts the name preceding "et al."). With exactly two names
// no delimiter precedes the conjunction ("A & B"); with three or more it
// does ("A, B, & C").
func joinNames(rendered []string, opts style.NameOptions, useAnd bool) string {
	delim := opts.Delimiter
	if delim == "" {
		delim = ", "
	}
	if len(rendered) == 0 {
		return ""
	}
	if len(rendered) == 1 {
		return rendered[0]
	}
	if !useAnd || opts.And == "" {
		return strings.Join(rendered, delim)
	}

	and := opts.And
	if and == "symbol" {
		and = "&"
	} else if and == "text" {
		and = "and"
	}

	head := rendered[:len(rendered)-1]
	last := rendered[len(rendered)-1]
	if len(rendered) == 2 {
		return head[0] + " " + and + " " + last
	}
	return strings.Join(head, delim) + delim + and + " " + last
}

// renderOneName renders a single name in the requested form.
func renderOneName(n value.PersonName, opts style.NameOptions) string {
	if n.IsLiteral() {
		return n.Literal
	}

	family := n.Family
	if n.NonDroppingParticle != "" {
		family = n.NonDroppingParticle + " " + family
	}

	if opts.Form == style.NameFormShort {
		return strings.TrimSpace(family)
	}

	given := n.Given
	if opts.InitializeWith != "" {
		given = initialize(given, opts.InitializeWith)
	}
	if n.DroppingParticle != "" {
		given = strings.TrimSpace(given + " " + n.DroppingParticle)
	}

	sep := opts.SortSeparator
	if sep == "" {
		sep = ", "
	}

	var out string
	switch {
	case given == "" && n.Suffix == "":
		out = family
	case n.Suffix != "" && n.CommaSuffix:
		out = family + sep + given + ", " + n.Suffix
	case n.Suffix != "":
		out = family + sep + given + " " + n.Suffix
	default:
		out = family + sep + given
	}
	return strings.TrimSpace(out)
}

// initialize reduces a given name to its initials joined by sep, e.g.
// "Jean-Paul" with sep "." -> "J.-P.".
func initialize(given, sep string) string {
	if given == "" {
		return ""
	}
	words := strings.Fields(given)
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, initializeHyphenated(w, sep))
	}
	return strings.Join(out, " ")
}

func initializeHyphenated(word, sep string) string {
	parts := strings.Split(word, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		parts[i] = strings.ToUpper(string(r[0])) + sep
	}
	return strings.Join(parts, "-")
}
