package builder

import (
	"fmt"
	"strings"

	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// buildNumber evaluates a <number> element: it resolves e.Value as a
// number variable and renders it per e.Form (numeric, ordinal, or
// roman); any other value.Number whose FirstInt fails (a non-numeric
// "volume" like "special issue") falls back to its raw text untouched.
func (b *Builder) buildNumber(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	n, ok := ctx.GetNumber(e.Value)
	if !ok {
		return leaf(""), ir.LeafVars(true, false), nil
	}

	rendered := n.String()
	if i, isInt := n.FirstInt(); isInt {
		switch e.Form {
		case "ordinal":
			rendered = ordinal(i)
		case "roman":
			rendered = toRoman(i)
		default:
			rendered = n.String()
		}
	}

	rendered = applyTextAffixes(rendered, e.Affixes)
	return leaf(rendered), ir.LeafVars(true, rendered != ""), nil
}

// buildDate evaluates a <date> element, rendering e.Value's date
// variable per e.Form ("numeric" as YYYY-MM-DD-style components,
// "text" with a spelled month). Full locale-driven date formatting
// (alternate calendars, per-part affixes) belongs to the external
// output-format/locale collaborators; this renders the common case.
func (b *Builder) buildDate(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	d, ok := ctx.GetDate(e.Value)
	if !ok {
		return leaf(""), ir.LeafVars(true, false), nil
	}

	var rendered string
	switch {
	case d.IsLiteral():
		rendered = d.Literal
	case d.IsRange():
		rendered = formatDate(d.Start, e.Form) + "–" + formatDate(*d.End, e.Form)
	default:
		rendered = formatDate(d.Start, e.Form)
	}

	rendered = applyTextAffixes(rendered, e.Affixes)
	return leaf(rendered), ir.LeafVars(true, rendered != ""), nil
}

func formatDate(d value.Date, form string) string {
	if d.Year == 0 && d.Month == 0 && d.Day == 0 {
		return ""
	}
	year := yearString(d.Year, d.Circa)
	if d.Month == 0 {
		return year
	}
	if form == "text" {
		m := monthNames[d.Month]
		if m == "" {
			m = fmt.Sprintf("%d", d.Month)
		}
		if d.Day != 0 {
			return fmt.Sprintf("%s %d, %s", m, d.Day, year)
		}
		return fmt.Sprintf("%s %s", m, year)
	}
	if d.Day != 0 {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

func yearString(year int, circa bool) string {
	s := ""
	if year < 0 {
		s = fmt.Sprintf("%dBC", -year)
	} else {
		s = fmt.Sprintf("%d", year)
	}
	if circa {
		s = "c. " + s
	}
	return s
}

var monthNames = map[int]string{
	1: "January", 2: "February", 3: "March", 4: "April", 5: "May", 6: "June",
	7: "July", 8: "August", 9: "September", 10: "October", 11: "November", 12: "December",
}

// buildLabel evaluates a <label> element: it resolves a term named
// after the label's associated variable, pluralized when that
// variable's value looks like a range or list (contains a hyphen, an en
// dash, a comma or an ampersand), per CSL's page/locator-label
// pluralization rule.
func (b *Builder) buildLabel(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	var raw string
	var ok bool
	if e.Value == "locator" {
		raw, ok = ctx.LocatorValue()
	} else {
		n, found := ctx.GetNumber(e.Value)
		raw, ok = n.Raw, found
	}
	if !ok || raw == "" {
		return leaf(""), ir.LeafVars(true, false), nil
	}

	plural := looksPlural(raw)
	term := b.resolveTerm(e.Value, plural, ctx.Lang())
	rendered := applyTextAffixes(term, e.Affixes)
	return leaf(rendered), ir.LeafVars(true, rendered != ""), nil
}

func looksPlural(raw string) bool {
	return strings.ContainsAny(raw, "-–,&")
}

// buildYearSuffix evaluates a <year-suffix> slot: the disambiguation
// engine assigns its text in a later pass (spec §4.4), so the builder
// only records whether a suffix is already available and, if so,
// leaves its rendering to the slot's own Flatten behavior — the node
// itself carries no text until ir.ApplyYearSuffix fills in the letter
// disamb.AssignYearSuffixes chose.
func (b *Builder) buildYearSuffix(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	node := ir.YearSuffix()
	return node, ir.LeafVars(true, ctx.HasYearSuffix()), nil
}

// ordinal renders n as an English ordinal: 1st, 2nd, 3rd, 4th, ...
func ordinal(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	suffix := "th"
	switch abs % 100 {
	case 11, 12, 13:
		suffix = "th"
	default:
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// toRoman renders n in lowercase Roman numerals, CSL's "roman" number
// form. Non-positive or very large inputs (which no CSL style produces
// in practice) fall back to decimal.
func toRoman(n int) string {
	if n <= 0 || n > 3999 {
		return fmt.Sprintf("%d", n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
