package builder

import (
	"strconv"
	"strings"

	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// buildText evaluates a <text> element, one of four sources: a literal
// value, a resolved term, a referenced variable, or an inline macro
// reference (spec §4.1/§4.2).
func (b *Builder) buildText(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	switch e.TextSource {
	case style.TextSourceValue:
		rendered := applyTextAffixes(e.Value, e.Affixes)
		return leaf(rendered), ir.LeafVars(false, rendered != ""), nil

	case style.TextSourceTerm:
		term := b.resolveTerm(e.Value, false, ctx.Lang())
		rendered := applyTextAffixes(term, e.Affixes)
		return leaf(rendered), ir.LeafVars(false, rendered != ""), nil

	case style.TextSourceMacro:
		macro, ok := b.Style.Macro(e.Value)
		if !ok {
			return leaf(""), ir.NoneSeen, nil
		}
		return b.buildElement(macro, ctx)

	case style.TextSourceVariable:
		raw, referenced := b.resolveVariableText(e.Value, e.Form == "short", ctx)
		rendered := applyTextAffixes(raw, e.Affixes)
		return leaf(rendered), ir.LeafVars(referenced, rendered != ""), nil

	default:
		return leaf(""), ir.NoneSeen, nil
	}
}

// resolveVariableText resolves a <text variable="..."/> to plain text,
// covering ordinary, number, and the three virtual variables. Name and
// date variables have their own dedicated elements and are not
// resolved here; referencing one as plain text yields no output but
// still counts as a reference for GroupVars purposes.
func (b *Builder) resolveVariableText(variable string, short bool, ctx refctx.Context) (raw string, referenced bool) {
	switch variable {
	case "locator":
		v, ok := ctx.LocatorValue()
		return v, ok || ctx.HasLocator()
	case "first-reference-note-number":
		n, ok := ctx.FirstReferenceNoteNumber()
		if !ok {
			return "", true
		}
		return strconv.Itoa(n), true
	case "citation-number":
		n, ok := ctx.CitationNumber()
		if !ok {
			return "", true
		}
		return strconv.Itoa(n), true
	}

	switch leafVariableCategory(variable) {
	case value.CategoryOrdinary:
		v, _ := ctx.GetOrdinary(variable, short)
		return v, true
	case value.CategoryNumber:
		n, ok := ctx.GetNumber(variable)
		if !ok {
			return "", true
		}
		return n.String(), true
	default:
		// Name/date/unknown variables render no plain text of their own.
		return "", true
	}
}

// resolveTerm looks up name via the builder's TermResolver, falling
// back to the term name itself when no resolver is configured or the
// locale has no entry — keeping output legible even without locale data
// loaded, per the "external collaborator" contract of spec §1.
func (b *Builder) resolveTerm(name string, plural bool, lang string) string {
	if b.Terms == nil {
		return name
	}
	if v, ok := b.Terms.Term(lang, name, plural); ok {
		return v
	}
	return name
}

func leaf(text string) *ir.Node { return ir.Text(text) }

// applyTextAffixes applies CSL strip-periods, text-case, quotes, and
// prefix/suffix to raw, in that order, matching CSL's processing order
// (case transform operates on content, quotes and affixes wrap it).
// An empty raw short-circuits to "": affixes never manufacture visible
// output around nothing (spec §4.3).
func applyTextAffixes(raw string, a style.Affixes) string {
	if raw == "" {
		return ""
	}
	s := raw
	if a.StripPeriods {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = applyTextCase(s, a.TextCase)
	if a.Quotes {
		s = "“" + s + "”"
	}
	return a.Prefix + s + a.Suffix
}

func applyTextCase(s string, c style.TextCase) string {
	switch c {
	case style.TextCaseLowercase:
		return strings.ToLower(s)
	case style.TextCaseUppercase:
		return strings.ToUpper(s)
	case style.TextCaseCapitalizeFirst:
		return capitalizeFirst(s)
	case style.TextCaseCapitalizeAll:
		return capitalizeWords(s)
	case style.TextCaseTitle:
		return titleCase(s)
	case style.TextCaseSentence:
		return capitalizeFirst(strings.ToLower(s))
	default:
		return s
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func capitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = capitalizeFirst(f)
	}
	return strings.Join(fields, " ")
}

// titleCase capitalizes every word except a small set of English
// function words, unless that word is first or last — the common CSL
// "title" case convention. It is deliberately simple: full title-casing
// is locale-sensitive and belongs to the locale data an external
// collaborator supplies, not to this fallback.
var titleCaseMinorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "nor": true, "of": true, "on": true,
	"or": true, "so": true, "the": true, "to": true, "up": true, "yet": true,
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		lower := strings.ToLower(f)
		if i != 0 && i != len(fields)-1 && titleCaseMinorWords[lower] {
			fields[i] = lower
			continue
		}
		fields[i] = capitalizeFirst(lower)
	}
	return strings.Join(fields, " ")
}
