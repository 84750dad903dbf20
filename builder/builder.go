// Package builder evaluates a compiled style tree (package style) against
// a reference context (package refctx) into an IR tree (package ir),
// implementing the conditional-group suppression rule of spec §4.2/§4.3.
//
// Every contiguous list of style elements — a citation layout's body, a
// <group>'s children, a chosen branch's body, a macro's body — is built
// by the same buildSequence helper, which folds each child's GroupVars
// contribution into a running summary via ir.GroupVars.ParentNew. This
// mirrors the teacher's single recursive Eval entry point (tony/eval):
// one evaluator, dispatched by node kind, rather than one evaluator per
// element type.
package builder

import (
	"fmt"

	"github.com/tonycite/citeproc/cond"
	"github.com/tonycite/citeproc/errs"
	"github.com/tonycite/citeproc/internal/trace"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// TermResolver is the locale term lookup the builder consults for
// <text term="..."/> and <label/> elements. Locale XML parsing is an
// external collaborator's concern (spec §1); the builder only needs the
// resolved string. A nil TermResolver degrades to using the term name
// itself as its own rendering, which keeps the builder usable in tests
// and tools that have no locale data loaded.
type TermResolver interface {
	// Term resolves name (optionally pluralized) in lang, reporting
	// whether the locale defines it.
	Term(lang, name string, plural bool) (string, bool)
}

// Builder evaluates one compiled style against reference contexts.
type Builder struct {
	Style *style.Style
	Terms TermResolver
}

// New constructs a Builder for s. terms may be nil.
func New(s *style.Style, terms TermResolver) *Builder {
	return &Builder{Style: s, Terms: terms}
}

// BuildCitation evaluates the style's citation layout against ctx,
// applying the style's layout-wide delimiter and affixes.
func (b *Builder) BuildCitation(ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	return b.buildSequence(b.Style.Citation, b.Style.Options.LayoutDelimiter, b.Style.Options.LayoutAffixes, ctx)
}

// buildSequence builds a contiguous list of elements joined by delim,
// folding their GroupVars contributions into one summary for the
// sequence as a whole, then wraps the result in affixes if (and only
// if) the sequence actually renders something — applying affixes around
// empty content would manufacture visible punctuation from nothing,
// violating the suppression rule the affixes are meant to decorate.
func (b *Builder) buildSequence(elements []*style.Element, delim string, affixes style.Affixes, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	children := make([]*ir.Node, 0, len(elements))
	summary := ir.NoneSeen

	for _, e := range elements {
		child, childVars, err := b.buildElement(e, ctx)
		if err != nil {
			return nil, ir.NoneSeen, err
		}
		children = append(children, child)
		summary = summary.ParentNew(childVars)
	}

	group := ir.Group(delim, children...)
	group.GroupVars = summary

	if trace.Builder() {
		trace.Logf("builder: sequence of %d elements -> %s\n", len(elements), summary)
	}

	if !summary.Renders() || isZeroAffixes(affixes) {
		return group, summary, nil
	}
	return ir.Formatted(bundleFromAffixes(affixes), group), summary, nil
}

// buildElement dispatches on e.Kind, the builder's single switch point.
func (b *Builder) buildElement(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	switch e.Kind {
	case style.ElementText:
		return b.buildText(e, ctx)
	case style.ElementGroup:
		return b.buildSequence(e.Children, e.Delim, e.Affixes, ctx)
	case style.ElementChoose:
		return b.buildChoose(e, ctx)
	case style.ElementNames:
		return b.buildNames(e, ctx)
	case style.ElementDate:
		return b.buildDate(e, ctx)
	case style.ElementNumber:
		return b.buildNumber(e, ctx)
	case style.ElementLabel:
		return b.buildLabel(e, ctx)
	case style.ElementYearSuffix:
		return b.buildYearSuffix(e, ctx)
	case style.ElementMacro:
		macro, ok := b.Style.Macro(e.Value)
		if !ok {
			return nil, ir.NoneSeen, fmt.Errorf("%w: undefined macro %q", errs.ErrInvariantViolation, e.Value)
		}
		return b.buildElement(macro, ctx)
	default:
		return nil, ir.NoneSeen, fmt.Errorf("%w: unhandled element kind %v", errs.ErrInvariantViolation, e.Kind)
	}
}

// buildChoose evaluates a <choose>'s branches in order, building the
// first whose condition matches (or the trailing else), and reports
// that branch's own GroupVars as the choose's contribution — a choose
// with no matching branch contributes NoneSeen, same as an empty group.
func (b *Builder) buildChoose(e *style.Element, ctx refctx.Context) (*ir.Node, ir.GroupVars, error) {
	for _, branch := range e.Branches {
		matched := branch.IsElse
		if !matched {
			var err error
			matched, err = cond.Evaluate(branch.Condition, ctx)
			if err != nil {
				return nil, ir.NoneSeen, err
			}
		}
		if !matched {
			continue
		}
		body, bodyVars, err := b.buildSequence(branch.Body, "", e.Affixes, ctx)
		if err != nil {
			return nil, ir.NoneSeen, err
		}
		return ir.Choose(body), bodyVars, nil
	}
	return ir.Choose(nil), ir.NoneSeen, nil
}

func isZeroAffixes(a style.Affixes) bool {
	return a == style.Affixes{}
}

func bundleFromAffixes(a style.Affixes) ir.Bundle {
	return ir.Bundle{
		FontStyle:   ir.FontStyle(a.FontStyle),
		FontWeight:  ir.FontWeight(a.FontWeight),
		FontVariant: ir.FontVariant(a.FontVariant),
		Quotes:      a.Quotes,
		Prefix:      a.Prefix,
		Suffix:      a.Suffix,
	}
}

// leafVariableCategory returns the category (ordinary, number, name,
// date, virtual or unknown) of variable as used from a <text
// variable="..."/>; resolveVariableText uses it to choose which sub-map
// to read. Literal values and resolved terms never reference
// a variable, regardless of whether their text is empty.
func leafVariableCategory(variable string) value.Category {
	return value.CategoryOf(variable)
}
