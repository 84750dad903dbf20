// Package disamb implements the disambiguation engine (spec §4.4): it
// finds a fixed point where no two cites of different references
// collide, widening each colliding cite's rendering by the minimum
// amount along the style-prescribed ladder (name expansion, then
// given-name expansion, then style-provided disambiguate branches),
// and finally assigns year suffixes to references that still share an
// author+year key.
package disamb

import (
	"github.com/tonycite/citeproc/style"
)

// GivenNameForm is a rung on the given-name expansion ladder (spec
// §4.4 step 2): family-name-only, then initials, then the full given
// name.
type GivenNameForm int

const (
	GivenNameAsConfigured GivenNameForm = iota
	GivenNameInitials
	GivenNameFull
)

// Level is one cite's current position on the disambiguation ladder.
// Levels only ever widen (spec §4.4: "progressively include... up to
// the full list"); the engine never backs off a level once reached,
// even if a later pass would render identically without it, since
// doing so could reintroduce a collision resolved earlier.
type Level struct {
	NamesExpansion int // additional names shown beyond the style's et-al threshold
	GivenNameForm   GivenNameForm
	Disambiguate    bool // the <if disambiguate="true"> free condition
}

// widen returns the next level up from l, following step order: names,
// then given names, then the disambiguate branch trigger. It reports
// false if l is already at the ceiling (maxNames, GivenNameFull, and
// Disambiguate already true), meaning this cite has exhausted its
// ladder and any residual collision involving it is accepted.
func (l Level) widen(maxNames int) (Level, bool) {
	if l.NamesExpansion < maxNames {
		l.NamesExpansion++
		return l, true
	}
	if l.GivenNameForm < GivenNameFull {
		l.GivenNameForm++
		return l, true
	}
	if !l.Disambiguate {
		l.Disambiguate = true
		return l, true
	}
	return l, false
}

// widenStyle returns a copy of s with every <names> element's options
// adjusted for lvl: EtAlUseFirst raised by lvl.NamesExpansion names
// beyond its configured value, and given-name initialization overridden
// per lvl.GivenNameForm. The original style is left untouched so
// concurrent renders at other levels (for other cites) are unaffected.
func widenStyle(s *style.Style, lvl Level) *style.Style {
	if lvl.NamesExpansion == 0 && lvl.GivenNameForm == GivenNameAsConfigured {
		return s
	}
	out := *s
	out.Citation = widenElements(s.Citation, lvl)
	if s.Macros != nil {
		out.Macros = make(map[string]*style.Element, len(s.Macros))
		for name, m := range s.Macros {
			out.Macros[name] = widenElement(m, lvl)
		}
	}
	return &out
}

func widenElements(elements []*style.Element, lvl Level) []*style.Element {
	if elements == nil {
		return nil
	}
	out := make([]*style.Element, len(elements))
	for i, e := range elements {
		out[i] = widenElement(e, lvl)
	}
	return out
}

func widenElement(e *style.Element, lvl Level) *style.Element {
	if e == nil {
		return nil
	}
	cp := *e
	switch e.Kind {
	case style.ElementNames:
		cp.NameOptions = widenNameOptions(e.NameOptions, lvl)
	case style.ElementGroup:
		cp.Children = widenElements(e.Children, lvl)
	case style.ElementChoose:
		cp.Branches = make([]style.Branch, len(e.Branches))
		for i, br := range e.Branches {
			cp.Branches[i] = style.Branch{
				Condition: br.Condition,
				IsElse:    br.IsElse,
				Body:      widenElements(br.Body, lvl),
			}
		}
	}
	return &cp
}

func widenNameOptions(opts style.NameOptions, lvl Level) style.NameOptions {
	if lvl.NamesExpansion > 0 {
		opts.EtAlUseFirst += lvl.NamesExpansion
	}
	switch lvl.GivenNameForm {
	case GivenNameInitials:
		opts.Form = style.NameFormLong
		opts.InitializeWith = "."
	case GivenNameFull:
		opts.Form = style.NameFormLong
		opts.InitializeWith = ""
	}
	return opts
}
