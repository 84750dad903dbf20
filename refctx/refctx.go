// Package refctx implements the reference context: the read-only
// adapter over a reference plus per-cite layout context that is the
// sole surface the style's conditional evaluator consults (spec §4.1).
// Modeling it as a capability interface, per design note in spec §9,
// lets the disambiguation engine substitute synthetic contexts (see
// WithDisambiguate and WithYearSuffix) when exploring free conditions
// without touching the builder.
package refctx

import (
	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/value"
)

// NameForm selects which form of a name variable to resolve when
// asking for a rendered name list; kept here rather than in package
// value because it is a request parameter, not a stored value.
type NameForm int

const (
	NameFormLong NameForm = iota
	NameFormShort
	NameFormCount
)

// Context is the capability interface the style's choose/if evaluator
// and the IR builder consult. Extending a condition source means
// extending this interface and nothing else, per spec §4.1.
type Context interface {
	// GetOrdinary returns an ordinary (text) variable, resolving the
	// "short" form fallback (title -> title-short,
	// container-title -> container-title-short) when short is true and
	// the long form is requested but empty, per spec §4.1.
	GetOrdinary(variable string, short bool) (string, bool)
	GetNumber(variable string) (value.Number, bool)
	GetDate(variable string) (value.DateOrRange, bool)
	GetNames(variable string) ([]value.PersonName, bool)

	// HasVariable answers "does this reference have variable V", with
	// the three virtual variables answered from position/layout
	// context rather than the reference map.
	HasVariable(variable string) bool
	// IsNumeric returns true only for number variables whose value
	// parses as numeric, per spec §4.1.
	IsNumeric(variable string) bool

	Type() string
	Lang() string

	Position() cite.Position
	HasLocator() bool
	LocatorType() (cite.LocatorType, bool)
	// LocatorValue returns the locator's rendered value text, e.g. "42"
	// or "12-15", for the <text variable="locator"/> rendering path.
	LocatorValue() (string, bool)
	HasYearSuffix() bool
	Disambiguate() bool
	FirstReferenceNoteNumber() (int, bool)
	CitationNumber() (int, bool)
}

// refContext is the concrete, normal implementation of Context: it
// reads from a real value.Reference plus the layout facts the cluster
// assembler computed for one cite.
type refContext struct {
	ref value.Reference

	position          cite.Position
	locator           *cite.Locator
	yearSuffix        bool
	disambiguate      bool
	firstRefNoteNum   int
	hasFirstRefNoteNum bool
	citationNumber    int
	hasCitationNumber bool
}

// New builds the normal reference context for one cite.
func New(ref value.Reference, position cite.Position, locator *cite.Locator, yearSuffixAvailable, disambiguate bool, firstRefNoteNumber *int, citationNumber *int) Context {
	c := &refContext{
		ref:          ref,
		position:     position,
		locator:      locator,
		yearSuffix:   yearSuffixAvailable,
		disambiguate: disambiguate,
	}
	if firstRefNoteNumber != nil {
		c.firstRefNoteNum = *firstRefNoteNumber
		c.hasFirstRefNoteNum = true
	}
	if citationNumber != nil {
		c.citationNumber = *citationNumber
		c.hasCitationNumber = true
	}
	return c
}

func (c *refContext) GetOrdinary(variable string, short bool) (string, bool) {
	v, ok := c.ref.Ordinary[variable]
	if ok && v != "" {
		return v, true
	}
	if short {
		if sf, hasSF := value.ShortForm(variable); hasSF {
			if sv, ok := c.ref.Ordinary[sf]; ok && sv != "" {
				return sv, true
			}
		}
	}
	return v, v != ""
}

func (c *refContext) GetNumber(variable string) (value.Number, bool) {
	n, ok := c.ref.Number[variable]
	return n, ok && n.Raw != ""
}

func (c *refContext) GetDate(variable string) (value.DateOrRange, bool) {
	d, ok := c.ref.Date[variable]
	return d, ok && !d.IsZero()
}

func (c *refContext) GetNames(variable string) ([]value.PersonName, bool) {
	n, ok := c.ref.Name[variable]
	return n, ok && len(n) > 0
}

func (c *refContext) HasVariable(variable string) bool {
	switch variable {
	case "locator":
		return c.locator != nil
	case "first-reference-note-number":
		return c.hasFirstRefNoteNum
	case "citation-number":
		return c.hasCitationNumber
	}
	switch value.CategoryOf(variable) {
	case value.CategoryOrdinary:
		_, ok := c.GetOrdinary(variable, false)
		return ok
	case value.CategoryNumber:
		_, ok := c.GetNumber(variable)
		return ok
	case value.CategoryName:
		_, ok := c.GetNames(variable)
		return ok
	case value.CategoryDate:
		_, ok := c.GetDate(variable)
		return ok
	default:
		return false
	}
}

func (c *refContext) IsNumeric(variable string) bool {
	if value.CategoryOf(variable) != value.CategoryNumber && !isVirtualNumeric(variable) {
		return false
	}
	if variable == "locator" {
		if c.locator == nil {
			return false
		}
		return value.NewNumber(c.locator.Value).IsNumeric()
	}
	n, ok := c.GetNumber(variable)
	if !ok {
		return false
	}
	return n.IsNumeric()
}

func isVirtualNumeric(variable string) bool {
	return variable == "locator" || variable == "first-reference-note-number" || variable == "citation-number"
}

func (c *refContext) Type() string { return c.ref.Type }
func (c *refContext) Lang() string { return c.ref.Lang }

func (c *refContext) Position() cite.Position { return c.position }
func (c *refContext) HasLocator() bool        { return c.locator != nil }
func (c *refContext) LocatorType() (cite.LocatorType, bool) {
	if c.locator == nil {
		return "", false
	}
	return c.locator.Type, true
}
func (c *refContext) LocatorValue() (string, bool) {
	if c.locator == nil {
		return "", false
	}
	return c.locator.Value, true
}
func (c *refContext) HasYearSuffix() bool { return c.yearSuffix }
func (c *refContext) Disambiguate() bool  { return c.disambiguate }
func (c *refContext) FirstReferenceNoteNumber() (int, bool) {
	return c.firstRefNoteNum, c.hasFirstRefNoteNum
}
func (c *refContext) CitationNumber() (int, bool) {
	return c.citationNumber, c.hasCitationNumber
}

// WithDisambiguate returns a shallow copy of ctx with Disambiguate()
// overridden, used by the disambiguation engine's pass 3 to re-evaluate
// IR under the disambiguate=true free condition without mutating the
// original context (spec §4.4).
func WithDisambiguate(ctx Context, disambiguate bool) Context {
	rc, ok := ctx.(*refContext)
	if !ok {
		return ctx
	}
	cp := *rc
	cp.disambiguate = disambiguate
	return &cp
}

// WithYearSuffix returns a shallow copy of ctx with HasYearSuffix()
// overridden, used once year suffixes are assigned (pass 4).
func WithYearSuffix(ctx Context, has bool) Context {
	rc, ok := ctx.(*refContext)
	if !ok {
		return ctx
	}
	cp := *rc
	cp.yearSuffix = has
	return &cp
}
