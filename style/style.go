// Package style holds the compiled style tree the IR builder evaluates.
// Parsing the style's XML surface into this tree is an external
// collaborator's job (spec §1); this package only defines the tree's
// shape and the small set of style-wide options (see Options for which
// of them are read).
package style

import "github.com/tonycite/citeproc/cite"

// ElementKind tags the variant of an Element, mirroring package ir's own
// tagged-variant convention.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementGroup
	ElementChoose
	ElementNames
	ElementDate
	ElementNumber
	ElementLabel
	ElementYearSuffix
	ElementMacro
)

// TextSource selects what a <text> element pulls its content from.
type TextSource int

const (
	TextSourceVariable TextSource = iota
	TextSourceValue
	TextSourceTerm
	TextSourceMacro
)

// TextCase is the CSL text-case transform applied at the node producing
// the text, never re-applied at ancestors (spec §4.2).
type TextCase int

const (
	TextCaseNone TextCase = iota
	TextCaseLowercase
	TextCaseUppercase
	TextCaseCapitalizeFirst
	TextCaseCapitalizeAll
	TextCaseTitle
	TextCaseSentence
)

// Affixes is the common prefix/suffix/display/strip-periods attribute
// bundle most elements carry.
type Affixes struct {
	Prefix       string
	Suffix       string
	StripPeriods bool
	TextCase     TextCase
	Quotes       bool
	FontStyle    int // mirrors ir.FontStyle
	FontWeight   int // mirrors ir.FontWeight
	FontVariant  int // mirrors ir.FontVariant
}

// MatchMode is CSL's choose/if match attribute.
type MatchMode int

const (
	MatchAll MatchMode = iota
	MatchAny
	MatchNone
)

// Condition is one <if>/<else-if>'s test battery: spec §3's
// free-condition facts plus variable/type/locator predicates. Package
// cond evaluates a Condition's fields directly; only Expr is compiled
// (and the compiled program cached by its source text).
type Condition struct {
	Match MatchMode

	Variable     []string // "variable=..." -- has-variable(v)
	Type         []string // "type=..." -- reference CSL type
	IsNumeric    []string // "is-numeric=..."
	IsUncertainDate []string
	Position     []cite.Position // "position=..."
	Locator      []cite.LocatorType
	Disambiguate *bool // "disambiguate=true|false"

	// Expr is an optional expr-lang boolean expression evaluated
	// against a cond.Env, ANDed onto whatever the Match-mode
	// combination of the fields above produces. It is a SPEC_FULL
	// extension with no CSL XML attribute of its own; a style compiler
	// would populate it only for styles that need a test shape CSL's
	// fixed attribute set cannot express.
	Expr string
}

// NameForm selects a name-list rendering form.
type NameForm int

const (
	NameFormLong NameForm = iota
	NameFormShort
	NameFormCount
)

// NameOptions configures a <names>/<name> element's rendering and the
// disambiguation engine's expansion ladder (spec §4.4).
type NameOptions struct {
	EtAlMin                     int
	EtAlUseFirst                int
	EtAlSubsequentMin           int
	EtAlSubsequentUseFirst      int
	Delimiter                   string
	And                         string // "text" or "symbol", empty for none
	Form                        NameForm
	GivennameDisambiguationRule string // "all-names" | "all-names-with-initials" | "primary-name" | ...
	SortSeparator               string
	InitializeWith              string
}

// Element is the compiled style tree's tagged-variant node.
type Element struct {
	Kind ElementKind
	Affixes

	// ElementText
	TextSource TextSource
	Value      string // literal value / term name / macro name / variable name

	// ElementGroup / ElementChoose (else branch) / macro body
	Children []*Element
	Delim    string

	// ElementChoose
	Branches []Branch

	// ElementNames
	Variables   []string
	NameOptions NameOptions
	NameParts   []*Element // <name>/<et-al>/<substitute> children; not read by builder

	// ElementDate / ElementNumber / ElementLabel
	Form string // date form (numeric/text), or number form (ordinal/roman/cardinal)

	// ElementYearSuffix: no extra fields; the slot is resolved by disamb.
}

// Branch is one <if>/<else-if> arm (or the implicit always-true <else>
// arm, whose Condition is the zero value and is never consulted).
type Branch struct {
	Condition Condition
	IsElse    bool
	Body      []*Element
}

// Options are the style-wide settings spec §4.4/§4.5 reference:
// disambiguation strategy switches and the near-note-distance threshold.
// The processor reads NearNoteDistance, and the builder and cluster
// assembler read LayoutDelimiter and LayoutAffixes. The three
// DisambiguateAdd* switches and GivennameDisambiguationRule are stored
// but not read: the disambiguation engine always climbs its whole ladder
// (names, given names, disambiguate branches) and the processor always
// assigns year suffixes to cites that still collide.
type Options struct {
	DisambiguateAddNames        bool
	DisambiguateAddGivenname    bool
	DisambiguateAddYearSuffix   bool
	GivennameDisambiguationRule string
	NearNoteDistance            int
	LayoutDelimiter             string
	LayoutAffixes               Affixes
}

// DefaultOptions mirrors CSL's own defaults.
func DefaultOptions() Options {
	return Options{
		GivennameDisambiguationRule: "by-cite",
		NearNoteDistance:            5,
	}
}

// Style is the compiled style tree: a citation layout plus the macros
// it can reference by name.
type Style struct {
	Options Options
	Citation []*Element // the citation layout's body
	Macros   map[string]*Element
}

// Macro looks up a named macro's body and returns the stored element
// as is.
func (s *Style) Macro(name string) (*Element, bool) {
	e, ok := s.Macros[name]
	return e, ok
}
