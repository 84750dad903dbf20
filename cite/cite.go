// Package cite defines the document-facing value types: cites and
// clusters (spec §3), plus the Position enumeration the cluster
// assembler computes for each cite.
package cite

import (
	"fmt"

	"github.com/tonycite/citeproc/errs"
	"github.com/tonycite/citeproc/ir"
)

// Position is a cite's relation to earlier cites of the same reference,
// per spec §4.5.
type Position int

const (
	PositionFirst Position = iota
	PositionIbid
	PositionIbidWithLocator
	PositionSubsequent
	PositionNearNote
	PositionFarNote
)

func (p Position) String() string {
	switch p {
	case PositionFirst:
		return "first"
	case PositionIbid:
		return "ibid"
	case PositionIbidWithLocator:
		return "ibid-with-locator"
	case PositionSubsequent:
		return "subsequent"
	case PositionNearNote:
		return "near-note"
	case PositionFarNote:
		return "far-note"
	default:
		return "<unknown position>"
	}
}

// LocatorType is one of CSL's recognized locator kinds (page, paragraph,
// section, chapter, ...). Unlike variable names, the set of locator
// types is closed; an unrecognized one on input is an invariant
// violation per spec §7.
type LocatorType string

const (
	LocatorPage      LocatorType = "page"
	LocatorParagraph LocatorType = "paragraph"
	LocatorSection   LocatorType = "section"
	LocatorChapter   LocatorType = "chapter"
	LocatorVerse     LocatorType = "verse"
	LocatorColumn    LocatorType = "column"
	LocatorLine      LocatorType = "line"
	LocatorNote      LocatorType = "note"
	LocatorFigure    LocatorType = "figure"
	LocatorFolio     LocatorType = "folio"
	LocatorIssue     LocatorType = "issue"
	LocatorVolume    LocatorType = "volume"
)

var knownLocatorTypes = map[LocatorType]bool{
	LocatorPage: true, LocatorParagraph: true, LocatorSection: true,
	LocatorChapter: true, LocatorVerse: true, LocatorColumn: true,
	LocatorLine: true, LocatorNote: true, LocatorFigure: true,
	LocatorFolio: true, LocatorIssue: true, LocatorVolume: true,
}

// ValidateLocatorType reports an invariant violation for an unrecognized
// locator type, per spec §7.
func ValidateLocatorType(t LocatorType) error {
	if !knownLocatorTypes[t] {
		return fmt.Errorf("%w: unknown locator type %q", errs.ErrInvariantViolation, t)
	}
	return nil
}

// Locator pairs a recognized type with its rendered value text.
type Locator struct {
	Type  LocatorType
	Value string
}

// Equal reports whether two locators are the same type and value, which
// is what distinguishes Ibid from IbidWithLocator (spec §4.5).
func (l *Locator) Equal(o *Locator) bool {
	if l == nil && o == nil {
		return true
	}
	if l == nil || o == nil {
		return false
	}
	return l.Type == o.Type && l.Value == o.Value
}

// ID identifies a cite. The host supplies it on each Cite; the processor
// stores cites under that id and does not assign ids of its own.
type ID int64

// Suppression controls whether a cite's in-text author or its remaining
// content is suppressed (author-only / suppress-author rendering
// modes). Setting both is an invariant violation: "rest" without
// authors to suppress in front of it is meaningless when in-text is
// already gone, per spec §7.
type Suppression struct {
	InText bool
	Rest   bool
}

// Validate reports an invariant violation when both flags are set.
func (s Suppression) Validate() error {
	if s.InText && s.Rest {
		return fmt.Errorf("%w: cite cannot suppress both in-text and rest", errs.ErrInvariantViolation)
	}
	return nil
}

// Cite is a single reference-to-reference occurrence within a cluster
// (spec §3). Prefix/Suffix are already-built micro-formatted inline
// trees (flip-flop and other string micro-formatting are an external
// collaborator's concern per spec §1; the core only concatenates them).
type Cite struct {
	ID          ID
	ReferenceID string
	Locator     *Locator
	Prefix      *ir.Node
	Suffix      *ir.Node
	Suppression Suppression
}

// ClusterID identifies a cluster, assigned by the host application.
type ClusterID string

// ClusterNumber is either an in-text ordinal or a note number with an
// optional intra-note sub-index disambiguating same-note clusters
// (spec §3).
type ClusterNumber struct {
	IsNote   bool
	Note     int
	SubIndex int
	InText   int
}

// Less orders two cluster numbers by document position: note number
// then intra-note sub-index when both are note-numbered, in-text
// ordinal otherwise. A style uses one numbering scheme consistently, so
// mixed-mode comparison is not expected in practice.
func (n ClusterNumber) Less(o ClusterNumber) bool {
	if n.IsNote && o.IsNote {
		if n.Note != o.Note {
			return n.Note < o.Note
		}
		return n.SubIndex < o.SubIndex
	}
	if !n.IsNote && !o.IsNote {
		return n.InText < o.InText
	}
	return n.IsNote && !o.IsNote
}

// Cluster is a set of cites appearing together at one document site
// (spec §3). The host supplies the document-order list of cluster IDs
// separately (processor.InitClusters / InsertCluster).
type Cluster struct {
	ID     ClusterID
	Number ClusterNumber
	CiteIDs []ID
}
