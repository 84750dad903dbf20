// Package cluster assigns cite positions (spec §4.5) and assembles the
// final per-cluster rendered output from per-cite IR.
package cluster

import (
	"strings"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/style"
)

// CiteOccurrence is one cite's place in the document, in document
// order, with enough context to resolve its position: which cluster it
// belongs to, whether that cluster is note-numbered, and (for
// note-numbered clusters) the note number.
type CiteOccurrence struct {
	CiteID      cite.ID
	ClusterID   cite.ClusterID
	ReferenceID string
	Locator     *cite.Locator
	IsNote      bool
	NoteNumber  int
}

// Resolved carries a cite's computed position plus the positional free
// conditions the reference context needs (spec §4.1/§4.5).
type Resolved struct {
	Position                 cite.Position
	FirstReferenceNoteNumber *int
}

// ResolvePositions walks occurrences in document order (the caller's
// responsibility to pre-sort by cluster number then intra-cluster
// index) and assigns each one a Position per spec §4.5's rules,
// tracking, per reference, the most recent prior occurrence and its
// first note number.
func ResolvePositions(occurrences []CiteOccurrence, nearNoteDistance int) map[cite.ID]Resolved {
	seen := map[string]*refHistory{}
	out := make(map[cite.ID]Resolved, len(occurrences))

	for i := range occurrences {
		occ := &occurrences[i]
		h, known := seen[occ.ReferenceID]
		if !known {
			h = &refHistory{}
			seen[occ.ReferenceID] = h
		}

		var resolved Resolved
		switch {
		case h.last == nil:
			resolved.Position = cite.PositionFirst
		case isImmediatelyPreceding(h.last, occ, occurrences, i):
			if occ.Locator.Equal(h.last.Locator) {
				resolved.Position = cite.PositionIbid
			} else {
				resolved.Position = cite.PositionIbidWithLocator
			}
		default:
			resolved.Position = classifyDistance(h, occ, nearNoteDistance)
		}

		if h.hasFirstNote {
			n := h.firstNoteNum
			resolved.FirstReferenceNoteNumber = &n
		}

		out[occ.CiteID] = resolved

		if !h.hasFirstNote && occ.IsNote {
			h.firstNoteNum = occ.NoteNumber
			h.hasFirstNote = true
		}
		h.last = occ
	}
	return out
}

// isImmediatelyPreceding reports whether prior is the cite occurring
// immediately before occ in document order (no other cite of any
// reference between them), the condition for Ibid/IbidWithLocator:
// same-reference repetition elsewhere in the same cluster does not
// qualify unless it is also the immediately preceding cite.
func isImmediatelyPreceding(prior *CiteOccurrence, occ *CiteOccurrence, all []CiteOccurrence, occIdx int) bool {
	if occIdx == 0 {
		return false
	}
	return all[occIdx-1].CiteID == prior.CiteID
}

// refHistory tracks, per reference, the most recent prior occurrence
// plus the note number of the first time it was cited.
type refHistory struct {
	last         *CiteOccurrence
	firstNoteNum int
	hasFirstNote bool
}

// classifyDistance decides Subsequent vs NearNote/FarNote once a cite
// is neither first nor ibid: note-numbered styles refine by distance
// to the reference's first prior citation (spec §4.5: NearNote/FarNote
// are refinements of Subsequent based on "distance...to the first
// previous citation of the same reference"); non-note styles are
// always plain Subsequent.
func classifyDistance(h *refHistory, occ *CiteOccurrence, nearNoteDistance int) cite.Position {
	if !occ.IsNote || !h.hasFirstNote {
		return cite.PositionSubsequent
	}
	distance := occ.NoteNumber - h.firstNoteNum
	if distance < 0 {
		distance = -distance
	}
	if distance <= nearNoteDistance {
		return cite.PositionNearNote
	}
	return cite.PositionFarNote
}

// RenderedCite is a rendered cite within an assembled cluster: its IR
// node (kept so year suffixes can be applied once
// disamb.AssignYearSuffixes runs after the initial render). Prefix/
// Suffix mirror cite.Cite's already-built micro-formatted inline trees
// and wrap the cite's own rendered text directly, with no delimiter of
// their own (spec §3).
type RenderedCite struct {
	CiteID ID
	Node   *ir.Node
	Prefix *ir.Node
	Suffix *ir.Node
}

// ID is re-exported for callers that only import package cluster.
type ID = cite.ID

// Assemble concatenates a cluster's cites into one string using the
// style's layout delimiter and affixes (spec §4.5's closing
// obligation: "flattens each cite's final IR into output and
// concatenates cites within a cluster using the style's layout
// delimiter and affixes"). formatText renders one cite's IR to its
// final output-format text (plain-text/HTML/RTF, package format);
// passing ir.Flatten directly yields the plain-text form. Each cite's
// own Prefix/Suffix, if set, wrap its rendered text before the cites
// are joined.
func Assemble(cites []RenderedCite, opts style.Options, formatText func(*ir.Node) string) string {
	parts := make([]string, 0, len(cites))
	for _, c := range cites {
		text := formatText(c.Node)
		if text == "" {
			continue
		}
		if c.Prefix != nil {
			text = formatText(c.Prefix) + text
		}
		if c.Suffix != nil {
			text = text + formatText(c.Suffix)
		}
		parts = append(parts, text)
	}
	body := strings.Join(parts, opts.LayoutDelimiter)
	if body == "" {
		return ""
	}
	return opts.LayoutAffixes.Prefix + body + opts.LayoutAffixes.Suffix
}
