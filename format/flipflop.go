// Package format implements the small, self-contained contract the
// rendering core owes an output-format backend (spec §5): flip-flop
// normalization of nested identical formatting, plus reference plain-
// text, HTML and RTF serializers good enough to exercise and test that
// contract. A real HTML/RTF/ODT backend is an external collaborator's
// concern (spec §1); these three serializers are not meant to reach
// parity with one.
package format

import "github.com/tonycite/citeproc/ir"

// flipFlopState tracks, while descending the IR tree, which formatting
// attribute is "currently active" so that a nested Formatted node
// requesting the same attribute can flip it off instead of re-applying
// it — CSL's flip-flop rule, ported from
// flip_flop.rs's FlipFlopState/flip_flop.
type flipFlopState struct {
	emph       ir.FontStyle
	inEmph     bool
	inStrong   bool
	inSmallCaps bool
}

// FlipFlop returns a copy of n with nested identical formatting
// commands normalized: a Formatted node whose FontStyle/FontWeight/
// FontVariant matches an ancestor's already-active value has that
// field cleared (so the serializer won't double-apply or immediately
// re-close-and-reopen the same markup), exactly as flip_flop in
// flip_flop.rs clears new_f's matching field rather than leaving it
// on the clone. n is never mutated.
func FlipFlop(n *ir.Node) *ir.Node {
	return flipFlop(n, flipFlopState{})
}

func flipFlop(n *ir.Node, state flipFlopState) *ir.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ir.KindFormatted:
		return flipFlopFormatted(n, state)
	case ir.KindGroup:
		cp := *n
		cp.Children = flipFlopAll(n.Children, state)
		return &cp
	case ir.KindChoose:
		cp := *n
		cp.Branch = flipFlop(n.Branch, state)
		return &cp
	case ir.KindSeq:
		cp := *n
		cp.Items = flipFlopAll(n.Items, state)
		return &cp
	default:
		return n
	}
}

func flipFlopAll(nodes []*ir.Node, state flipFlopState) []*ir.Node {
	if nodes == nil {
		return nil
	}
	out := make([]*ir.Node, len(nodes))
	for i, c := range nodes {
		out[i] = flipFlop(c, state)
	}
	return out
}

func flipFlopFormatted(n *ir.Node, state flipFlopState) *ir.Node {
	next := state
	bundle := n.Bundle

	if n.Bundle.FontStyle != ir.FontStyleNormal {
		if n.Bundle.FontStyle == state.emph {
			bundle.FontStyle = ir.FontStyleNormal
		}
		next.inEmph = n.Bundle.FontStyle == ir.FontStyleItalic || n.Bundle.FontStyle == ir.FontStyleOblique
		next.emph = n.Bundle.FontStyle
	}

	if n.Bundle.FontWeight == ir.FontWeightBold {
		if state.inStrong {
			bundle.FontWeight = ir.FontWeightNormal
		}
		next.inStrong = true
	} else if n.Bundle.FontWeight != ir.FontWeightNormal {
		next.inStrong = false
	}

	if n.Bundle.FontVariant == ir.FontVariantSmallCaps {
		if state.inSmallCaps {
			bundle.FontVariant = ir.FontVariantNormal
		}
		next.inSmallCaps = true
	}

	return &ir.Node{
		Kind:   ir.KindFormatted,
		Bundle: bundle,
		Child:  flipFlop(n.Child, next),
	}
}
