// Package ir implements the intermediate representation the style
// evaluator (package builder) produces from a compiled style subtree and
// a cite context: a tree of tagged-variant nodes whose in-order leaf
// flattening is the rendered output (spec §3, "IR node").
//
// Nodes are a sum type dispatched by Kind, not a class hierarchy —
// traversal is by switch over Kind with one case per variant, following
// the teacher's own tagged-variant convention (see GroupVars for the
// companion state machine).
package ir

import "fmt"

// Kind tags the variant of a Node.
type Kind int

const (
	KindText Kind = iota
	KindFormatted
	KindGroup
	KindNames
	KindChoose
	KindYearSuffix
	KindSeq
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		KindText:       "Text",
		KindFormatted:  "Formatted",
		KindGroup:      "Group",
		KindNames:      "Names",
		KindChoose:     "Choose",
		KindYearSuffix: "YearSuffix",
		KindSeq:        "Seq",
	}[k]
	if ok {
		return s
	}
	return "<unknown ir.Kind>"
}

// FontStyle, FontWeight, FontVariant and Quotes mirror the small set of
// CSL formatting attributes a Formatted node may carry. They are the
// "formatting bundle" referenced by spec §3; flip-flop toggling over
// nested reapplication of these is implemented in package format.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

type FontWeight int

const (
	FontWeightNormal FontWeight = iota
	FontWeightBold
	FontWeightLight
)

type FontVariant int

const (
	FontVariantNormal FontVariant = iota
	FontVariantSmallCaps
)

// Bundle is the affix/format state carried by a Formatted node.
type Bundle struct {
	FontStyle   FontStyle
	FontWeight  FontWeight
	FontVariant FontVariant
	Quotes      bool
	Prefix      string
	Suffix      string
}

// Node is the IR tagged-variant tree. Only the fields relevant to Kind
// are populated; callers must switch on Kind before reading them,
// exactly as the teacher's ir.Node switches on Type before reading
// Int64/Float64/String/etc.
type Node struct {
	Kind Kind

	// KindText
	Text string

	// KindFormatted
	Bundle   Bundle
	Child    *Node

	// KindGroup
	Children  []*Node
	GroupVars GroupVars
	Delim     string

	// KindNames
	Rendered string // the flattened, already-formed name-list text
	NamesVar string // the name variable this list was rendered from

	// KindChoose
	Branch *Node // the single selected branch's IR, or nil if none matched

	// KindYearSuffix
	Suffix string // empty until the disambiguation engine's pass 4 assigns one

	// KindSeq
	Items []*Node
	SeqDelim string
}

// Text builds a leaf text-run node.
func Text(s string) *Node { return &Node{Kind: KindText, Text: s} }

// Formatted wraps child in a formatting bundle.
func Formatted(b Bundle, child *Node) *Node {
	return &Node{Kind: KindFormatted, Bundle: b, Child: child}
}

// Group builds a conditional-group node. Its GroupVars field starts as
// NoneSeen; the builder folds the children's summaries with
// GroupVars.ParentNew and assigns the result before Flatten or a
// serializer consults it.
func Group(delim string, children ...*Node) *Node {
	return &Node{Kind: KindGroup, Delim: delim, Children: children}
}

// Seq builds an unconditional sequence node (always renders, unlike
// Group, which suppresses on OnlyEmpty).
func Seq(delim string, items ...*Node) *Node {
	return &Node{Kind: KindSeq, SeqDelim: delim, Items: items}
}

// Names builds a name-list leaf, already flattened to its rendered text
// by the name engine (builder delegates name rendering; see disamb for
// how that text changes across disambiguation passes).
func Names(variable, rendered string) *Node {
	return &Node{Kind: KindNames, NamesVar: variable, Rendered: rendered}
}

// Choose builds a choose node around the single selected branch (or nil
// if no branch's condition matched and there was no else).
func Choose(branch *Node) *Node {
	return &Node{Kind: KindChoose, Branch: branch}
}

// YearSuffix builds a year-suffix slot. Flatten renders it as empty
// until Suffix is assigned by the disambiguation engine's pass 4.
func YearSuffix() *Node { return &Node{Kind: KindYearSuffix} }

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%q)", n.Kind, flattenPreview(n))
}

func flattenPreview(n *Node) string {
	s := Flatten(n)
	if len(s) > 40 {
		return s[:40] + "…"
	}
	return s
}
