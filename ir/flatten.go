package ir

import "strings"

// Flatten renders n to its in-order leaf text, per spec §3 ("the IR is a
// tree; its in-order leaf flattening is the rendered output"). A Group
// whose GroupVars summary is OnlyEmpty contributes nothing, per §4.3.
func Flatten(n *Node) string {
	var b strings.Builder
	flattenInto(&b, n)
	return b.String()
}

func flattenInto(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindFormatted:
		b.WriteString(n.Bundle.Prefix)
		flattenInto(b, n.Child)
		b.WriteString(n.Bundle.Suffix)
	case KindGroup:
		if !n.GroupVars.Renders() {
			return
		}
		writeDelimited(b, n.Delim, n.Children)
	case KindNames:
		b.WriteString(n.Rendered)
	case KindChoose:
		flattenInto(b, n.Branch)
	case KindYearSuffix:
		b.WriteString(n.Suffix)
	case KindSeq:
		writeDelimited(b, n.SeqDelim, n.Items)
	}
}

func writeDelimited(b *strings.Builder, delim string, items []*Node) {
	first := true
	for _, it := range items {
		rendered := Flatten(it)
		if rendered == "" && it != nil && it.Kind == KindGroup && !it.GroupVars.Renders() {
			continue
		}
		if rendered == "" {
			continue
		}
		if !first {
			b.WriteString(delim)
		}
		b.WriteString(rendered)
		first = false
	}
}

// Renders reports whether n contributes any output at all, used by the
// builder to compute the GroupVars leaf contribution of a compound
// child (spec §4.2: "a variable-referencing leaf that yields empty
// ... record OnlyEmpty").
func Renders(n *Node) bool {
	return Flatten(n) != ""
}

// Walk visits every node in the tree rooted at n, pre-order, including
// n itself. It stops early if visit returns false.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	switch n.Kind {
	case KindFormatted:
		Walk(n.Child, visit)
	case KindGroup:
		for _, c := range n.Children {
			Walk(c, visit)
		}
	case KindChoose:
		Walk(n.Branch, visit)
	case KindSeq:
		for _, c := range n.Items {
			Walk(c, visit)
		}
	}
}
