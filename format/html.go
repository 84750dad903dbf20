package format

import (
	"html"
	"strings"

	"github.com/tonycite/citeproc/ir"
)

// HTML renders n to a small, deliberately plain HTML dialect: <i> for
// italic/oblique, <b> for bold, <span style="font-variant:small-caps">
// for small caps, and &ldquo;/&rdquo; entities around quoted content
// (the same glyphs at every nesting depth). It is a
// reference serializer for exercising the flip-flop contract end to
// end, not a production output-format backend (spec §1 names that an
// external collaborator's concern).
func HTML(n *ir.Node) string {
	var b strings.Builder
	htmlInto(&b, FlipFlop(n))
	return b.String()
}

func htmlInto(b *strings.Builder, n *ir.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ir.KindText:
		b.WriteString(html.EscapeString(n.Text))
	case ir.KindFormatted:
		htmlFormatted(b, n)
	case ir.KindGroup:
		if !n.GroupVars.Renders() {
			return
		}
		htmlDelimited(b, n.Delim, n.Children)
	case ir.KindNames:
		b.WriteString(html.EscapeString(n.Rendered))
	case ir.KindChoose:
		htmlInto(b, n.Branch)
	case ir.KindYearSuffix:
		b.WriteString(html.EscapeString(n.Suffix))
	case ir.KindSeq:
		htmlDelimited(b, n.SeqDelim, n.Items)
	}
}

func htmlFormatted(b *strings.Builder, n *ir.Node) {
	tags := openTags(n.Bundle)
	b.WriteString(html.EscapeString(n.Bundle.Prefix))
	for _, t := range tags {
		b.WriteString(t.open)
	}
	if n.Bundle.Quotes {
		b.WriteString("&ldquo;")
	}
	htmlInto(b, n.Child)
	if n.Bundle.Quotes {
		b.WriteString("&rdquo;")
	}
	for i := len(tags) - 1; i >= 0; i-- {
		b.WriteString(tags[i].close)
	}
	b.WriteString(html.EscapeString(n.Bundle.Suffix))
}

type tagPair struct{ open, close string }

func openTags(bundle ir.Bundle) []tagPair {
	var tags []tagPair
	switch bundle.FontStyle {
	case ir.FontStyleItalic:
		tags = append(tags, tagPair{"<i>", "</i>"})
	case ir.FontStyleOblique:
		tags = append(tags, tagPair{`<i style="font-style:oblique">`, "</i>"})
	}
	if bundle.FontWeight == ir.FontWeightBold {
		tags = append(tags, tagPair{"<b>", "</b>"})
	} else if bundle.FontWeight == ir.FontWeightLight {
		tags = append(tags, tagPair{`<span style="font-weight:light">`, "</span>"})
	}
	if bundle.FontVariant == ir.FontVariantSmallCaps {
		tags = append(tags, tagPair{`<span style="font-variant:small-caps">`, "</span>"})
	}
	return tags
}

func htmlDelimited(b *strings.Builder, delim string, items []*ir.Node) {
	first := true
	for _, it := range items {
		rendered := ir.Flatten(it)
		if rendered == "" {
			continue
		}
		if !first {
			b.WriteString(html.EscapeString(delim))
		}
		htmlInto(b, it)
		first = false
	}
}
