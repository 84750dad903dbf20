package format

import (
	"strings"

	"github.com/tonycite/citeproc/ir"
)

// RTF renders n to a minimal Rich Text Format control-word fragment:
// \i for italic/oblique, \b for bold, \scaps for small caps. Like
// HTML, this is a reference serializer exercising the flip-flop
// contract end to end, not a production RTF backend.
func RTF(n *ir.Node) string {
	var b strings.Builder
	rtfInto(&b, FlipFlop(n))
	return b.String()
}

func rtfInto(b *strings.Builder, n *ir.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ir.KindText:
		b.WriteString(rtfEscape(n.Text))
	case ir.KindFormatted:
		rtfFormatted(b, n)
	case ir.KindGroup:
		if !n.GroupVars.Renders() {
			return
		}
		rtfDelimited(b, n.Delim, n.Children)
	case ir.KindNames:
		b.WriteString(rtfEscape(n.Rendered))
	case ir.KindChoose:
		rtfInto(b, n.Branch)
	case ir.KindYearSuffix:
		b.WriteString(rtfEscape(n.Suffix))
	case ir.KindSeq:
		rtfDelimited(b, n.SeqDelim, n.Items)
	}
}

func rtfFormatted(b *strings.Builder, n *ir.Node) {
	var open, close []string
	switch n.Bundle.FontStyle {
	case ir.FontStyleItalic, ir.FontStyleOblique:
		open = append(open, `{\i `)
		close = append(close, `}`)
	}
	if n.Bundle.FontWeight == ir.FontWeightBold {
		open = append(open, `{\b `)
		close = append(close, `}`)
	}
	if n.Bundle.FontVariant == ir.FontVariantSmallCaps {
		open = append(open, `{\scaps `)
		close = append(close, `}`)
	}

	b.WriteString(rtfEscape(n.Bundle.Prefix))
	for _, o := range open {
		b.WriteString(o)
	}
	if n.Bundle.Quotes {
		b.WriteString(`\ldblquote `)
	}
	rtfInto(b, n.Child)
	if n.Bundle.Quotes {
		b.WriteString(`\rdblquote `)
	}
	for i := len(close) - 1; i >= 0; i-- {
		b.WriteString(close[i])
	}
	b.WriteString(rtfEscape(n.Bundle.Suffix))
}

func rtfDelimited(b *strings.Builder, delim string, items []*ir.Node) {
	first := true
	for _, it := range items {
		rendered := ir.Flatten(it)
		if rendered == "" {
			continue
		}
		if !first {
			b.WriteString(rtfEscape(delim))
		}
		rtfInto(b, it)
		first = false
	}
}

// rtfEscape escapes RTF's three control characters; everything else,
// including a bare "/", passes through untouched.
func rtfEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `{`, `\{`)
	s = strings.ReplaceAll(s, `}`, `\}`)
	return s
}
