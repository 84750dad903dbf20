package format

import (
	"testing"

	"github.com/tonycite/citeproc/ir"
)

func TestFlipFlopClearsRepeatedItalic(t *testing.T) {
	inner := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleItalic}, ir.Text("inner"))
	outer := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleItalic}, inner)

	got := FlipFlop(outer)
	if got.Bundle.FontStyle != ir.FontStyleItalic {
		t.Fatalf("outer FontStyle = %v, want Italic", got.Bundle.FontStyle)
	}
	if got.Child.Bundle.FontStyle != ir.FontStyleNormal {
		t.Fatalf("inner FontStyle = %v, want Normal (flipped off)", got.Child.Bundle.FontStyle)
	}
}

func TestFlipFlopKeepsDistinctStyles(t *testing.T) {
	inner := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleOblique}, ir.Text("inner"))
	outer := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleItalic}, inner)

	got := FlipFlop(outer)
	if got.Child.Bundle.FontStyle != ir.FontStyleOblique {
		t.Fatalf("inner FontStyle = %v, want Oblique (unchanged, distinct from outer)", got.Child.Bundle.FontStyle)
	}
}

func TestFlipFlopClearsRepeatedBold(t *testing.T) {
	inner := ir.Formatted(ir.Bundle{FontWeight: ir.FontWeightBold}, ir.Text("x"))
	outer := ir.Formatted(ir.Bundle{FontWeight: ir.FontWeightBold}, inner)

	got := FlipFlop(outer)
	if got.Child.Bundle.FontWeight != ir.FontWeightNormal {
		t.Fatalf("inner FontWeight = %v, want Normal", got.Child.Bundle.FontWeight)
	}
}

func TestPlainTextIgnoresFormattingButKeepsAffixes(t *testing.T) {
	node := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleItalic, Prefix: "(", Suffix: ")"}, ir.Text("1999"))
	if got, want := PlainText(node), "(1999)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHTMLWrapsItalicAndEscapes(t *testing.T) {
	node := ir.Formatted(ir.Bundle{FontStyle: ir.FontStyleItalic}, ir.Text("A & B"))
	got := HTML(node)
	want := "<i>A &amp; B</i>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHTMLFlipFlopsNestedBold(t *testing.T) {
	inner := ir.Formatted(ir.Bundle{FontWeight: ir.FontWeightBold}, ir.Text("y"))
	outer := ir.Formatted(ir.Bundle{FontWeight: ir.FontWeightBold}, ir.Seq("", inner))
	got := HTML(outer)
	want := "<b>y</b>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHTMLGroupSkipsEmptyAndJoinsWithDelimiter(t *testing.T) {
	g := ir.Group(", ", ir.Text("a"), ir.Text(""), ir.Text("b"))
	g.GroupVars = ir.DidRender
	got := HTML(g)
	want := "a, b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHTMLDoesNotEscapeSlash(t *testing.T) {
	got := HTML(ir.Text("10/2020"))
	if got != "10/2020" {
		t.Fatalf("got %q, want unescaped slash", got)
	}
}

func TestRTFWrapsBoldAndEscapesBraces(t *testing.T) {
	node := ir.Formatted(ir.Bundle{FontWeight: ir.FontWeightBold}, ir.Text("a{b}c"))
	got := RTF(node)
	want := `{\b a\{b\}c}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
