package builder

import (
	"testing"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

func mustRef(t *testing.T, ordinary map[string]string, names map[string][]value.PersonName) value.Reference {
	t.Helper()
	return value.NewReference("ref1", "book", "en", ordinary, nil, names, nil)
}

func TestBuildTextVariableSuppressesEmptyGroup(t *testing.T) {
	s := &style.Style{
		Citation: []*style.Element{
			{
				Kind:  style.ElementGroup,
				Delim: " ",
				Children: []*style.Element{
					{Kind: style.ElementText, TextSource: style.TextSourceVariable, Value: "title"},
				},
			},
		},
	}
	b := New(s, nil)
	ref := mustRef(t, map[string]string{}, nil)
	ctx := refctx.New(ref, cite.PositionFirst, nil, false, false, nil, nil)

	node, vars, err := b.BuildCitation(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars.Renders() {
		t.Fatalf("expected the group not to render, got %v", vars)
	}
	if got := ir.Flatten(node); got != "" {
		t.Fatalf("expected empty flatten, got %q", got)
	}
}

func TestBuildTextVariableRenders(t *testing.T) {
	s := &style.Style{
		Citation: []*style.Element{
			{Kind: style.ElementText, TextSource: style.TextSourceVariable, Value: "title"},
		},
	}
	b := New(s, nil)
	ref := mustRef(t, map[string]string{"title": "On the Origin of Species"}, nil)
	ctx := refctx.New(ref, cite.PositionFirst, nil, false, false, nil, nil)

	node, vars, err := b.BuildCitation(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vars.Renders() {
		t.Fatalf("expected rendering")
	}
	if got := ir.Flatten(node); got != "On the Origin of Species" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildChooseSelectsMatchingBranch(t *testing.T) {
	s := &style.Style{
		Citation: []*style.Element{
			{
				Kind: style.ElementChoose,
				Branches: []style.Branch{
					{
						Condition: style.Condition{Variable: []string{"DOI"}},
						Body: []*style.Element{
							{Kind: style.ElementText, TextSource: style.TextSourceValue, Value: "has-doi"},
						},
					},
					{
						IsElse: true,
						Body: []*style.Element{
							{Kind: style.ElementText, TextSource: style.TextSourceValue, Value: "no-doi"},
						},
					},
				},
			},
		},
	}
	b := New(s, nil)

	withDOI := mustRef(t, map[string]string{"DOI": "10.1/x"}, nil)
	ctx := refctx.New(withDOI, cite.PositionFirst, nil, false, false, nil, nil)
	node, _, err := b.BuildCitation(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ir.Flatten(node); got != "has-doi" {
		t.Fatalf("got %q, want has-doi", got)
	}

	withoutDOI := mustRef(t, map[string]string{}, nil)
	ctx2 := refctx.New(withoutDOI, cite.PositionFirst, nil, false, false, nil, nil)
	node2, _, err := b.BuildCitation(ctx2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ir.Flatten(node2); got != "no-doi" {
		t.Fatalf("got %q, want no-doi", got)
	}
}

func TestBuildNamesEtAl(t *testing.T) {
	names := []value.PersonName{
		{Family: "Darwin", Given: "Charles"},
		{Family: "Wallace", Given: "Alfred"},
		{Family: "Huxley", Given: "Thomas"},
	}
	s := &style.Style{
		Citation: []*style.Element{
			{
				Kind:      style.ElementNames,
				Variables: []string{"author"},
				NameOptions: style.NameOptions{
					EtAlMin:      3,
					EtAlUseFirst: 1,
					Delimiter:    ", ",
					And:          "text",
				},
			},
		},
	}
	b := New(s, nil)
	ref := mustRef(t, nil, map[string][]value.PersonName{"author": names})
	ctx := refctx.New(ref, cite.PositionFirst, nil, false, false, nil, nil)

	node, _, err := b.BuildCitation(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := ir.Flatten(node), "Darwin, Charles et al."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNameListParticlesAndAnd(t *testing.T) {
	names := []value.PersonName{
		{Family: "Vlist", Given: "Eric", NonDroppingParticle: "van der"},
		{Family: "Doe", Given: "Jane"},
	}
	got := RenderNameList(names, style.NameOptions{Delimiter: ", ", And: "symbol"})
	want := "van der Vlist, Eric & Doe, Jane"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOrdinalAndRoman(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"}, {11, "11th"}, {21, "21st"}}
	for _, c := range cases {
		if got := ordinal(c.n); got != c.want {
			t.Errorf("ordinal(%d) = %q, want %q", c.n, got, c.want)
		}
	}
	if got := toRoman(1994); got != "mcmxciv" {
		t.Fatalf("toRoman(1994) = %q", got)
	}
}
