package disamb

import (
	"testing"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

func oneAuthorNames(family, given string) []value.PersonName {
	return []value.PersonName{{Family: family, Given: given}}
}

func TestResolveExpandsNamesToBreakCollision(t *testing.T) {
	s := &style.Style{
		Citation: []*style.Element{
			{
				Kind:      style.ElementNames,
				Variables: []string{"author"},
				NameOptions: style.NameOptions{
					Delimiter: ", ",
					Form:      style.NameFormShort,
				},
			},
		},
	}

	refA := value.NewReference("r1", "book", "en", nil, nil, map[string][]value.PersonName{
		"author": oneAuthorNames("Smith", "Alice"),
	}, nil)
	refB := value.NewReference("r2", "book", "en", nil, nil, map[string][]value.PersonName{
		"author": oneAuthorNames("Smith", "Bob"),
	}, nil)

	ctxA := refctx.New(refA, cite.PositionFirst, nil, false, false, nil, nil)
	ctxB := refctx.New(refB, cite.PositionFirst, nil, false, false, nil, nil)

	engine := NewEngine(s, nil)
	engine.MaxNamesExpansion = 0 // this style has a single author per reference; no et-al ladder to climb
	result, err := engine.Resolve([]CiteInput{
		{ID: 1, ReferenceID: "r1", Context: ctxA},
		{ID: 2, ReferenceID: "r2", Context: ctxB},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Rendered[1] == result.Rendered[2] {
		t.Fatalf("expected cites to be disambiguated, both rendered %q", result.Rendered[1])
	}
	if result.ResidualCollide[1] || result.ResidualCollide[2] {
		t.Fatalf("did not expect residual collisions: %+v", result.ResidualCollide)
	}
}

func TestAssignYearSuffixes(t *testing.T) {
	refs := []value.Reference{
		value.NewReference("r1", "book", "en",
			nil, nil,
			map[string][]value.PersonName{"author": oneAuthorNames("Darwin", "Charles")},
			map[string]value.DateOrRange{"issued": {Start: value.Date{Year: 1859}}},
		),
		value.NewReference("r2", "book", "en",
			nil, nil,
			map[string][]value.PersonName{"author": oneAuthorNames("Darwin", "Charles")},
			map[string]value.DateOrRange{"issued": {Start: value.Date{Year: 1859}}},
		),
	}
	cited := map[string]bool{"r1": true, "r2": true}
	suffixes := AssignYearSuffixes(refs, cited, func(r value.Reference) string {
		return r.ID
	})
	if suffixes["r1"] == suffixes["r2"] {
		t.Fatalf("expected distinct suffixes, got %q and %q", suffixes["r1"], suffixes["r2"])
	}
	if suffixes["r1"] != "a" && suffixes["r1"] != "b" {
		t.Fatalf("unexpected suffix %q", suffixes["r1"])
	}
}

func TestSuffixLetterSequence(t *testing.T) {
	cases := map[int]string{0: "a", 25: "z", 26: "aa", 27: "ab"}
	for i, want := range cases {
		if got := suffixLetter(i); got != want {
			t.Errorf("suffixLetter(%d) = %q, want %q", i, got, want)
		}
	}
}
