package cluster

import (
	"testing"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/style"
)

func TestResolvePositionsFirstThenIbid(t *testing.T) {
	occs := []CiteOccurrence{
		{CiteID: 1, ClusterID: "c1", ReferenceID: "r1"},
		{CiteID: 2, ClusterID: "c1", ReferenceID: "r1"},
	}
	resolved := ResolvePositions(occs, 5)
	if resolved[1].Position != cite.PositionFirst {
		t.Fatalf("got %v, want First", resolved[1].Position)
	}
	if resolved[2].Position != cite.PositionIbid {
		t.Fatalf("got %v, want Ibid", resolved[2].Position)
	}
}

func TestResolvePositionsIbidWithLocator(t *testing.T) {
	occs := []CiteOccurrence{
		{CiteID: 1, ClusterID: "c1", ReferenceID: "r1", Locator: &cite.Locator{Type: cite.LocatorPage, Value: "5"}},
		{CiteID: 2, ClusterID: "c2", ReferenceID: "r1", Locator: &cite.Locator{Type: cite.LocatorPage, Value: "9"}},
	}
	resolved := ResolvePositions(occs, 5)
	if resolved[2].Position != cite.PositionIbidWithLocator {
		t.Fatalf("got %v, want IbidWithLocator", resolved[2].Position)
	}
}

func TestResolvePositionsSubsequentAfterInterveningCite(t *testing.T) {
	occs := []CiteOccurrence{
		{CiteID: 1, ClusterID: "c1", ReferenceID: "r1"},
		{CiteID: 2, ClusterID: "c2", ReferenceID: "r2"},
		{CiteID: 3, ClusterID: "c3", ReferenceID: "r1"},
	}
	resolved := ResolvePositions(occs, 5)
	if resolved[3].Position != cite.PositionSubsequent {
		t.Fatalf("got %v, want Subsequent", resolved[3].Position)
	}
}

func TestResolvePositionsSameClusterNonAdjacentIsSubsequent(t *testing.T) {
	occs := []CiteOccurrence{
		{CiteID: 1, ClusterID: "c1", ReferenceID: "r1"},
		{CiteID: 2, ClusterID: "c1", ReferenceID: "r2"},
		{CiteID: 3, ClusterID: "c1", ReferenceID: "r1"},
	}
	resolved := ResolvePositions(occs, 5)
	if resolved[3].Position != cite.PositionSubsequent {
		t.Fatalf("got %v, want Subsequent (r2's cite intervenes even though r1's prior occurrence is in the same cluster)", resolved[3].Position)
	}
}

func TestResolvePositionsNearAndFarNote(t *testing.T) {
	occs := []CiteOccurrence{
		{CiteID: 1, ClusterID: "c1", ReferenceID: "r1", IsNote: true, NoteNumber: 1},
		{CiteID: 2, ClusterID: "c2", ReferenceID: "r2", IsNote: true, NoteNumber: 2},
		{CiteID: 3, ClusterID: "c3", ReferenceID: "r1", IsNote: true, NoteNumber: 4},
		{CiteID: 4, ClusterID: "c4", ReferenceID: "r2", IsNote: true, NoteNumber: 100},
		{CiteID: 5, ClusterID: "c5", ReferenceID: "r1", IsNote: true, NoteNumber: 200},
	}
	resolved := ResolvePositions(occs, 5)
	if resolved[3].Position != cite.PositionNearNote {
		t.Fatalf("got %v, want NearNote", resolved[3].Position)
	}
	if resolved[5].Position != cite.PositionFarNote {
		t.Fatalf("got %v, want FarNote", resolved[5].Position)
	}
}

func TestAssembleJoinsWithLayoutDelimiterAndAffixes(t *testing.T) {
	cites := []RenderedCite{
		{CiteID: 1, Node: ir.Text("Smith 2000")},
		{CiteID: 2, Node: ir.Text("Jones 2001")},
	}
	opts := style.Options{
		LayoutDelimiter: "; ",
		LayoutAffixes:   style.Affixes{Prefix: "(", Suffix: ")"},
	}
	got := Assemble(cites, opts, ir.Flatten)
	want := "(Smith 2000; Jones 2001)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAssembleWrapsCiteLevelPrefixAndSuffix(t *testing.T) {
	cites := []RenderedCite{
		{CiteID: 1, Node: ir.Text("Smith 2000"), Prefix: ir.Text("see ")},
		{CiteID: 2, Node: ir.Text("Jones 2001"), Suffix: ir.Text(", emphasis added")},
	}
	opts := style.Options{LayoutDelimiter: "; "}
	got := Assemble(cites, opts, ir.Flatten)
	want := "see Smith 2000; Jones 2001, emphasis added"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
