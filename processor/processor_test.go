package processor

import (
	"errors"
	"testing"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/errs"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// fixtureCompiler treats its input as the already-compiled style: it
// ignores the xml text entirely and returns whatever *style.Style the
// test configured it with ahead of time, so tests can author their
// fixture style directly as a Go literal rather than round-tripping
// through a real CSL XML parser (SPEC_FULL Section C.7's fixture-triple
// convention, adapted from citeproc-rs's suite.rs harness).
type fixtureCompiler struct {
	style *style.Style
	err   error
}

func (c *fixtureCompiler) Compile(xml string) (*style.Style, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.style, nil
}

type fixtureFetcher struct{}

func (fixtureFetcher) FetchLocale(lang string) (string, bool, error) { return "", false, nil }

type fixtureTerms struct{ loaded map[string]bool }

func newFixtureTerms() *fixtureTerms { return &fixtureTerms{loaded: map[string]bool{}} }

func (t *fixtureTerms) Term(lang, name string, plural bool) (string, bool) { return name, false }
func (t *fixtureTerms) StoreLocale(lang, xml string) error                 { t.loaded[lang] = true; return nil }
func (t *fixtureTerms) HasLocale(lang string) bool                         { return t.loaded[lang] }
func (t *fixtureTerms) Langs() []string {
	out := make([]string, 0, len(t.loaded))
	for l := range t.loaded {
		out = append(out, l)
	}
	return out
}

// newFixtureStyle builds a minimal author-date citation layout: the
// author's family name immediately followed by the issued year in
// parentheses, e.g. "Smith (2000)".
func newFixtureStyle() *style.Style {
	return &style.Style{
		Options: style.Options{
			NearNoteDistance: 5,
		},
		Citation: []*style.Element{
			{
				Kind:      style.ElementNames,
				Variables: []string{"author"},
				NameOptions: style.NameOptions{
					Delimiter: ", ",
					Form:      style.NameFormShort,
				},
			},
			{
				Kind:  style.ElementDate,
				Value: "issued",
				Form:  "numeric",
				Affixes: style.Affixes{Prefix: " (", Suffix: ")"},
			},
		},
	}
}

func author(family, given string) []value.PersonName {
	return []value.PersonName{{Family: family, Given: given}}
}

// newFixtureRefs returns two references with different authors and
// years (Smith 2000, Jones 2001), so they do not collide; they carry the
// fixture clusters through the position pipeline end to end.
func newFixtureRefs() []value.Reference {
	return []value.Reference{
		value.NewReference("r1", "book", "en", nil, nil,
			map[string][]value.PersonName{"author": author("Smith", "Alice")},
			map[string]value.DateOrRange{"issued": {Start: value.Date{Year: 2000}}},
		),
		value.NewReference("r2", "book", "en", nil, nil,
			map[string][]value.PersonName{"author": author("Jones", "Bob")},
			map[string]value.DateOrRange{"issued": {Start: value.Date{Year: 2001}}},
		),
	}
}

func newFixtureClusters() []ClusterInput {
	return []ClusterInput{
		{
			ID:     "c1",
			Number: cite.ClusterNumber{InText: 1},
			Cites:  []cite.Cite{{ID: 1, ReferenceID: "r1"}},
		},
		{
			ID:     "c2",
			Number: cite.ClusterNumber{InText: 2},
			Cites:  []cite.Cite{{ID: 2, ReferenceID: "r2"}},
		},
		{
			ID:     "c3",
			Number: cite.ClusterNumber{InText: 3},
			Cites:  []cite.Cite{{ID: 3, ReferenceID: "r1"}},
		},
	}
}

func newFixtureProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := New("<style/>", &fixtureCompiler{style: newFixtureStyle()}, fixtureFetcher{}, newFixtureTerms(), nil, "plain-text")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.SetReferences(newFixtureRefs())
	p.InitClusters(newFixtureClusters())
	return p
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("<style/>", &fixtureCompiler{style: newFixtureStyle()}, fixtureFetcher{}, newFixtureTerms(), nil, "docx")
	if !errors.Is(err, errs.ErrUnknownFormat) {
		t.Fatalf("expected unknown-format error, got %v", err)
	}
}

func TestNewSurfacesStyleParseError(t *testing.T) {
	_, err := New("<style/>", &fixtureCompiler{err: errors.New("malformed")}, fixtureFetcher{}, newFixtureTerms(), nil, "plain-text")
	if err == nil {
		t.Fatal("expected a style parse error")
	}
}

func TestComputeRendersFirstAndSubsequentClusters(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	c1, ok := p.GetCluster("c1")
	if !ok || c1 != "Smith (2000)" {
		t.Fatalf("c1 = %q, %v; want %q", c1, ok, "Smith (2000)")
	}
	c3, ok := p.GetCluster("c3")
	if !ok || c3 != "Smith (2000)" {
		t.Fatalf("c3 = %q, %v; want %q", c3, ok, "Smith (2000)")
	}
}

func TestBatchedUpdatesThenDrainEmptiesQueue(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(p.BatchedUpdates()) == 0 {
		t.Fatal("expected at least one update after first compute")
	}
	p.Drain()
	if len(p.BatchedUpdates()) != 0 {
		t.Fatal("expected empty queue after Drain")
	}
}

func TestComputeIsIdempotentWithoutMutation(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	p.Drain()
	if err := p.Compute(); err != nil {
		t.Fatalf("second Compute: %v", err)
	}
	if len(p.BatchedUpdates()) != 0 {
		t.Fatal("expected no updates when nothing changed since the last compute")
	}
}

func TestRemoveClusterDropsItFromFutureComputes(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	p.RemoveCluster("c2")
	if _, ok := p.GetCluster("c2"); ok {
		t.Fatal("expected c2's cached rendering to be gone after removal")
	}
}

func TestSetStyleTextInvalidatesBuiltClusters(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	p.BatchedUpdates()

	if err := p.SetStyleText("<style/>"); err != nil {
		t.Fatalf("SetStyleText: %v", err)
	}
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	updates := p.BatchedUpdates()
	if len(updates) == 0 {
		t.Fatalf("expected every built cluster to recompute after set-style-text even when the recompiled style is unchanged, got no updates")
	}
}

func TestStoreLocalesInvalidatesBuiltClusters(t *testing.T) {
	p := newFixtureProcessor(t)
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	p.BatchedUpdates()

	if err := p.StoreLocales(map[string]string{"en": "<locale/>"}); err != nil {
		t.Fatalf("StoreLocales: %v", err)
	}
	if err := p.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	updates := p.BatchedUpdates()
	if len(updates) == 0 {
		t.Fatalf("expected every cluster citing an \"en\" reference to be re-rendered after store-locales, got no updates")
	}
}

func TestComputeRejectsUnknownReference(t *testing.T) {
	p := newFixtureProcessor(t)
	p.InsertCluster(ClusterInput{
		ID:     "c4",
		Number: cite.ClusterNumber{InText: 4},
		Cites:  []cite.Cite{{ID: 4, ReferenceID: "does-not-exist"}},
	})
	if err := p.Compute(); err == nil {
		t.Fatal("expected an invariant-violation error for an unresolvable reference")
	}
}

func TestComputeRejectsInvalidSuppression(t *testing.T) {
	p := newFixtureProcessor(t)
	p.InsertCluster(ClusterInput{
		ID:     "c5",
		Number: cite.ClusterNumber{InText: 5},
		Cites: []cite.Cite{{
			ID:          5,
			ReferenceID: "r1",
			Suppression: cite.Suppression{InText: true, Rest: true},
		}},
	})
	if err := p.Compute(); err == nil {
		t.Fatal("expected an invariant-violation error for contradictory suppression flags")
	}
}
