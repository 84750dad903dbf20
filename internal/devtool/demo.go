// Package devtool holds the small pieces cmd/citeproc-inspect and
// cmd/citeproc-lsp both need and neither owns on its own: stand-in
// StyleCompiler/LocaleFetcher/TermStore collaborators (style XML parsing
// and locale XML fetching are external concerns per spec §1, out of scope
// for this repository) and a single representative demo style the devtools
// run bundles against.
package devtool

import (
	"github.com/tonycite/citeproc/style"
)

// literalCompiler treats "compile" as already done: it ignores the xml
// text and hands back the style it was built with, so the devtools can
// run against a fixed demo style without needing a real CSL XML compiler.
type literalCompiler struct {
	style *style.Style
}

// NewStyleCompiler returns a processor.StyleCompiler that always resolves
// to DemoStyle(), regardless of what style text a caller passes.
func NewStyleCompiler() *literalCompiler {
	return &literalCompiler{style: DemoStyle()}
}

func (c *literalCompiler) Compile(xml string) (*style.Style, error) {
	return c.style, nil
}

// NoLocaleFetcher is a LocaleFetcher that never has a locale on hand; the
// devtools run against terms already present in the in-memory term store
// (NewTermStore), falling back to each term's own name.
type NoLocaleFetcher struct{}

func (NoLocaleFetcher) FetchLocale(lang string) (string, bool, error) { return "", false, nil }

// termStore is an in-memory TermStore: Term always degrades to the term's
// own name (the builder's documented nil-TermResolver behavior, made
// explicit here since the devtools have no locale XML to parse).
type termStore struct {
	loaded map[string]bool
}

// NewTermStore returns an empty in-memory TermStore.
func NewTermStore() *termStore {
	return &termStore{loaded: map[string]bool{}}
}

func (t *termStore) Term(lang, name string, plural bool) (string, bool) { return name, false }

func (t *termStore) StoreLocale(lang, xml string) error {
	t.loaded[lang] = true
	return nil
}

func (t *termStore) HasLocale(lang string) bool { return t.loaded[lang] }

func (t *termStore) Langs() []string {
	out := make([]string, 0, len(t.loaded))
	for l := range t.loaded {
		out = append(out, l)
	}
	return out
}

// DemoStyle builds a small author-date citation style exercising names,
// a date, and a locator: "Family and Family (Year)" with an et-al
// cutoff, then the year-suffix slot and, when the cite has a locator,
// ", <label> <locator>"; representative enough for the devtools to show position,
// disambiguation, and year-suffix behavior without a real CSL document.
func DemoStyle() *style.Style {
	return &style.Style{
		Options: style.DefaultOptions(),
		Citation: []*style.Element{
			{
				Kind:      style.ElementNames,
				Variables: []string{"author"},
				NameOptions: style.NameOptions{
					Delimiter:    ", ",
					And:          "text",
					Form:         style.NameFormShort,
					EtAlMin:      4,
					EtAlUseFirst: 1,
				},
			},
			{
				Kind:    style.ElementDate,
				Value:   "issued",
				Form:    "numeric",
				Affixes: style.Affixes{Prefix: " (", Suffix: ")"},
			},
			{
				Kind: style.ElementYearSuffix,
			},
			{
				Kind:    style.ElementGroup,
				Delim:   " ",
				Affixes: style.Affixes{Prefix: ", "},
				Children: []*style.Element{
					{Kind: style.ElementLabel, Value: "locator"},
					{Kind: style.ElementText, TextSource: style.TextSourceVariable, Value: "locator"},
				},
			},
		},
	}
}
