package disamb

import (
	"fmt"
	"sort"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tonycite/citeproc/builder"
	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/internal/trace"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/sortkey"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// CiteInput is one cite the engine must render to a collision-free
// fixed point: its identity, which reference it cites, and the base
// reference context the cluster assembler built for it (position,
// locator, etc. already resolved; Disambiguate/HasYearSuffix are
// overridden internally as the ladder widens).
type CiteInput struct {
	ID          cite.ID
	ReferenceID string
	Context     refctx.Context
}

// Result is the engine's output: the final IR and flattened text for
// every cite, the ladder level each settled at, and whether any
// collision remains unresolved (accepted once every involved cite has
// exhausted its ladder, per spec §4.4's termination clause).
type Result struct {
	IR              map[cite.ID]*ir.Node
	Rendered        map[cite.ID]string
	Levels          map[cite.ID]Level
	ResidualCollide map[cite.ID]bool
}

// Engine resolves collisions for one compiled style.
type Engine struct {
	Style *style.Style
	Terms builder.TermResolver

	// MaxNamesExpansion bounds how many extra names step 1 of the
	// ladder may reveal beyond the style's configured et-al threshold.
	// The true ceiling is "the full list" (spec §4.4), which depends on
	// how many names a given reference actually has; since the engine
	// has no cheap way to learn that count before rendering, it is
	// capped here and any reference with more authors than this simply
	// keeps colliding once the cap is hit, which is the documented
	// "residual collisions are accepted" outcome applied to a known,
	// deliberate limit rather than left open-ended.
	MaxNamesExpansion int
}

// NewEngine constructs an Engine with a sensible default expansion cap.
func NewEngine(s *style.Style, terms builder.TermResolver) *Engine {
	return &Engine{Style: s, Terms: terms, MaxNamesExpansion: 12}
}

// Resolve renders every cite in inputs, widening colliding cites' ladder
// levels one rung at a time until no two cites of different references
// render identically or every involved cite has exhausted its ladder.
func (e *Engine) Resolve(inputs []CiteInput) (*Result, error) {
	levels := make(map[cite.ID]Level, len(inputs))
	for _, in := range inputs {
		levels[in.ID] = Level{}
	}

	res := &Result{
		IR:              make(map[cite.ID]*ir.Node, len(inputs)),
		Rendered:        make(map[cite.ID]string, len(inputs)),
		Levels:          levels,
		ResidualCollide: map[cite.ID]bool{},
	}

	const maxIterations = 10000 // backstop; normal termination is always sooner
	for iter := 0; iter < maxIterations; iter++ {
		for _, in := range inputs {
			node, ctxErr := e.render(in, levels[in.ID])
			if ctxErr != nil {
				return nil, ctxErr
			}
			res.IR[in.ID] = node
			res.Rendered[in.ID] = ir.Flatten(node)
		}

		colliding := detectCollisions(inputs, res.Rendered)
		if trace.Disamb() {
			trace.Logf("disamb: iteration %d, %d cites colliding\n", iter, len(colliding))
		}
		if len(colliding) == 0 {
			for id := range res.ResidualCollide {
				delete(res.ResidualCollide, id)
			}
			return res, nil
		}

		widenedAny := false
		for _, id := range colliding {
			next, ok := levels[id].widen(e.MaxNamesExpansion)
			if ok {
				levels[id] = next
				widenedAny = true
				res.ResidualCollide[id] = false
			} else {
				res.ResidualCollide[id] = true
			}
		}
		if !widenedAny {
			return res, nil
		}
	}
	return res, nil
}

// RenderWithYearSuffix re-renders in at its already-settled ladder
// level lvl, with the reference context's HasYearSuffix() condition
// forced to hasYearSuffix. Used once AssignYearSuffixes has determined
// a reference needs a suffix: the style may gate its <year-suffix>
// slot inside a group that only renders under that condition, so the
// slot's presence must be decided before ir.ApplyYearSuffix can fill
// in the actual letter.
func (e *Engine) RenderWithYearSuffix(in CiteInput, lvl Level, hasYearSuffix bool) (*ir.Node, error) {
	in.Context = refctx.WithYearSuffix(in.Context, hasYearSuffix)
	return e.render(in, lvl)
}

func (e *Engine) render(in CiteInput, lvl Level) (*ir.Node, error) {
	s := widenStyle(e.Style, lvl)
	ctx := in.Context
	if lvl.Disambiguate {
		ctx = refctx.WithDisambiguate(ctx, true)
	}
	node, _, err := builder.New(s, e.Terms).BuildCitation(ctx)
	if err != nil {
		return nil, fmt.Errorf("disamb: rendering cite %d: %w", in.ID, err)
	}
	return node, nil
}

// detectCollisions groups cites by rendered text and returns the IDs of
// every cite in a group whose members cite more than one distinct
// reference -- a collision per spec §4.4's definition.
func detectCollisions(inputs []CiteInput, rendered map[cite.ID]string) []cite.ID {
	type group struct {
		ids  []cite.ID
		refs map[string]bool
	}
	byText := map[string]*group{}
	for _, in := range inputs {
		text := rendered[in.ID]
		g, ok := byText[text]
		if !ok {
			g = &group{refs: map[string]bool{}}
			byText[text] = g
		}
		g.ids = append(g.ids, in.ID)
		g.refs[in.ReferenceID] = true
	}

	var out []cite.ID
	for _, g := range byText {
		if len(g.refs) > 1 {
			out = append(out, g.ids...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AuthorYearKey is the default grouping key for year-suffix assignment
// (spec §4.4 step 4): the first author's family name (or a literal
// name's full text) plus the issued year. References with no author or
// no issued year never share a key with anything and so never receive
// a suffix.
func AuthorYearKey(ref value.Reference) (string, bool) {
	names := ref.Name["author"]
	if len(names) == 0 {
		return "", false
	}
	d, ok := ref.Date["issued"]
	if !ok || d.IsZero() {
		return "", false
	}
	first := names[0]
	author := first.Family
	if first.IsLiteral() {
		author = first.Literal
	}
	return fmt.Sprintf("%s\x00%d", author, d.Start.Year), true
}

// AssignYearSuffixes partitions refs by key (see AuthorYearKey) and
// assigns suffixes "a", "b", "c", ... in ascending sort-key order
// within each group that has two or more members (spec §4.4 step 4).
// Only references present in citedRefIDs participate, per the "only
// references that appear in a cluster participate" clause.
func AssignYearSuffixes(refs []value.Reference, citedRefIDs map[string]bool, sortKey func(value.Reference) string) map[string]string {
	groups := map[string][]value.Reference{}
	for _, r := range refs {
		if !citedRefIDs[r.ID] {
			continue
		}
		key, ok := AuthorYearKey(r)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], r)
	}

	out := map[string]string{}
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return sortkey.Compare(sortKey(group[i]), sortKey(group[j])) < 0
		})
		for i, r := range group {
			out[r.ID] = suffixLetter(i)
		}
	}
	return out
}

// suffixLetter renders i (0-based) as a spreadsheet-style letter
// sequence: a, b, ..., z, aa, ab, ..., matching what happens once a
// single-letter alphabet (spec's documented "a, b, c, ...") is
// exhausted by an unusually large collision group.
func suffixLetter(i int) string {
	var b strings.Builder
	i++
	for i > 0 {
		i--
		b.WriteByte(byte('a' + i%26))
		i /= 26
	}
	s := b.String()
	runes := []rune(s)
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}
	return string(runes)
}

// CollisionDiff renders a human-readable diff between two colliding
// cites' rendered text, for disambiguation diagnostics. Neither the
// engine nor the devtools call it. It is a thin wrapper over go-diff, mirroring
// the teacher's own DiffString helper (libdiff/string.go).
func CollisionDiff(a, b string) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}
