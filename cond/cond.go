// Package cond evaluates a compiled style condition (a choose/if's test
// battery) against a reference context. The teacher's mergeop package
// registered And/Not as Symbol/Op pairs; here the combinators are Match
// modes applied by combine, and the package keeps no registry. expr.go
// adds the optional expr-lang test, caching compiled programs by source
// text.
package cond

import (
	"fmt"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/internal/trace"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/style"
)

// Evaluate reports whether cond's test battery matches ctx, per CSL's
// choose/if match semantics (spec §4.2: "Evaluate choose/if/else-if
// branches by consulting the reference context").
func Evaluate(c style.Condition, ctx refctx.Context) (bool, error) {
	var atoms []bool

	for _, v := range c.Variable {
		atoms = append(atoms, ctx.HasVariable(v))
	}
	for _, t := range c.Type {
		atoms = append(atoms, ctx.Type() == t)
	}
	for _, n := range c.IsNumeric {
		atoms = append(atoms, ctx.IsNumeric(n))
	}
	for _, p := range c.Position {
		atoms = append(atoms, positionMatches(ctx.Position(), p))
	}
	for _, l := range c.Locator {
		lt, ok := ctx.LocatorType()
		atoms = append(atoms, ok && lt == l)
	}
	if c.Disambiguate != nil {
		atoms = append(atoms, ctx.Disambiguate() == *c.Disambiguate)
	}

	result := combine(c.Match, atoms)

	if c.Expr != "" {
		exprResult, err := EvalExpr(c.Expr, ctx)
		if err != nil {
			return false, fmt.Errorf("cond: evaluating expr %q: %w", c.Expr, err)
		}
		result = result && exprResult
	}

	if trace.Cond() {
		trace.Logf("cond: match=%v atoms=%v expr=%q -> %v\n", c.Match, atoms, c.Expr, result)
	}
	return result, nil
}

// combine applies a CSL match mode to a flat list of atomic test
// results. An empty list is vacuously true, regardless of mode: a
// condition with no predicates imposes no constraint.
func combine(mode style.MatchMode, atoms []bool) bool {
	if len(atoms) == 0 {
		return true
	}
	switch mode {
	case style.MatchAny:
		for _, a := range atoms {
			if a {
				return true
			}
		}
		return false
	case style.MatchNone:
		for _, a := range atoms {
			if a {
				return false
			}
		}
		return true
	case style.MatchAll:
		fallthrough
	default:
		for _, a := range atoms {
			if !a {
				return false
			}
		}
		return true
	}
}

// positionMatches implements CSL's position hierarchy: a cite whose
// real position is ibid, ibid-with-locator, near-note, or far-note also
// satisfies a test for position="subsequent", since all four are
// refinements of "the reference was cited before" (spec §4.5).
func positionMatches(actual cite.Position, want cite.Position) bool {
	if actual == want {
		return true
	}
	if want == cite.PositionSubsequent {
		switch actual {
		case cite.PositionIbid, cite.PositionIbidWithLocator,
			cite.PositionNearNote, cite.PositionFarNote:
			return true
		}
	}
	return false
}
