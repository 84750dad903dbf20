package cond

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tonycite/citeproc/refctx"
)

// Env is the struct an expr-lang program sees when evaluating a
// Condition.Expr. Its method set plays the same role as the
// expr.Function wiring in the teacher's eval/script_funcs.go: each
// method becomes a callable name inside the expression.
type Env struct {
	ctx refctx.Context
}

func (e Env) HasVariable(name string) bool  { return e.ctx.HasVariable(name) }
func (e Env) IsNumeric(name string) bool    { return e.ctx.IsNumeric(name) }
func (e Env) Type() string                  { return e.ctx.Type() }
func (e Env) Lang() string                  { return e.ctx.Lang() }
func (e Env) Position() string              { return e.ctx.Position().String() }
func (e Env) HasLocator() bool              { return e.ctx.HasLocator() }
func (e Env) Disambiguate() bool            { return e.ctx.Disambiguate() }
func (e Env) HasYearSuffix() bool           { return e.ctx.HasYearSuffix() }

// programCache memoizes compiled expr-lang programs by source text, so
// a disambiguation engine re-evaluating the same condition across many
// passes/cites pays the compilation cost once. Guarded by a mutex like
// the teacher's package-level symbol registry (eval/register.go).
var (
	programMu sync.RWMutex
	programs  = map[string]*vm.Program{}
)

// CompileExpr compiles and caches expression, matching the pattern of
// the teacher's Register/Lookup pair but keyed by source text instead
// of symbol name, since expressions have no independent identity.
func CompileExpr(expression string) (*vm.Program, error) {
	programMu.RLock()
	p, ok := programs[expression]
	programMu.RUnlock()
	if ok {
		return p, nil
	}

	compiled, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, err
	}

	programMu.Lock()
	programs[expression] = compiled
	programMu.Unlock()
	return compiled, nil
}

// EvalExpr compiles (or reuses a cached compilation of) expression and
// runs it against ctx.
func EvalExpr(expression string, ctx refctx.Context) (bool, error) {
	program, err := CompileExpr(expression)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, Env{ctx: ctx})
	if err != nil {
		return false, err
	}
	b, _ := out.(bool)
	return b, nil
}
