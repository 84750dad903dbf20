// Package trace gates verbose per-node tracing behind environment
// variables, read once at init so the hot path never pays for a disabled
// trace beyond a bool check.
package trace

import (
	"fmt"
	"os"
	"strconv"
)

type flags struct {
	Builder     bool
	GroupVars   bool
	Cond        bool
	Disamb      bool
	Cluster     bool
	SortKey     bool
	Incremental bool
}

var f *flags

func init() {
	f = &flags{
		Builder:     boolEnv("CITEPROC_TRACE_BUILDER"),
		GroupVars:   boolEnv("CITEPROC_TRACE_GROUPVARS"),
		Cond:        boolEnv("CITEPROC_TRACE_COND"),
		Disamb:      boolEnv("CITEPROC_TRACE_DISAMB"),
		Cluster:     boolEnv("CITEPROC_TRACE_CLUSTER"),
		SortKey:     boolEnv("CITEPROC_TRACE_SORTKEY"),
		Incremental: boolEnv("CITEPROC_TRACE_INCREMENTAL"),
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Builder() bool     { return f.Builder }
func GroupVars() bool   { return f.GroupVars }
func Cond() bool        { return f.Cond }
func Disamb() bool      { return f.Disamb }
func Cluster() bool     { return f.Cluster }
func SortKey() bool     { return f.SortKey }
func Incremental() bool { return f.Incremental }

// Logf writes a trace line to stderr. Callers must guard with the
// corresponding gate above; Logf itself does not check flags.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
