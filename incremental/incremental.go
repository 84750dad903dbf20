// Package incremental implements the demand-driven memoization
// substrate spec §4.7 describes: derived values (compiled style,
// locale, reference, cluster inputs, cite IR generations, year
// suffixes, built clusters) are pure functions of other values:
// cached until one of their declared dependencies' generation
// counters advances, at which point the next query recomputes.
//
// There is no on-disk state here (spec §6: "the processor holds no
// on-disk state") -- only the counter-and-cache bookkeeping pattern of
// the teacher's storage/sequence.go (monotonic counters behind a
// mutex) and storage/snapshots.go (nearest-prior-state lookup, here
// reduced to "is my cached generation still current"), reimplemented
// entirely in memory.
package incremental

import "sync"

// DepKind tags which input category a dependency generation counter
// belongs to (spec §4.7's mutation list: set-style, set-locale,
// set-reference, set-cluster-cites, set-cluster-note-number,
// set-cluster-ids).
type DepKind int

const (
	DepStyle DepKind = iota
	DepLocale
	DepReference
	DepClusterCites
	DepClusterNoteNumber
	DepClusterIDs
)

// Dep names one dependency a cached query result was computed from:
// a kind plus, for per-entity kinds, the entity's id (ignored for
// DepStyle/DepClusterIDs, which have no id).
type Dep struct {
	Kind DepKind
	ID   string
}

// Generations holds the monotonic counters mutation bumps, one per
// input category (style, one per locale, one per reference, one per
// cluster's cites, one per cluster's note number, and one shared
// counter for the cluster-id list itself). Grounded on the mutex-
// guarded counter struct of the teacher's storage/sequence.go, without
// its on-disk persistence.
type Generations struct {
	mu                sync.Mutex
	style             int64
	locale            map[string]int64
	reference         map[string]int64
	clusterCites      map[string]int64
	clusterNoteNumber map[string]int64
	clusterIDs        int64
}

// NewGenerations returns a zeroed counter set; every dependency starts
// at generation 0.
func NewGenerations() *Generations {
	return &Generations{
		locale:            map[string]int64{},
		reference:         map[string]int64{},
		clusterCites:      map[string]int64{},
		clusterNoteNumber: map[string]int64{},
	}
}

// BumpStyle records a set-style-text mutation.
func (g *Generations) BumpStyle() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.style++
}

// BumpLocale records a set-locale mutation for lang.
func (g *Generations) BumpLocale(lang string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locale[lang]++
}

// BumpReference records a set-reference/insert-reference mutation for id.
func (g *Generations) BumpReference(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reference[id]++
}

// BumpClusterCites records a set-cluster-cites mutation for id.
func (g *Generations) BumpClusterCites(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clusterCites[id]++
}

// BumpClusterNoteNumber records a set-cluster-note-number mutation for id.
func (g *Generations) BumpClusterNoteNumber(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clusterNoteNumber[id]++
}

// BumpClusterIDs records an init-clusters/insert-cluster/remove-cluster/
// renumber-clusters mutation: any change to which clusters exist or
// their relative order.
func (g *Generations) BumpClusterIDs() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clusterIDs++
}

// snapshot reads the current generation for one dependency.
func (g *Generations) snapshot(d Dep) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch d.Kind {
	case DepStyle:
		return g.style
	case DepLocale:
		return g.locale[d.ID]
	case DepReference:
		return g.reference[d.ID]
	case DepClusterCites:
		return g.clusterCites[d.ID]
	case DepClusterNoteNumber:
		return g.clusterNoteNumber[d.ID]
	case DepClusterIDs:
		return g.clusterIDs
	default:
		return 0
	}
}

// entry is one cached query result plus the dependency generations it
// was last computed at.
type entry struct {
	value any
	deps  []Dep
	atGen []int64
}

func (e *entry) stale(g *Generations) bool {
	for i, d := range e.deps {
		if g.snapshot(d) != e.atGen[i] {
			return true
		}
	}
	return false
}

// Store is the memo cache: a map from query key to cached entry, plus
// the generation counters entries are checked against. Safe for
// concurrent read-only queries from multiple snapshot handles (spec
// §5: "Read-only computation may be parallelized by taking snapshot
// handles... each snapshot is independently read-safe and shares the
// cache"); callers are responsible for not mutating (Bump*) while
// reads are in flight, per the single-owner-thread scheduling model.
type Store struct {
	Generations *Generations

	mu    sync.Mutex
	cache map[any]*entry

	recomputedMu sync.Mutex
	recomputed   map[string]struct{}
}

// New returns an empty store backed by a fresh generation set.
func New() *Store {
	return &Store{
		Generations: NewGenerations(),
		cache:       map[any]*entry{},
		recomputed:  map[string]struct{}{},
	}
}

// Query returns the cached result for key if every dependency in deps
// is still at the generation it was computed at; otherwise it calls
// compute, caches the result against the current generations, and
// reports recomputed=true. key must be a comparable value -- normally
// one of the typed query structs in keys.go.
func (s *Store) Query(key any, deps []Dep, compute func() (any, error)) (value any, recomputed bool, err error) {
	s.mu.Lock()
	if e, ok := s.cache[key]; ok && !e.stale(s.Generations) {
		v := e.value
		s.mu.Unlock()
		return v, false, nil
	}
	s.mu.Unlock()

	v, err := compute()
	if err != nil {
		return nil, false, err
	}

	atGen := make([]int64, len(deps))
	for i, d := range deps {
		atGen[i] = s.Generations.snapshot(d)
	}

	s.mu.Lock()
	s.cache[key] = &entry{value: v, deps: deps, atGen: atGen}
	s.mu.Unlock()

	return v, true, nil
}

// QueryBuiltCluster wraps Query for the built-cluster(cluster-id)
// query specifically: spec §4.7's observability hook ("records the
// cluster-ids whose built-cluster was recomputed") fires here and only
// here.
func (s *Store) QueryBuiltCluster(clusterID string, deps []Dep, compute func() (string, error)) (string, error) {
	v, recomputed, err := s.Query(BuiltClusterQuery{ID: clusterID}, deps, func() (any, error) {
		return compute()
	})
	if err != nil {
		return "", err
	}
	if recomputed {
		s.recomputedMu.Lock()
		s.recomputed[clusterID] = struct{}{}
		s.recomputedMu.Unlock()
	}
	return v.(string), nil
}

// DrainRecomputedClusters empties and returns the set of cluster ids
// whose built-cluster query recomputed since the last drain, per spec
// §4.7 ("the set is drained by the update-batch extractor").
func (s *Store) DrainRecomputedClusters() []string {
	s.recomputedMu.Lock()
	defer s.recomputedMu.Unlock()
	out := make([]string, 0, len(s.recomputed))
	for id := range s.recomputed {
		out = append(out, id)
	}
	s.recomputed = map[string]struct{}{}
	return out
}

// Invalidate drops key's cached entry unconditionally, independent of
// generation tracking. Used by callers that remove a cluster or
// reference outright rather than merely mutate it, so a stale cache
// hit can never resurrect a deleted entity's last rendering.
func (s *Store) Invalidate(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
}
