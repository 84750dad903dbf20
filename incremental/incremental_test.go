package incremental

import "testing"

func TestQueryCachesUntilDependencyBumped(t *testing.T) {
	s := New()
	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}
	deps := []Dep{{Kind: DepReference, ID: "r1"}}

	if _, recomputed, _ := s.Query(ReferenceQuery{ID: "r1"}, deps, compute); !recomputed {
		t.Fatalf("first query should recompute")
	}
	if _, recomputed, _ := s.Query(ReferenceQuery{ID: "r1"}, deps, compute); recomputed {
		t.Fatalf("second query should hit cache")
	}
	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}

	s.Generations.BumpReference("r1")
	if _, recomputed, _ := s.Query(ReferenceQuery{ID: "r1"}, deps, compute); !recomputed {
		t.Fatalf("query after bump should recompute")
	}
	if calls != 2 {
		t.Fatalf("compute called %d times, want 2", calls)
	}
}

func TestQueryUnaffectedByUnrelatedDependency(t *testing.T) {
	s := New()
	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}
	deps := []Dep{{Kind: DepReference, ID: "r1"}}

	s.Query(ReferenceQuery{ID: "r1"}, deps, compute)
	s.Generations.BumpReference("r2")
	if _, recomputed, _ := s.Query(ReferenceQuery{ID: "r1"}, deps, compute); recomputed {
		t.Fatalf("bumping an unrelated reference should not invalidate r1's cache")
	}
	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}
}

func TestQueryBuiltClusterRecordsRecomputation(t *testing.T) {
	s := New()
	deps := []Dep{{Kind: DepClusterCites, ID: "c1"}}
	compute := func() (string, error) { return "rendered", nil }

	s.QueryBuiltCluster("c1", deps, compute)
	if got := s.DrainRecomputedClusters(); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("got %v, want [c1]", got)
	}
	if got := s.DrainRecomputedClusters(); len(got) != 0 {
		t.Fatalf("drain should empty the set, got %v", got)
	}

	// A cache hit (no generation change) must not re-record c1.
	s.QueryBuiltCluster("c1", deps, compute)
	if got := s.DrainRecomputedClusters(); len(got) != 0 {
		t.Fatalf("cache hit should not record recomputation, got %v", got)
	}

	s.Generations.BumpClusterCites("c1")
	s.QueryBuiltCluster("c1", deps, compute)
	if got := s.DrainRecomputedClusters(); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("got %v, want [c1] after cites bump", got)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	s := New()
	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}
	key := StyleQuery{}
	deps := []Dep{{Kind: DepStyle}}

	s.Query(key, deps, compute)
	s.Invalidate(key)
	if _, recomputed, _ := s.Query(key, deps, compute); !recomputed {
		t.Fatalf("query after Invalidate should recompute")
	}
	if calls != 2 {
		t.Fatalf("compute called %d times, want 2", calls)
	}
}
