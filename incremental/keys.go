package incremental

import "github.com/tonycite/citeproc/cite"

// The twelve types below are spec §4.7's "Required queries", named
// verbatim: compiled-style, locale(lang), reference(ref-id),
// cite(cite-id), cluster-cites(cluster-id), cluster-note-number
// (cluster-id), cluster-ids, all-keys, ir-gen0(cite-id),
// ir-gen2-add-given-name(cite-id), year-suffixes, built-cluster
// (cluster-id) -- each a typed, comparable struct used directly as a
// Store cache key (map keys need only be comparable in Go; there is
// no need to flatten them to strings first, unlike citeproc-rs's
// salsa query IDs, which this is otherwise a direct port of).
type (
	StyleQuery              struct{}
	LocaleQuery              struct{ Lang string }
	ReferenceQuery           struct{ ID string }
	CiteQuery                struct{ ID cite.ID }
	ClusterCitesQuery        struct{ ID string }
	ClusterNoteNumberQuery   struct{ ID string }
	ClusterIDsQuery          struct{}
	AllKeysQuery             struct{}
	IRGen0Query              struct{ CiteID cite.ID }
	IRGen2AddGivenNameQuery  struct{ CiteID cite.ID }
	YearSuffixesQuery        struct{}
	BuiltClusterQuery        struct{ ID string }
)
