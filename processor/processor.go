// Package processor implements the thin public façade spec §6 names:
// the single entry point hosts link against, owning references,
// styles, and clusters, and orchestrating the builder/disamb/cluster/
// incremental packages into the `compute`/`batched-updates` contract.
// Style XML parsing, reference parsing, and locale XML fetching are
// external collaborators' concerns (spec §1); this package consumes
// them through the three small interfaces below rather than owning
// any of the three.
package processor

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tonycite/citeproc/builder"
	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/disamb"
	"github.com/tonycite/citeproc/errs"
	"github.com/tonycite/citeproc/format"
	"github.com/tonycite/citeproc/incremental"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/style"
	"github.com/tonycite/citeproc/value"
)

// StyleCompiler parses a style XML document into the compiled tree
// package style defines. Left to an external collaborator per spec §1.
type StyleCompiler interface {
	Compile(xml string) (*style.Style, error)
}

// LocaleFetcher fetches a locale's raw XML for a language tag, per
// spec §6's "fetch-string(lang) -> string or none; failures other
// than not-found propagate as I/O errors".
type LocaleFetcher interface {
	FetchLocale(lang string) (xml string, found bool, err error)
}

// TermStore resolves compiled-locale term lookups for the builder and
// absorbs newly fetched/stored locale XML. Parsing locale XML into
// terms is, like style parsing, an external collaborator's concern;
// this interface is the seam between that concern and the core.
type TermStore interface {
	builder.TermResolver
	StoreLocale(lang, xml string) error
	HasLocale(lang string) bool
	Langs() []string
}

// OutputFormat is one of the three formats spec §6 names.
type OutputFormat int

const (
	OutputPlainText OutputFormat = iota
	OutputHTML
	OutputRTF
)

func parseOutputFormat(name string) (OutputFormat, error) {
	switch name {
	case "plain-text":
		return OutputPlainText, nil
	case "html":
		return OutputHTML, nil
	case "rtf":
		return OutputRTF, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownFormat, name)
	}
}

func formatterFor(f OutputFormat) func(*ir.Node) string {
	switch f {
	case OutputHTML:
		return format.HTML
	case OutputRTF:
		return format.RTF
	default:
		return format.PlainText
	}
}

// ClusterInput describes one cluster to init-clusters/insert-cluster:
// its position-determining number plus the ordered cites it holds.
type ClusterInput struct {
	ID     cite.ClusterID
	Number cite.ClusterNumber
	Cites  []cite.Cite
}

// ClusterUpdate is one entry of the "update summary" spec §6's
// batched-updates() returns: a cluster whose built-cluster query was
// recomputed because one of its dependencies changed. Its text may be
// the same as before (e.g. after SetStyleText with an unchanged style).
// Patch is a JSON merge-patch (RFC 7396) against the cluster's
// previous rendered text, for hosts that want to ship an incremental
// wire diff instead of the full string every time (SPEC_FULL Section
// B's update-extractor wiring for evanphx/json-patch); it is nil for a
// cluster rendered for the first time, when there is no prior value
// to diff against.
type ClusterUpdate struct {
	ClusterID cite.ClusterID
	Rendered  string
	Patch     []byte
}

type clusterEntry struct {
	Number  cite.ClusterNumber
	CiteIDs []cite.ID
}

// Processor is the owning façade: references, the compiled style, and
// clusters/cites are its state; IR, positions, and year suffixes are
// recomputed by every Compute, and only each cluster's built text is
// cached in the incremental store.
type Processor struct {
	// mu serializes all mutation per spec §5's single-logical-owner
	// scheduling model; Compute holds it for its whole run, rendering
	// included.
	mu sync.Mutex

	compiler    StyleCompiler
	fetcher     LocaleFetcher
	terms       TermStore
	saveUpdates func(ClusterUpdate)
	format      OutputFormat
	formatter   func(*ir.Node) string
	logger      *zap.Logger

	store *incremental.Store

	compiledStyle *style.Style

	references        map[string]value.Reference
	clusters          map[cite.ClusterID]*clusterEntry
	clusterIDsOrdered []cite.ClusterID
	cites             map[cite.ID]cite.Cite
	citeCluster       map[cite.ID]cite.ClusterID

	// lastRendered is the most recent built text for every cluster,
	// refreshed each Compute; GetCluster reads from here rather than
	// the incremental store, which only tracks staleness, not values,
	// for the outside world.
	lastRendered map[cite.ClusterID]string

	pendingMu sync.Mutex
	pending   []ClusterUpdate
}

// Option configures a Processor at construction.
type Option func(*Processor)

// WithLogger overrides the default no-op zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// New builds a processor from its style XML, its three injected
// collaborators, an update sink, and an output format name, per spec
// §6's `new(style-xml, locale-fetcher, save-updates, output-format)`.
// Style-parse and unknown-format errors are surfaced here, at
// construction, per spec §7.
func New(styleXML string, compiler StyleCompiler, fetcher LocaleFetcher, terms TermStore, saveUpdates func(ClusterUpdate), outputFormat string, opts ...Option) (*Processor, error) {
	outFmt, err := parseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		compiler:     compiler,
		fetcher:      fetcher,
		terms:        terms,
		saveUpdates:  saveUpdates,
		format:       outFmt,
		formatter:    formatterFor(outFmt),
		logger:       zap.NewNop(),
		store:        incremental.New(),
		references:   map[string]value.Reference{},
		clusters:     map[cite.ClusterID]*clusterEntry{},
		cites:        map[cite.ID]cite.Cite{},
		citeCluster:  map[cite.ID]cite.ClusterID{},
		lastRendered: map[cite.ClusterID]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("component", "processor"))

	if err := p.SetStyleText(styleXML); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStyleText compiles xml via the injected StyleCompiler and, on
// success, installs it as the current style, bumping the style
// generation so every style-dependent query recomputes on next ask.
func (p *Processor) SetStyleText(xml string) error {
	s, err := p.compiler.Compile(xml)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStyleParse, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compiledStyle = s
	p.store.Generations.BumpStyle()
	return nil
}

// GetStyle returns the current compiled style.
func (p *Processor) GetStyle() *style.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.compiledStyle
}

// SetReferences replaces the entire reference set, bumping every
// reference id's generation counter (both the replaced ones and any
// newly introduced ones) so derived values recompute.
func (p *Processor) SetReferences(refs []value.Reference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.references = make(map[string]value.Reference, len(refs))
	for _, r := range refs {
		p.references[r.ID] = r
		p.store.Generations.BumpReference(r.ID)
	}
}

// InsertReference adds or replaces a single reference.
func (p *Processor) InsertReference(ref value.Reference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.references[ref.ID] = ref
	p.store.Generations.BumpReference(ref.ID)
}

// GetReference looks up a reference by id.
func (p *Processor) GetReference(id string) (value.Reference, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.references[id]
	return r, ok
}

// StoreLocales ingests a batch of (lang, xml) pairs into the term
// store, per spec §6's store-locales, bumping each lang's generation.
func (p *Processor) StoreLocales(locales map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for lang, xml := range locales {
		if err := p.terms.StoreLocale(lang, xml); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrLocaleFetch, err)
		}
		p.store.Generations.BumpLocale(lang)
	}
	return nil
}

// HasCachedLocale reports whether lang's terms are already loaded.
func (p *Processor) HasCachedLocale(lang string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terms.HasLocale(lang)
}

// GetLangsInUse returns every non-empty Lang declared by a held
// reference, cited or not, the set of langs a caller should
// make sure is fetched and stored before the next compute.
func (p *Processor) GetLangsInUse() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.langsInUseLocked()
}

// langsInUseLocked must be called with p.mu held.
func (p *Processor) langsInUseLocked() []string {
	seen := map[string]bool{}
	for _, r := range p.references {
		if r.Lang != "" {
			seen[r.Lang] = true
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	return out
}

// ensureLocale asks the fetcher for lang if it is not already cached,
// storing it on success. A not-found result is non-fatal (spec §7:
// "not-found for a requested lang is non-fatal"); other errors demote
// to the default locale with a logged diagnostic rather than aborting
// the caller's operation.
func (p *Processor) ensureLocale(lang string) {
	if lang == "" || p.terms.HasLocale(lang) {
		return
	}
	xml, found, err := p.fetcher.FetchLocale(lang)
	if err != nil {
		p.logger.Warn("locale fetch failed, falling back to default locale",
			zap.String("lang", lang), zap.Error(err))
		return
	}
	if !found {
		return
	}
	if err := p.terms.StoreLocale(lang, xml); err != nil {
		p.logger.Warn("locale store failed after successful fetch",
			zap.String("lang", lang), zap.Error(err))
		return
	}
	p.store.Generations.BumpLocale(lang)
}
