package processor

import (
	"encoding/json"
	"fmt"
	"sort"

	jsonpatch "github.com/evanphx/json-patch"
	"go.uber.org/zap"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/cluster"
	"github.com/tonycite/citeproc/disamb"
	"github.com/tonycite/citeproc/errs"
	"github.com/tonycite/citeproc/incremental"
	"github.com/tonycite/citeproc/ir"
	"github.com/tonycite/citeproc/refctx"
	"github.com/tonycite/citeproc/sortkey"
	"github.com/tonycite/citeproc/value"
)

// renderedDoc is the minimal JSON envelope a cluster's rendered text is
// wrapped in before diffing, since json-patch operates on JSON
// documents rather than bare strings.
type renderedDoc struct {
	Rendered string `json:"rendered"`
}

// mergePatch computes a JSON merge patch from prior to next's rendered
// text, or nil if prior is empty (first render, nothing to diff
// against).
func mergePatch(prior, next string) []byte {
	if prior == "" {
		return nil
	}
	priorJSON, err := json.Marshal(renderedDoc{Rendered: prior})
	if err != nil {
		return nil
	}
	nextJSON, err := json.Marshal(renderedDoc{Rendered: next})
	if err != nil {
		return nil
	}
	patch, err := jsonpatch.CreateMergePatch(priorJSON, nextJSON)
	if err != nil {
		return nil
	}
	return patch
}

// referenceSortKey builds the author+year sort key AssignYearSuffixes
// orders a collision group by: family name (or literal name) then
// issued year, the same two fields AuthorYearKey groups on.
func referenceSortKey(r value.Reference) string {
	var b sortkey.Builder
	names := r.Name["author"]
	if len(names) > 0 {
		if names[0].IsLiteral() {
			b.Text(names[0].Literal)
		} else {
			b.Text(names[0].Family)
		}
	}
	b.Date(r.Date["issued"])
	return b.String()
}

// InitClusters replaces the entire cluster/cite set, keeping the cite
// ids the caller supplies on each cite, per spec §6's init-clusters
// bulk load.
func (p *Processor) InitClusters(inputs []ClusterInput) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clusters = map[cite.ClusterID]*clusterEntry{}
	p.clusterIDsOrdered = nil
	p.cites = map[cite.ID]cite.Cite{}
	p.citeCluster = map[cite.ID]cite.ClusterID{}

	for _, in := range inputs {
		p.insertClusterLocked(in)
	}
	p.store.Generations.BumpClusterIDs()
}

// InsertCluster adds or replaces one cluster, per spec §6's
// insert-cluster (used for incremental edits rather than a full
// reload).
func (p *Processor) InsertCluster(in ClusterInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.insertClusterLocked(in)
	p.store.Generations.BumpClusterIDs()
}

// insertClusterLocked must be called with p.mu held.
func (p *Processor) insertClusterLocked(in ClusterInput) {
	if _, existed := p.clusters[in.ID]; !existed {
		p.clusterIDsOrdered = append(p.clusterIDsOrdered, in.ID)
	}

	ids := make([]cite.ID, len(in.Cites))
	for i, c := range in.Cites {
		p.cites[c.ID] = c
		p.citeCluster[c.ID] = in.ID
		ids[i] = c.ID
	}
	p.clusters[in.ID] = &clusterEntry{Number: in.Number, CiteIDs: ids}
	p.store.Generations.BumpClusterCites(string(in.ID))
	p.store.Generations.BumpClusterNoteNumber(string(in.ID))
}

// RemoveCluster drops a cluster and its cites outright, invalidating
// its cached built-cluster entry so a later re-query can never surface
// the removed cluster's last rendering (spec §6's remove-cluster).
func (p *Processor) RemoveCluster(id cite.ClusterID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.clusters[id]
	if !ok {
		return
	}
	for _, cid := range entry.CiteIDs {
		delete(p.cites, cid)
		delete(p.citeCluster, cid)
	}
	delete(p.clusters, id)
	delete(p.lastRendered, id)
	for i, cid := range p.clusterIDsOrdered {
		if cid == id {
			p.clusterIDsOrdered = append(p.clusterIDsOrdered[:i], p.clusterIDsOrdered[i+1:]...)
			break
		}
	}
	p.store.Generations.BumpClusterIDs()
	p.store.Invalidate(incremental.BuiltClusterQuery{ID: string(id)})
}

// RenumberClusters applies new document-position numbers to existing
// clusters without touching their cites, per spec §6's
// renumber-clusters (the common case of a host reordering clusters
// after an edit rather than resending their contents).
func (p *Processor) RenumberClusters(mappings map[cite.ClusterID]cite.ClusterNumber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, num := range mappings {
		if entry, ok := p.clusters[id]; ok {
			entry.Number = num
		}
	}
	p.store.Generations.BumpClusterIDs()
}

// GetCluster returns the last computed rendering for id, if Compute
// has been run since it was inserted.
func (p *Processor) GetCluster(id cite.ClusterID) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	text, ok := p.lastRendered[id]
	return text, ok
}

// orderedClusterIDs returns cluster ids sorted into document order by
// ClusterNumber, the order spec §4.5's position rules are defined
// over. Must be called with p.mu held.
func (p *Processor) orderedClusterIDs() []cite.ClusterID {
	ids := make([]cite.ClusterID, len(p.clusterIDsOrdered))
	copy(ids, p.clusterIDsOrdered)
	sort.Slice(ids, func(i, j int) bool {
		return p.clusters[ids[i]].Number.Less(p.clusters[ids[j]].Number)
	})
	return ids
}

// Compute runs the full pipeline over every cluster currently held:
// position resolution, document-wide disambiguation, year-suffix
// assignment, and cluster assembly, queuing a ClusterUpdate (and
// invoking saveUpdates, if set) for every cluster whose built-cluster
// query was recomputed, whether or not its text differs. Per spec §5, callers serialize their own mutate/compute
// calls; Compute does not itself schedule concurrent work.
func (p *Processor) Compute() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	orderedIDs := p.orderedClusterIDs()

	occurrences := make([]cluster.CiteOccurrence, 0, len(p.cites))
	for _, cid := range orderedIDs {
		entry := p.clusters[cid]
		for _, citeID := range entry.CiteIDs {
			c := p.cites[citeID]
			occurrences = append(occurrences, cluster.CiteOccurrence{
				CiteID:      citeID,
				ClusterID:   cid,
				ReferenceID: c.ReferenceID,
				Locator:     c.Locator,
				IsNote:      entry.Number.IsNote,
				NoteNumber:  entry.Number.Note,
			})
		}
	}

	nearNoteDistance := 5
	if p.compiledStyle != nil {
		nearNoteDistance = p.compiledStyle.Options.NearNoteDistance
	}
	resolved := cluster.ResolvePositions(occurrences, nearNoteDistance)

	for _, lang := range p.langsInUseLocked() {
		p.ensureLocale(lang)
	}

	engine := disamb.NewEngine(p.compiledStyle, p.terms)

	citationNumber := map[cite.ID]int{}
	for i, occ := range occurrences {
		citationNumber[occ.CiteID] = i + 1
	}

	inputs := make([]disamb.CiteInput, 0, len(occurrences))
	citedRefIDs := map[string]bool{}
	for _, occ := range occurrences {
		ref, ok := p.references[occ.ReferenceID]
		if !ok {
			return fmt.Errorf("%w: cite %d references unknown reference %q", errs.ErrInvariantViolation, occ.CiteID, occ.ReferenceID)
		}
		if err := p.cites[occ.CiteID].Suppression.Validate(); err != nil {
			return err
		}
		if occ.Locator != nil {
			if err := cite.ValidateLocatorType(occ.Locator.Type); err != nil {
				return err
			}
		}
		citedRefIDs[occ.ReferenceID] = true

		r := resolved[occ.CiteID]
		num := citationNumber[occ.CiteID]
		ctx := refctx.New(ref, r.Position, occ.Locator, false, false, r.FirstReferenceNoteNumber, &num)
		inputs = append(inputs, disamb.CiteInput{ID: occ.CiteID, ReferenceID: occ.ReferenceID, Context: ctx})
	}

	result, err := engine.Resolve(inputs)
	if err != nil {
		return err
	}

	refs := make([]value.Reference, 0, len(citedRefIDs))
	for id := range citedRefIDs {
		refs = append(refs, p.references[id])
	}
	suffixes := disamb.AssignYearSuffixes(refs, citedRefIDs, referenceSortKey)

	nodes := result.IR
	if len(suffixes) > 0 {
		byID := map[cite.ID]disamb.CiteInput{}
		for _, in := range inputs {
			byID[in.ID] = in
		}
		for _, occ := range occurrences {
			suffix, hasSuffix := suffixes[occ.ReferenceID]
			if !hasSuffix {
				continue
			}
			in := byID[occ.CiteID]
			node, err := engine.RenderWithYearSuffix(in, result.Levels[occ.CiteID], true)
			if err != nil {
				return err
			}
			nodes[occ.CiteID] = ir.ApplyYearSuffix(node, suffix)
		}
	}

	prior := make(map[cite.ClusterID]string, len(orderedIDs))
	for cid, text := range p.lastRendered {
		prior[cid] = text
	}

	rendered := make(map[cite.ClusterID]string, len(orderedIDs))
	for _, cid := range orderedIDs {
		entry := p.clusters[cid]
		citeDeps := make([]incremental.Dep, 0, len(entry.CiteIDs)*2+3)
		citeDeps = append(citeDeps,
			incremental.Dep{Kind: incremental.DepClusterCites, ID: string(cid)},
			incremental.Dep{Kind: incremental.DepClusterNoteNumber, ID: string(cid)},
			incremental.Dep{Kind: incremental.DepClusterIDs},
			incremental.Dep{Kind: incremental.DepStyle},
		)
		seenLangs := map[string]bool{}
		for _, citeID := range entry.CiteIDs {
			c := p.cites[citeID]
			citeDeps = append(citeDeps, incremental.Dep{Kind: incremental.DepReference, ID: c.ReferenceID})
			lang := p.references[c.ReferenceID].Lang
			if !seenLangs[lang] {
				seenLangs[lang] = true
				citeDeps = append(citeDeps, incremental.Dep{Kind: incremental.DepLocale, ID: lang})
			}
		}

		text, err := p.store.QueryBuiltCluster(string(cid), citeDeps, func() (string, error) {
			rcites := make([]cluster.RenderedCite, 0, len(entry.CiteIDs))
			for _, citeID := range entry.CiteIDs {
				c := p.cites[citeID]
				rcites = append(rcites, cluster.RenderedCite{
					CiteID: citeID,
					Node:   nodes[citeID],
					Prefix: c.Prefix,
					Suffix: c.Suffix,
				})
			}
			return cluster.Assemble(rcites, p.compiledStyle.Options, p.formatter), nil
		})
		if err != nil {
			return err
		}
		rendered[cid] = text
		p.lastRendered[cid] = text
	}

	var updates []ClusterUpdate
	for _, recomputedID := range p.store.DrainRecomputedClusters() {
		cid := cite.ClusterID(recomputedID)
		text, ok := rendered[cid]
		if !ok {
			continue
		}
		update := ClusterUpdate{ClusterID: cid, Rendered: text, Patch: mergePatch(prior[cid], text)}
		updates = append(updates, update)
		if p.saveUpdates != nil {
			p.saveUpdates(update)
		}
	}

	p.pendingMu.Lock()
	p.pending = append(p.pending, updates...)
	p.pendingMu.Unlock()

	p.logger.Debug("compute finished", zap.Int("clusters", len(orderedIDs)), zap.Int("updates", len(updates)))
	return nil
}

// BatchedUpdates returns every ClusterUpdate queued since the last
// Drain, without clearing the queue, per spec §6's batched-updates().
func (p *Processor) BatchedUpdates() []ClusterUpdate {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	out := make([]ClusterUpdate, len(p.pending))
	copy(out, p.pending)
	return out
}

// Drain empties the pending update queue, per spec §6's drain().
func (p *Processor) Drain() {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	p.pending = nil
}
