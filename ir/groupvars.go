package ir

// GroupVars is the tri-state summary a group subtree accumulates while
// being built, per spec §4.3. It is the single thing that decides
// whether a <group> renders: a group renders iff its final summary is
// not OnlyEmpty. The combination rules below are ported from
// citeproc-rs's group.rs (original_source), which is the literal source
// of this section of the spec.
type GroupVars int

const (
	// NoneSeen: no variable referenced anywhere in the subtree so far.
	NoneSeen GroupVars = iota
	// OnlyEmpty: at least one variable referenced, none produced output.
	OnlyEmpty
	// DidRender: at least one variable referenced and rendered.
	DidRender
)

func (g GroupVars) String() string {
	switch g {
	case NoneSeen:
		return "NoneSeen"
	case OnlyEmpty:
		return "OnlyEmpty"
	case DidRender:
		return "DidRender"
	default:
		return "<unknown GroupVars>"
	}
}

// LeafVars computes the GroupVars contribution of a single leaf: a leaf
// that referenced no variable contributes NoneSeen; one that referenced
// a variable contributes DidRender if it produced output, else
// OnlyEmpty.
func LeafVars(referencedVariable, producedOutput bool) GroupVars {
	if !referencedVariable {
		return NoneSeen
	}
	if producedOutput {
		return DidRender
	}
	return OnlyEmpty
}

// Neighbor combines the GroupVars of two sibling subtrees within the
// same group: DidRender dominates; OnlyEmpty dominates NoneSeen;
// otherwise NoneSeen.
func (g GroupVars) Neighbor(o GroupVars) GroupVars {
	if g == DidRender || o == DidRender {
		return DidRender
	}
	if g == OnlyEmpty || o == OnlyEmpty {
		return OnlyEmpty
	}
	return NoneSeen
}

// ParentNew folds a child subtree's summary into a parent's running
// summary, per spec §4.3's parent-inheritance rule and ported from
// citeproc-rs's with_subtree/did_not_render:
//   - a NoneSeen child leaves the parent unchanged;
//   - a DidRender child promotes the parent to DidRender;
//   - an OnlyEmpty child applies "did-not-render" to the parent: if the
//     parent was already DidRender (from an earlier sibling subtree) it
//     stays DidRender; otherwise it becomes OnlyEmpty. A later
//     all-empty subtree never erases an earlier sibling's real output.
func (parent GroupVars) ParentNew(child GroupVars) GroupVars {
	switch child {
	case NoneSeen:
		return parent
	case DidRender:
		return DidRender
	case OnlyEmpty:
		if parent == DidRender {
			return parent
		}
		return OnlyEmpty
	default:
		return parent
	}
}

// Renders reports whether a group with this summary should render its
// children, per spec §4.3's final test.
func (g GroupVars) Renders() bool {
	return g != OnlyEmpty
}
