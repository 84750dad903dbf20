package ir

import "testing"

func TestGroupRendersOnNoneSeen(t *testing.T) {
	// <group><text value="tag"/></group> — no variable referenced at all.
	g := Group("", Text("tag"))
	g.GroupVars = NoneSeen
	if !g.GroupVars.Renders() {
		t.Fatalf("NoneSeen group should render")
	}
	if Flatten(g) != "tag" {
		t.Fatalf("got %q", Flatten(g))
	}
}

func TestGroupSuppressesOnOnlyEmpty(t *testing.T) {
	g := Group("", Text(""))
	g.GroupVars = OnlyEmpty
	if g.GroupVars.Renders() {
		t.Fatalf("OnlyEmpty group should not render")
	}
	if Flatten(g) != "" {
		t.Fatalf("expected empty flatten, got %q", Flatten(g))
	}
}

func TestGroupRendersOnDidRender(t *testing.T) {
	g := Group("", Text("URL"))
	g.GroupVars = DidRender
	if !g.GroupVars.Renders() {
		t.Fatalf("DidRender group should render")
	}
}

func TestNeighborDominance(t *testing.T) {
	if NoneSeen.Neighbor(DidRender) != DidRender {
		t.Fatalf("DidRender should dominate NoneSeen")
	}
	if NoneSeen.Neighbor(OnlyEmpty) != OnlyEmpty {
		t.Fatalf("OnlyEmpty should dominate NoneSeen")
	}
	if OnlyEmpty.Neighbor(DidRender) != DidRender {
		t.Fatalf("DidRender should dominate OnlyEmpty")
	}
	if NoneSeen.Neighbor(NoneSeen) != NoneSeen {
		t.Fatalf("NoneSeen combined with NoneSeen should stay NoneSeen")
	}
}

func TestParentNewDoesNotErasePriorRender(t *testing.T) {
	parent := DidRender
	parent = parent.ParentNew(OnlyEmpty)
	if parent != DidRender {
		t.Fatalf("a later OnlyEmpty subtree must not erase an earlier DidRender, got %v", parent)
	}
}

func TestParentNewPromotesOnDidRender(t *testing.T) {
	parent := NoneSeen
	parent = parent.ParentNew(DidRender)
	if parent != DidRender {
		t.Fatalf("expected promotion to DidRender, got %v", parent)
	}
}

func TestParentNewOnlyEmptyFromNoneSeen(t *testing.T) {
	parent := NoneSeen
	parent = parent.ParentNew(OnlyEmpty)
	if parent != OnlyEmpty {
		t.Fatalf("expected OnlyEmpty, got %v", parent)
	}
}
