package category

import (
	"errors"
	"reflect"
	"testing"
)

func names(nodes []*Category) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestAddChildSortsRoots(t *testing.T) {
	tree := NewTree()
	tree.AddChild(nil, "Zebra")
	tree.AddChild(nil, "Apple")

	got := names(tree.Roots)
	want := []string{"Apple", "Zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected roots %v, got %v", want, got)
	}
}

func TestAddChildUnderParent(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	b := tree.AddChild(a, "B")

	if b.ID == "" {
		t.Fatal("expected fresh id on new child")
	}
	if len(a.Children) != 1 || a.Children[0] != b {
		t.Fatalf("expected A to contain B, got %v", names(a.Children))
	}
	if len(b.ItemRefs) != 0 || len(b.SubCategories) != 0 || len(b.Children) != 0 {
		t.Fatal("expected new child to start with empty lists")
	}
	if b.ItemRefs == nil || b.SubCategories == nil || b.Children == nil {
		t.Fatal("expected list fields to be non-nil empty slices")
	}
}

func TestFindByIDAtDepth(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	sub := tree.AddSubcategory(a, "tab")
	deep := tree.AddChild(tree.AddChild(a, "mid"), "deep")

	for _, node := range []*Category{a, sub, deep} {
		if got := tree.FindByID(node.ID); got != node {
			t.Fatalf("FindByID(%q) returned %v, want %v", node.ID, got, node)
		}
	}
	if got := tree.FindByID("nope"); got != nil {
		t.Fatalf("expected nil for unknown id, got %v", got)
	}
	if got := tree.FindByID(""); got != nil {
		t.Fatalf("expected nil for empty id, got %v", got)
	}
}

func TestReparentRejectsSelfAndDescendants(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	b := tree.AddChild(a, "B")
	c := tree.AddChild(b, "C")

	if err := tree.Reparent(a, nil, a); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("moving onto itself: expected ErrInvalidMove, got %v", err)
	}
	if err := tree.Reparent(a, nil, c); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("moving onto own descendant: expected ErrInvalidMove, got %v", err)
	}
	if err := tree.Reparent(b, a, a); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("moving onto current parent: expected ErrInvalidMove, got %v", err)
	}

	// Nothing should have moved.
	if !reflect.DeepEqual(names(tree.Roots), []string{"A"}) {
		t.Fatalf("roots mutated by rejected move: %v", names(tree.Roots))
	}
	if !reflect.DeepEqual(names(a.Children), []string{"B"}) {
		t.Fatalf("A.children mutated by rejected move: %v", names(a.Children))
	}
}

func TestReparentMovesAndSorts(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	z := tree.AddChild(nil, "Z")
	b := tree.AddChild(z, "B")
	tree.AddChild(a, "M")

	if err := tree.Reparent(b, z, a); err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if len(z.Children) != 0 {
		t.Fatalf("expected B gone from Z, got %v", names(z.Children))
	}
	if !reflect.DeepEqual(names(a.Children), []string{"B", "M"}) {
		t.Fatalf("expected A.children sorted [B M], got %v", names(a.Children))
	}

	// Move back to the root sequence.
	if err := tree.Reparent(b, a, nil); err != nil {
		t.Fatalf("reparent to root: %v", err)
	}
	if !reflect.DeepEqual(names(tree.Roots), []string{"A", "B", "Z"}) {
		t.Fatalf("expected roots sorted [A B Z], got %v", names(tree.Roots))
	}
}

func TestRenameResortsContainer(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	m := tree.AddChild(a, "M")
	tree.AddChild(a, "B")

	tree.Rename(m, "AAA")
	if !reflect.DeepEqual(names(a.Children), []string{"AAA", "B"}) {
		t.Fatalf("expected resorted children, got %v", names(a.Children))
	}

	// Empty and unchanged names are no-ops.
	tree.Rename(m, "")
	if m.Name != "AAA" {
		t.Fatalf("empty rename mutated name to %q", m.Name)
	}
	tree.Rename(m, "AAA")
	if m.Name != "AAA" {
		t.Fatalf("same-name rename mutated name to %q", m.Name)
	}
}

func TestRenameSubcategoryResortsTabs(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	tree.AddSubcategory(a, "alpha")
	z := tree.AddSubcategory(a, "zulu")

	tree.Rename(z, "aardvark")
	if !reflect.DeepEqual(names(a.SubCategories), []string{"aardvark", "alpha"}) {
		t.Fatalf("expected resorted tabs, got %v", names(a.SubCategories))
	}
}

func TestDeleteAtAnyDepth(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	b := tree.AddChild(a, "B")
	c := tree.AddChild(b, "C")

	if !tree.Delete(c) {
		t.Fatal("expected delete of nested node to succeed")
	}
	if len(b.Children) != 0 {
		t.Fatalf("expected C removed, got %v", names(b.Children))
	}
	if !tree.Delete(a) {
		t.Fatal("expected delete of root to succeed")
	}
	if len(tree.Roots) != 0 {
		t.Fatalf("expected empty roots, got %v", names(tree.Roots))
	}
	if tree.Delete(c) {
		t.Fatal("expected second delete to be a no-op")
	}
}

func TestRemoveSubcategory(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	s := tree.AddSubcategory(a, "tab")

	if !tree.RemoveSubcategory(a, s.ID) {
		t.Fatal("expected subcategory removal to succeed")
	}
	if len(a.SubCategories) != 0 {
		t.Fatalf("expected empty tabs, got %v", names(a.SubCategories))
	}
	if tree.RemoveSubcategory(a, s.ID) {
		t.Fatal("expected removal of missing tab to report false")
	}
}

func TestMoveItemRefSetSemantics(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	s1 := tree.AddSubcategory(a, "S1")
	s2 := tree.AddSubcategory(a, "S2")
	s1.AddItemRef("g1")
	s2.AddItemRef("g1")

	MoveItemRef("g1", s1, s2)

	if s1.HasItemRef("g1") {
		t.Fatal("expected g1 removed from S1")
	}
	count := 0
	for _, r := range s2.ItemRefs {
		if r == "g1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one g1 in S2, got %d", count)
	}
}

func TestRemoveFromParentIsNoOpWhenAbsent(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	stray := New("stray")

	tree.RemoveFromParent(stray)
	if !reflect.DeepEqual(names(tree.Roots), []string{"A"}) {
		t.Fatalf("roots mutated: %v", names(tree.Roots))
	}

	b := tree.AddChild(a, "B")
	tree.RemoveFromParent(b)
	if len(a.Children) != 0 {
		t.Fatalf("expected B removed, got %v", names(a.Children))
	}
}

func TestRoundTripPreservesTree(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	tree.AddChild(nil, "Z")
	b := tree.AddChild(a, "B")
	tree.AddChild(b, "deep")
	s := tree.AddSubcategory(a, "tab")
	s.AddItemRef("g1")
	s.AddItemRef("g2")

	data, err := MarshalRoots(tree.Roots)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	roots, err := UnmarshalRoots(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(roots, tree.Roots) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", roots, tree.Roots)
	}
}

func TestUnmarshalRootsToleratesEmptyAndNormalizes(t *testing.T) {
	roots, err := UnmarshalRoots(nil)
	if err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if roots == nil || len(roots) != 0 {
		t.Fatalf("expected empty root sequence, got %#v", roots)
	}

	// Lists absent in the serialized form come back as empty slices.
	roots, err = UnmarshalRoots([]byte(`[{"id":"x","name":"A"}]`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if roots[0].ItemRefs == nil || roots[0].SubCategories == nil || roots[0].Children == nil {
		t.Fatal("expected normalized empty lists")
	}
}

func TestIsDescendantOf(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	b := tree.AddChild(a, "B")
	c := tree.AddChild(b, "C")

	if !IsDescendantOf(c, a) {
		t.Fatal("expected C to be a descendant of A")
	}
	if IsDescendantOf(a, c) {
		t.Fatal("did not expect A to be a descendant of C")
	}
	if IsDescendantOf(a, a) {
		t.Fatal("a node is not its own descendant")
	}
}

func TestParentOf(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	b := tree.AddChild(a, "B")

	if p, ok := tree.ParentOf(a); !ok || p != nil {
		t.Fatalf("expected root parent (nil, true), got (%v, %v)", p, ok)
	}
	if p, ok := tree.ParentOf(b); !ok || p != a {
		t.Fatalf("expected parent A, got (%v, %v)", p, ok)
	}
	if _, ok := tree.ParentOf(New("stray")); ok {
		t.Fatal("expected stray node to have no parent")
	}
}

func TestParentOfChildUnderSubcategory(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	tab := tree.AddSubcategory(a, "Tab")
	c := tree.AddChild(tab, "C")

	p, ok := tree.ParentOf(c)
	if !ok || p != tab {
		t.Fatalf("expected parent Tab, got (%v, %v)", p, ok)
	}

	// The node is movable like any other child.
	b := tree.AddChild(nil, "B")
	if err := tree.Reparent(c, tab, b); err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if len(tab.Children) != 0 {
		t.Fatalf("expected Tab to lose C, got %v", tab.Children)
	}
	if len(b.Children) != 1 || b.Children[0] != c {
		t.Fatalf("expected C under B, got %v", b.Children)
	}

	// And removable in place.
	d := tree.AddChild(tab, "D")
	tree.RemoveFromParent(d)
	if len(tab.Children) != 0 {
		t.Fatalf("expected Tab emptied, got %v", tab.Children)
	}
}

func TestCloneIsDeepCopy(t *testing.T) {
	tree := NewTree()
	a := tree.AddChild(nil, "A")
	tab := tree.AddSubcategory(a, "Tab")
	tab.AddItemRef("g1")
	b := tree.AddChild(a, "B")

	clone := tree.Clone()
	if !reflect.DeepEqual(tree, clone) {
		t.Fatal("expected clone to be structurally equal")
	}

	// Mutating the original must not show through the clone.
	tree.Rename(b, "Renamed")
	a.AddItemRef("g2")
	tab.RemoveItemRef("g1")
	tree.AddChild(a, "New")

	got := clone.FindByID(b.ID)
	if got == nil || got.Name != "B" {
		t.Fatalf("expected clone to keep name B, got %v", got)
	}
	clonedA := clone.FindByID(a.ID)
	if len(clonedA.ItemRefs) != 0 || len(clonedA.Children) != 1 {
		t.Fatalf("expected clone of A untouched, got %#v", clonedA)
	}
	if refs := clone.FindByID(tab.ID).ItemRefs; len(refs) != 1 || refs[0] != "g1" {
		t.Fatalf("expected clone tab to keep [g1], got %v", refs)
	}
}
