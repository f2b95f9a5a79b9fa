package category

import (
	"errors"
	"sort"
)

var (
	// ErrInvalidMove rejects a reparent that would create a cycle, target the
	// node itself, or re-add the node to its current parent. No state is
	// mutated when it is returned.
	ErrInvalidMove = errors.New("category: invalid move")

	// ErrNotFound is returned when a lookup by id has no match.
	ErrNotFound = errors.New("category: not found")
)

// Tree owns the root sequence of categories. Categories are owned exclusively
// through the Children and SubCategories lists reachable from Roots; parents
// are re-found by structural search rather than back-pointers.
type Tree struct {
	Roots []*Category
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Roots: []*Category{}}
}

// FindByID searches depth-first through the root sequence, each node's
// subcategories, then its children. Returns nil when the id is absent.
func (t *Tree) FindByID(id string) *Category {
	if id == "" {
		return nil
	}
	return findByID(id, t.Roots)
}

func findByID(id string, nodes []*Category) *Category {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := findByID(id, n.SubCategories); found != nil {
			return found
		}
		if found := findByID(id, n.Children); found != nil {
			return found
		}
	}
	return nil
}

// FindByName returns the first node with the given name, searched in the
// same order as FindByID. Names are not unique; first match wins.
func (t *Tree) FindByName(name string) *Category {
	if name == "" {
		return nil
	}
	var found *Category
	t.Walk(func(c *Category) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// IsDescendantOf reports whether candidate appears anywhere in
// ancestor.Children transitively.
func IsDescendantOf(candidate, ancestor *Category) bool {
	if candidate == nil || ancestor == nil {
		return false
	}
	for _, child := range ancestor.Children {
		if child == candidate || IsDescendantOf(candidate, child) {
			return true
		}
	}
	return false
}

// ParentOf locates the node's current parent by scanning children lists from
// the roots, descending through subcategory tabs as well. Returns (nil, true)
// when the node is a root, (nil, false) when it is not in the tree at all.
func (t *Tree) ParentOf(node *Category) (*Category, bool) {
	if node == nil {
		return nil, false
	}
	for _, root := range t.Roots {
		if root == node {
			return nil, true
		}
	}
	var walk func(c *Category) (*Category, bool)
	walk = func(c *Category) (*Category, bool) {
		for _, child := range c.Children {
			if child == node {
				return c, true
			}
			if p, ok := walk(child); ok {
				return p, ok
			}
		}
		// Subcategory tabs can hold nested children of their own.
		for _, sub := range c.SubCategories {
			if p, ok := walk(sub); ok {
				return p, ok
			}
		}
		return nil, false
	}
	for _, root := range t.Roots {
		if p, ok := walk(root); ok {
			return p, ok
		}
	}
	return nil, false
}

// Reparent removes node from oldParent (or the root sequence when oldParent is
// nil) and appends it to newParent.Children (or the root sequence), re-sorting
// the destination. It fails with ErrInvalidMove when the move would target the
// node itself, a descendant of the node, or the node's current direct parent.
func (t *Tree) Reparent(node, oldParent, newParent *Category) error {
	if node == nil {
		return ErrNotFound
	}
	if newParent == node {
		return ErrInvalidMove
	}
	if IsDescendantOf(newParent, node) {
		return ErrInvalidMove
	}
	if newParent == nil {
		if containsNode(t.Roots, node) && oldParent == nil {
			return ErrInvalidMove
		}
	} else if containsNode(newParent.Children, node) {
		return ErrInvalidMove
	}

	if oldParent == nil {
		t.Roots = removeNode(t.Roots, node)
	} else {
		oldParent.Children = removeNode(oldParent.Children, node)
	}

	if newParent == nil {
		t.Roots = append(t.Roots, node)
		sortSiblings(t.Roots)
	} else {
		newParent.Children = append(newParent.Children, node)
		sortSiblings(newParent.Children)
	}
	return nil
}

// RemoveFromParent locates the node's current parent structurally and removes
// the node from it. No-op when the node is not in the tree.
func (t *Tree) RemoveFromParent(node *Category) {
	parent, ok := t.ParentOf(node)
	if !ok {
		return
	}
	if parent == nil {
		t.Roots = removeNode(t.Roots, node)
		return
	}
	parent.Children = removeNode(parent.Children, node)
}

// AddChild creates a new category under parent (or at the root when parent is
// nil), keeping the destination sorted. Returns the new node.
func (t *Tree) AddChild(parent *Category, name string) *Category {
	node := New(name)
	if parent == nil {
		t.Roots = append(t.Roots, node)
		sortSiblings(t.Roots)
	} else {
		parent.Children = append(parent.Children, node)
		sortSiblings(parent.Children)
	}
	return node
}

// AddSubcategory creates a new subcategory tab under owner, keeping the
// subcategory list sorted.
func (t *Tree) AddSubcategory(owner *Category, name string) *Category {
	node := New(name)
	owner.SubCategories = append(owner.SubCategories, node)
	sortSiblings(owner.SubCategories)
	return node
}

// Rename sets the node's display name and re-sorts its containing sequence.
// No-op when the new name is empty or unchanged.
func (t *Tree) Rename(node *Category, newName string) {
	if node == nil || newName == "" || newName == node.Name {
		return
	}
	node.Name = newName
	t.resortContainer(node)
}

// resortContainer finds the sequence holding node (roots, a children list, or
// a subcategory list) and re-sorts it in place.
func (t *Tree) resortContainer(node *Category) {
	if containsNode(t.Roots, node) {
		sortSiblings(t.Roots)
		return
	}
	var walk func(c *Category) bool
	walk = func(c *Category) bool {
		if containsNode(c.Children, node) {
			sortSiblings(c.Children)
			return true
		}
		if containsNode(c.SubCategories, node) {
			sortSiblings(c.SubCategories)
			return true
		}
		for _, child := range c.Children {
			if walk(child) {
				return true
			}
		}
		for _, sub := range c.SubCategories {
			if walk(sub) {
				return true
			}
		}
		return false
	}
	for _, root := range t.Roots {
		if walk(root) {
			return
		}
	}
}

// Delete removes the node from the root sequence or whichever children list
// holds it. Subcategory tabs are removed via RemoveSubcategory instead.
// Returns false when the node was not found.
func (t *Tree) Delete(node *Category) bool {
	if node == nil {
		return false
	}
	if containsNode(t.Roots, node) {
		t.Roots = removeNode(t.Roots, node)
		return true
	}
	var walk func(c *Category) bool
	walk = func(c *Category) bool {
		if containsNode(c.Children, node) {
			c.Children = removeNode(c.Children, node)
			return true
		}
		for _, child := range c.Children {
			if walk(child) {
				return true
			}
		}
		for _, sub := range c.SubCategories {
			if walk(sub) {
				return true
			}
		}
		return false
	}
	for _, root := range t.Roots {
		if walk(root) {
			return true
		}
	}
	return false
}

// RemoveSubcategory drops the subcategory with the given id from the owner's
// tab list. Returns false when no tab matched.
func (t *Tree) RemoveSubcategory(owner *Category, id string) bool {
	if owner == nil {
		return false
	}
	for i, sub := range owner.SubCategories {
		if sub.ID == id {
			owner.SubCategories = append(owner.SubCategories[:i], owner.SubCategories[i+1:]...)
			return true
		}
	}
	return false
}

// MoveItemRef moves an item reference between categories with set semantics:
// the ref is removed from the source if present and appended to the
// destination unless already there.
func MoveItemRef(ref string, from, to *Category) {
	if from != nil {
		from.RemoveItemRef(ref)
	}
	if to != nil {
		to.AddItemRef(ref)
	}
}

// Clone returns a deep copy of the tree. Used to snapshot the live tree under
// a session's lock so serialization can happen off the lock without racing
// concurrent mutations.
func (t *Tree) Clone() *Tree {
	out := &Tree{Roots: make([]*Category, 0, len(t.Roots))}
	for _, root := range t.Roots {
		out.Roots = append(out.Roots, root.Clone())
	}
	return out
}

// Sort re-sorts the root sequence and every children and subcategory list in
// the tree, stable and ordinal by name.
func (t *Tree) Sort() {
	sortSiblings(t.Roots)
	var walk func(c *Category)
	walk = func(c *Category) {
		sortSiblings(c.Children)
		sortSiblings(c.SubCategories)
		for _, child := range c.Children {
			walk(child)
		}
		for _, sub := range c.SubCategories {
			walk(sub)
		}
	}
	for _, root := range t.Roots {
		walk(root)
	}
}

// Walk visits every node depth-first: the node itself, then its
// subcategories, then its children, matching FindByID's search order.
func (t *Tree) Walk(visit func(*Category)) {
	var walk func(c *Category)
	walk = func(c *Category) {
		visit(c)
		for _, sub := range c.SubCategories {
			walk(sub)
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	for _, root := range t.Roots {
		walk(root)
	}
}

func sortSiblings(nodes []*Category) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
}

func containsNode(nodes []*Category, node *Category) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}

func removeNode(nodes []*Category, node *Category) []*Category {
	for i, n := range nodes {
		if n == node {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}
