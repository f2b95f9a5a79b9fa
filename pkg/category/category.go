// Package category defines the organizational tree model: named categories
// holding item references, tab-like subcategories, and nested child categories.
package category

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Category is a named node in the organizational tree. Children nest
// hierarchically; SubCategories are flat tab-like groupings under their owner.
// ItemRefs hold opaque identifiers for externally-owned items, resolved on
// demand for display.
type Category struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	ItemRefs      []string    `json:"itemRefs"`
	SubCategories []*Category `json:"subCategories"`
	Children      []*Category `json:"children"`
}

// New creates a category with a fresh unique id and empty lists.
func New(name string) *Category {
	return &Category{
		ID:            uuid.NewString(),
		Name:          name,
		ItemRefs:      []string{},
		SubCategories: []*Category{},
		Children:      []*Category{},
	}
}

// HasItemRef reports whether the category already references the item.
func (c *Category) HasItemRef(ref string) bool {
	for _, r := range c.ItemRefs {
		if r == ref {
			return true
		}
	}
	return false
}

// AddItemRef appends the reference with set semantics. Returns false when the
// reference was already present.
func (c *Category) AddItemRef(ref string) bool {
	if ref == "" || c.HasItemRef(ref) {
		return false
	}
	c.ItemRefs = append(c.ItemRefs, ref)
	return true
}

// RemoveItemRef drops the reference if present.
func (c *Category) RemoveItemRef(ref string) bool {
	for i, r := range c.ItemRefs {
		if r == ref {
			c.ItemRefs = append(c.ItemRefs[:i], c.ItemRefs[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the category and everything under it. Ids are
// preserved; no node or slice is shared with the original.
func (c *Category) Clone() *Category {
	out := &Category{
		ID:            c.ID,
		Name:          c.Name,
		ItemRefs:      append([]string{}, c.ItemRefs...),
		SubCategories: make([]*Category, 0, len(c.SubCategories)),
		Children:      make([]*Category, 0, len(c.Children)),
	}
	for _, sub := range c.SubCategories {
		out.SubCategories = append(out.SubCategories, sub.Clone())
	}
	for _, child := range c.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return out
}

// normalize guarantees the list fields are present as empty slices, never nil,
// so serialized trees always round-trip with explicit empty arrays.
func (c *Category) normalize() {
	if c.ItemRefs == nil {
		c.ItemRefs = []string{}
	}
	if c.SubCategories == nil {
		c.SubCategories = []*Category{}
	}
	if c.Children == nil {
		c.Children = []*Category{}
	}
	for _, sub := range c.SubCategories {
		sub.normalize()
	}
	for _, child := range c.Children {
		child.normalize()
	}
}

// MarshalRoots serialises a root sequence, pretty-printed for version control.
func MarshalRoots(roots []*Category) ([]byte, error) {
	if roots == nil {
		roots = []*Category{}
	}
	return json.MarshalIndent(roots, "", "  ")
}

// UnmarshalRoots deserialises a root sequence, normalizing absent lists to
// empty slices. Empty input yields an empty root sequence.
func UnmarshalRoots(data []byte) ([]*Category, error) {
	if len(data) == 0 {
		return []*Category{}, nil
	}
	var roots []*Category
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []*Category{}
	}
	for _, root := range roots {
		root.normalize()
	}
	return roots, nil
}
