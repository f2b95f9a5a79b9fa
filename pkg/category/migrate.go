package category

import "github.com/google/uuid"

// NeedsIDs reports whether any node in the tree is missing its identifier.
// Legacy data predating stable ids serialises with empty id fields.
func (t *Tree) NeedsIDs() bool {
	needs := false
	t.Walk(func(c *Category) {
		if c.ID == "" {
			needs = true
		}
	})
	return needs
}

// EnsureIDs runs the one-time legacy migration: when any node is missing an
// id, every node in the tree receives a fresh unique id, assigned depth-first
// in deterministic order. Returns true when the tree was rewritten and should
// be persisted immediately.
func (t *Tree) EnsureIDs() bool {
	if !t.NeedsIDs() {
		return false
	}
	t.Walk(func(c *Category) {
		c.ID = uuid.NewString()
	})
	return true
}
