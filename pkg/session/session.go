package session

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/store"
)

// Session is one open view over a category tree. It owns its tree instance
// exclusively; sibling sessions hold their own independently loaded copies
// and converge through the broker.
type Session struct {
	id        string
	store     store.Store
	broker    *Broker
	resolver  Resolver
	selection SelectionBridge
	redraw    func()

	mu                sync.Mutex
	scope             store.Scope
	mode              store.Mode
	tree              *category.Tree
	activeCategory    string
	activeSubcategory string
}

// New creates a session bound to a store and broker. Call Start before use.
func New(id string, st store.Store, broker *Broker, scope store.Scope, mode store.Mode) *Session {
	return &Session{
		id:     id,
		store:  st,
		broker: broker,
		scope:  scope,
		mode:   mode,
		tree:   category.NewTree(),
	}
}

// SetResolver wires the host's item resolution collaborator.
func (s *Session) SetResolver(r Resolver) { s.resolver = r }

// SetSelectionBridge wires the host's selection collaborator.
func (s *Session) SetSelectionBridge(b SelectionBridge) { s.selection = b }

// OnRedraw registers the host redraw callback.
func (s *Session) OnRedraw(fn func()) { s.redraw = fn }

// SessionID implements Member.
func (s *Session) SessionID() string { return s.id }

// Redraw implements Member.
func (s *Session) Redraw() {
	if s.redraw != nil {
		s.redraw()
	}
}

// Start loads the tree for the session's scope, runs the legacy-id migration
// check (persisting immediately when it rewrites the tree), restores window
// state, and registers with the broker.
func (s *Session) Start() error {
	s.mu.Lock()
	tree, err := s.store.Load(s.scope)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.tree = tree
	migrated := tree.EnsureIDs()
	s.restoreWindowStateLocked()
	s.mu.Unlock()

	if migrated {
		if err := s.persist(); err != nil {
			return err
		}
	}
	if s.broker != nil {
		s.broker.Register(s)
	}
	return nil
}

// Close persists window state and unregisters from the broker.
func (s *Session) Close() {
	s.mu.Lock()
	s.saveWindowStateLocked()
	s.mu.Unlock()
	if s.broker != nil {
		s.broker.Unregister(s.id)
	}
}

// Scope returns the session's current persistence scope.
func (s *Session) Scope() store.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Mode returns the session's presentation mode.
func (s *Session) Mode() store.Mode { return s.mode }

// Tree exposes the live tree. The session owns it; callers must not retain
// references across a reload boundary.
func (s *Session) Tree() *category.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// ActiveCategory returns the active category id, or "" for none.
func (s *Session) ActiveCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCategory
}

// ActiveSubcategory returns the active subcategory id, or "" for none.
func (s *Session) ActiveSubcategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSubcategory
}

// Reload discards the in-memory tree and rebuilds it from the store,
// revalidating the selection against the fresh tree. Invoked by the broker
// when a sibling session saved or the shared file changed externally.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, err := s.store.Load(s.scope)
	if err != nil {
		return err
	}
	s.tree = tree
	s.revalidateSelectionLocked()
	return nil
}

// SelectCategory activates the category with the given id, restoring the
// remembered subcategory for it when that tab still exists, else the first
// subcategory, else none. An unknown id clears the selection.
func (s *Session) SelectCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectCategoryLocked(id)
}

func (s *Session) selectCategoryLocked(id string) {
	cat := s.tree.FindByID(id)
	if cat == nil {
		s.activeCategory = ""
		s.activeSubcategory = ""
		s.saveWindowStateLocked()
		return
	}
	s.activeCategory = cat.ID
	s.activeSubcategory = s.subcategoryForLocked(cat)
	s.saveWindowStateLocked()
	s.pushSelectionLocked()
}

// subcategoryForLocked applies the validated-fallback policy: the remembered
// tab if it still exists under cat, else the first tab, else none.
func (s *Session) subcategoryForLocked(cat *category.Category) string {
	remembered, _ := s.store.GetState(store.StateKey{
		Scope: s.scope, Mode: s.mode, Field: store.FieldActiveSubcategory, CategoryID: cat.ID,
	})
	if remembered != "" {
		for _, sub := range cat.SubCategories {
			if sub.ID == remembered {
				return remembered
			}
		}
	}
	if len(cat.SubCategories) > 0 {
		return cat.SubCategories[0].ID
	}
	return ""
}

// SelectSubcategory activates a tab of the current category. The id must
// exist among the active category's subcategories; the accepted choice is
// remembered per (scope, mode, category).
func (s *Session) SelectSubcategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.tree.FindByID(s.activeCategory)
	if cat == nil {
		return category.ErrNotFound
	}
	for _, sub := range cat.SubCategories {
		if sub.ID == id {
			s.activeSubcategory = id
			if err := s.store.SetState(store.StateKey{
				Scope: s.scope, Mode: s.mode, Field: store.FieldActiveSubcategory, CategoryID: cat.ID,
			}, id); err != nil {
				fmt.Fprintf(os.Stderr, "session: remember subcategory: %v\n", err)
			}
			s.pushSelectionLocked()
			return nil
		}
	}
	return category.ErrNotFound
}

// AddCategory creates a category under parentID ("" adds at the root).
func (s *Session) AddCategory(parentID, name string) (*category.Category, error) {
	if name == "" {
		return nil, errors.New("session: category name required")
	}
	s.mu.Lock()
	var parent *category.Category
	if parentID != "" {
		parent = s.tree.FindByID(parentID)
		if parent == nil {
			s.mu.Unlock()
			return nil, category.ErrNotFound
		}
	}
	node := s.tree.AddChild(parent, name)
	s.mu.Unlock()
	return node, s.persist()
}

// AddSubcategory creates a tab under the category with the given id.
func (s *Session) AddSubcategory(categoryID, name string) (*category.Category, error) {
	if name == "" {
		return nil, errors.New("session: subcategory name required")
	}
	s.mu.Lock()
	owner := s.tree.FindByID(categoryID)
	if owner == nil {
		s.mu.Unlock()
		return nil, category.ErrNotFound
	}
	node := s.tree.AddSubcategory(owner, name)
	if s.activeCategory == owner.ID && s.activeSubcategory == "" {
		s.activeSubcategory = node.ID
	}
	s.mu.Unlock()
	return node, s.persist()
}

// RenameCategory renames a node; empty or unchanged names are no-ops and do
// not write.
func (s *Session) RenameCategory(id, newName string) error {
	s.mu.Lock()
	node := s.tree.FindByID(id)
	if node == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	if newName == "" || newName == node.Name {
		s.mu.Unlock()
		return nil
	}
	s.tree.Rename(node, newName)
	s.mu.Unlock()
	return s.persist()
}

// DeleteCategory removes a node from the root sequence or nested children.
// When the deletion takes the active category with it (the node itself or any
// ancestor of it), the selection falls back to the first remaining root, or
// none when the tree is empty.
func (s *Session) DeleteCategory(id string) error {
	s.mu.Lock()
	node := s.tree.FindByID(id)
	if node == nil || !s.tree.Delete(node) {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	if s.activeCategory != "" && s.tree.FindByID(s.activeCategory) == nil {
		if len(s.tree.Roots) > 0 {
			s.selectCategoryLocked(s.tree.Roots[0].ID)
		} else {
			s.selectCategoryLocked("")
		}
	}
	s.mu.Unlock()
	return s.persist()
}

// DeleteSubcategory removes a tab from its owner. The active tab falls back
// to the owner's first remaining tab, or none.
func (s *Session) DeleteSubcategory(ownerID, subID string) error {
	s.mu.Lock()
	owner := s.tree.FindByID(ownerID)
	if owner == nil || !s.tree.RemoveSubcategory(owner, subID) {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	if s.activeSubcategory == subID {
		s.activeSubcategory = ""
		if len(owner.SubCategories) > 0 {
			s.activeSubcategory = owner.SubCategories[0].ID
		}
	}
	s.mu.Unlock()
	return s.persist()
}

// MoveCategory reparents a node under newParentID ("" moves it to the root).
// Invalid moves (onto itself, a descendant, or its current parent) are
// rejected without mutating or writing anything.
func (s *Session) MoveCategory(id, newParentID string) error {
	s.mu.Lock()
	node := s.tree.FindByID(id)
	if node == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	var newParent *category.Category
	if newParentID != "" {
		newParent = s.tree.FindByID(newParentID)
		if newParent == nil {
			s.mu.Unlock()
			return category.ErrNotFound
		}
	}
	oldParent, ok := s.tree.ParentOf(node)
	if !ok {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	if err := s.tree.Reparent(node, oldParent, newParent); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.persist()
}

// AddItem attaches an item reference to a category. Duplicate refs are
// silently dropped and do not write.
func (s *Session) AddItem(categoryID, ref string) error {
	s.mu.Lock()
	cat := s.tree.FindByID(categoryID)
	if cat == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	added := cat.AddItemRef(ref)
	s.mu.Unlock()
	if !added {
		return nil
	}
	return s.persist()
}

// AddSelectedItems attaches every handle currently selected in the host to
// the category.
func (s *Session) AddSelectedItems(categoryID string) error {
	if s.selection == nil {
		return errors.New("session: no selection bridge configured")
	}
	s.mu.Lock()
	cat := s.tree.FindByID(categoryID)
	if cat == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	added := false
	for _, handle := range s.selection.Selected() {
		if cat.AddItemRef(handle) {
			added = true
		}
	}
	s.mu.Unlock()
	if !added {
		return nil
	}
	return s.persist()
}

// RemoveItem detaches an item reference from a category.
func (s *Session) RemoveItem(categoryID, ref string) error {
	s.mu.Lock()
	cat := s.tree.FindByID(categoryID)
	if cat == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	removed := cat.RemoveItemRef(ref)
	s.mu.Unlock()
	if !removed {
		return nil
	}
	return s.persist()
}

// MoveItem moves an item reference between categories with set semantics.
func (s *Session) MoveItem(ref, fromID, toID string) error {
	s.mu.Lock()
	from := s.tree.FindByID(fromID)
	to := s.tree.FindByID(toID)
	if from == nil || to == nil {
		s.mu.Unlock()
		return category.ErrNotFound
	}
	category.MoveItemRef(ref, from, to)
	s.mu.Unlock()
	return s.persist()
}

// Items runs the grouping pass for a category: every reference is resolved
// through the host resolver and references that no longer exist are pruned
// from the tree (persisted by the next save).
func (s *Session) Items(categoryID string) ([]ResolvedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.tree.FindByID(categoryID)
	if cat == nil {
		return nil, category.ErrNotFound
	}
	out := make([]ResolvedItem, 0, len(cat.ItemRefs))
	if s.resolver == nil {
		for _, ref := range cat.ItemRefs {
			out = append(out, ResolvedItem{Ref: ref, DisplayName: ref})
		}
		return out, nil
	}
	kept := cat.ItemRefs[:0]
	for _, ref := range cat.ItemRefs {
		info := s.resolver.Resolve(ref)
		if !info.Exists {
			continue
		}
		kept = append(kept, ref)
		name := info.DisplayName
		if name == "" {
			name = ref
		}
		out = append(out, ResolvedItem{Ref: ref, DisplayName: name, PreviewIcon: info.PreviewIcon})
	}
	cat.ItemRefs = kept
	return out, nil
}

// SwitchScope saves the current tree to its scope, flips the scope, loads the
// other scope's tree, and restores window state for it.
func (s *Session) SwitchScope() error {
	if err := s.persist(); err != nil {
		return err
	}
	s.mu.Lock()
	s.scope = s.scope.Other()
	tree, err := s.store.Load(s.scope)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.tree = tree
	migrated := tree.EnsureIDs()
	s.restoreWindowStateLocked()
	s.mu.Unlock()
	if migrated {
		if err := s.persist(); err != nil {
			return err
		}
	}
	s.Redraw()
	return nil
}

// Expanded reports the remembered expansion flag for a category.
func (s *Session) Expanded(categoryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetStateBool(store.StateKey{
		Scope: s.scope, Mode: s.mode, Field: store.FieldExpanded, CategoryID: categoryID,
	})
}

// SetExpanded remembers the expansion flag for a category.
func (s *Session) SetExpanded(categoryID string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SetStateBool(store.StateKey{
		Scope: s.scope, Mode: s.mode, Field: store.FieldExpanded, CategoryID: categoryID,
	}, expanded); err != nil {
		fmt.Fprintf(os.Stderr, "session: remember expansion: %v\n", err)
	}
}

// persist writes the tree to the session's scope and propagates the change:
// siblings reload, this session only redraws. The tree is snapshotted under
// the lock so serialization never races concurrent mutations from other
// goroutines (watcher reloads, TUI command goroutines).
func (s *Session) persist() error {
	s.mu.Lock()
	scope := s.scope
	snapshot := s.tree.Clone()
	s.mu.Unlock()
	if err := s.store.Save(scope, snapshot); err != nil {
		return err
	}
	if s.broker != nil {
		s.broker.LocalSaved(s.id)
	} else {
		s.Redraw()
	}
	return nil
}

// revalidateSelectionLocked re-resolves the active ids against a freshly
// loaded tree: a vanished category resolves to none, a vanished subcategory
// falls back to the first remaining tab.
func (s *Session) revalidateSelectionLocked() {
	cat := s.tree.FindByID(s.activeCategory)
	if cat == nil {
		s.activeCategory = ""
		s.activeSubcategory = ""
		return
	}
	for _, sub := range cat.SubCategories {
		if sub.ID == s.activeSubcategory {
			return
		}
	}
	s.activeSubcategory = ""
	if len(cat.SubCategories) > 0 {
		s.activeSubcategory = cat.SubCategories[0].ID
	}
}

func (s *Session) restoreWindowStateLocked() {
	id, _ := s.store.GetState(store.StateKey{
		Scope: s.scope, Mode: s.mode, Field: store.FieldActiveCategory,
	})
	cat := s.tree.FindByID(id)
	if cat == nil {
		s.activeCategory = ""
		s.activeSubcategory = ""
		return
	}
	s.activeCategory = cat.ID
	s.activeSubcategory = s.subcategoryForLocked(cat)
}

func (s *Session) saveWindowStateLocked() {
	if err := s.store.SetState(store.StateKey{
		Scope: s.scope, Mode: s.mode, Field: store.FieldActiveCategory,
	}, s.activeCategory); err != nil {
		fmt.Fprintf(os.Stderr, "session: remember category: %v\n", err)
	}
}

// pushSelectionLocked mirrors the active tab's item references into the
// host's selection system when a bridge is configured.
func (s *Session) pushSelectionLocked() {
	if s.selection == nil || s.activeSubcategory == "" {
		return
	}
	sub := s.tree.FindByID(s.activeSubcategory)
	if sub == nil {
		return
	}
	s.selection.SetSelected(append([]string(nil), sub.ItemRefs...))
}
