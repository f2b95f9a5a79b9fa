package session

import (
	"testing"
	"time"

	"tableflip.dev/shelf/pkg/store"
)

type fakeMember struct {
	id      string
	reloads int
	redraws int
}

func (f *fakeMember) SessionID() string { return f.id }
func (f *fakeMember) Reload() error     { f.reloads++; return nil }
func (f *fakeMember) Redraw()           { f.redraws++ }

func TestLocalSavedSkipsSaverReload(t *testing.T) {
	b := NewBroker(nil)
	saver := &fakeMember{id: "saver"}
	other := &fakeMember{id: "other"}
	b.Register(saver)
	b.Register(other)

	b.LocalSaved("saver")

	if saver.reloads != 0 {
		t.Fatalf("saver must not reload, got %d reloads", saver.reloads)
	}
	if saver.redraws != 1 {
		t.Fatalf("saver should redraw once, got %d", saver.redraws)
	}
	if other.reloads != 1 || other.redraws != 1 {
		t.Fatalf("sibling should reload and redraw once, got %d/%d", other.reloads, other.redraws)
	}
}

func TestExternalChangeSuppressedWhileSaving(t *testing.T) {
	guard := store.NewSaveGuard(time.Hour)
	b := NewBroker(guard)
	m := &fakeMember{id: "a"}
	b.Register(m)

	guard.Begin()
	b.ExternalChange()
	if m.reloads != 0 {
		t.Fatalf("self-inflicted change must not reload, got %d", m.reloads)
	}

	guard.Release()
	b.ExternalChange()
	if m.reloads != 1 {
		t.Fatalf("external change should reload once, got %d", m.reloads)
	}
}

func TestUnregisterStopsNotifications(t *testing.T) {
	b := NewBroker(nil)
	m := &fakeMember{id: "a"}
	b.Register(m)
	b.Unregister("a")

	b.LocalSaved("other")
	b.ExternalChange()
	if m.reloads != 0 || m.redraws != 0 {
		t.Fatal("unregistered member must not be notified")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	b := NewBroker(nil)
	m := &fakeMember{id: "a"}
	b.Register(m)
	b.Register(m)

	b.ExternalChange()
	if m.reloads != 1 {
		t.Fatalf("expected one reload for doubly-registered member, got %d", m.reloads)
	}
}

func TestTwoSessionsConvergeThroughBroker(t *testing.T) {
	st := newMemoryStore()
	b := NewBroker(st.Guard())

	a := startSession(t, "a", st, b)
	c := startSession(t, "c", st, b)

	if _, err := a.AddCategory("", "FromA"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := len(c.Tree().Roots); got != 1 {
		t.Fatalf("expected sibling to converge to 1 root, got %d", got)
	}
	if c.Tree().Roots[0].Name != "FromA" {
		t.Fatalf("expected FromA in sibling tree, got %q", c.Tree().Roots[0].Name)
	}

	// The two sessions hold independent tree instances.
	if a.Tree() == c.Tree() || a.Tree().Roots[0] == c.Tree().Roots[0] {
		t.Fatal("sessions must not share mutable tree nodes")
	}
}

func TestSiblingReloadRevalidatesSelection(t *testing.T) {
	st := newMemoryStore()
	b := NewBroker(st.Guard())

	a := startSession(t, "a", st, b)
	c := startSession(t, "c", st, b)

	cat, _ := a.AddCategory("", "Doomed")
	c.SelectCategory(cat.ID)
	if c.ActiveCategory() != cat.ID {
		t.Fatal("expected sibling selection")
	}

	if err := a.DeleteCategory(cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := c.ActiveCategory(); got != "" {
		t.Fatalf("expected sibling selection cleared after reload, got %q", got)
	}
}
