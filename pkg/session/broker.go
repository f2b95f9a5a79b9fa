package session

import (
	"context"
	"fmt"
	"os"
	"sync"

	"tableflip.dev/shelf/pkg/store"
)

// Member is the broker-facing surface of an open session.
type Member interface {
	SessionID() string
	Reload() error
	Redraw()
}

// Broker fans change notifications out to every open session. After a local
// save the saving session keeps its authoritative in-memory tree and only
// redraws, while every sibling reloads from the store. External-change
// notifications observed while the shared save guard is raised are
// self-inflicted and dropped.
type Broker struct {
	mu      sync.Mutex
	members []Member
	guard   *store.SaveGuard
}

// NewBroker creates a broker consulting the given save guard. A nil guard
// means every external change propagates.
func NewBroker(guard *store.SaveGuard) *Broker {
	return &Broker{guard: guard}
}

// Register adds a session to the notification set.
func (b *Broker) Register(m Member) {
	if m == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.members {
		if existing == m {
			return
		}
	}
	b.members = append(b.members, m)
}

// Unregister removes the session with the given id.
func (b *Broker) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.members {
		if m.SessionID() == id {
			b.members = append(b.members[:i], b.members[i+1:]...)
			return
		}
	}
}

func (b *Broker) snapshot() []Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Member, len(b.members))
	copy(out, b.members)
	return out
}

// LocalSaved propagates a successful local save: every session except the
// saver reloads and redraws; the saver only redraws.
func (b *Broker) LocalSaved(saverID string) {
	for _, m := range b.snapshot() {
		if m.SessionID() == saverID {
			m.Redraw()
			continue
		}
		if err := m.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "session: reload %s: %v\n", m.SessionID(), err)
			continue
		}
		m.Redraw()
	}
}

// ExternalChange handles a shared-store change notification from the
// filesystem watcher. Self-inflicted changes (guard raised) are ignored;
// everything else reloads every open session.
func (b *Broker) ExternalChange() {
	if b.guard != nil && b.guard.Active() {
		return
	}
	for _, m := range b.snapshot() {
		if err := m.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "session: reload %s: %v\n", m.SessionID(), err)
			continue
		}
		m.Redraw()
	}
}

// RunWatch subscribes to the store's shared-file watcher and forwards change
// notifications to ExternalChange until ctx is cancelled. The watcher
// delivers on its own goroutine; the broker is the hand-off point into
// session state.
func (b *Broker) RunWatch(ctx context.Context, st store.Store) error {
	ch, err := st.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
			b.ExternalChange()
		}
	}()
	return nil
}
