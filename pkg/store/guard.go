package store

import (
	"sync"
	"time"
)

// defaultSettle is how long the guard stays raised after a shared save. The
// filesystem notification for our own write arrives well inside this window,
// while a genuinely external edit normally lands outside it.
const defaultSettle = 500 * time.Millisecond

// SaveGuard is the process-wide reentrancy flag for shared-store saves. It is
// raised synchronously on save entry and lowered on a deferred timer, never
// inline, so the change notification triggered by the save itself is observed
// while the guard is still held and can be suppressed. It is process-wide
// because the external-change signal arrives without session context.
type SaveGuard struct {
	mu     sync.Mutex
	active bool
	gen    uint64
	timer  *time.Timer
	settle time.Duration
}

// NewSaveGuard creates a guard that auto-releases settle after Begin.
func NewSaveGuard(settle time.Duration) *SaveGuard {
	if settle <= 0 {
		settle = defaultSettle
	}
	return &SaveGuard{settle: settle}
}

// Begin raises the guard and (re)schedules the deferred release. Safe to call
// while already raised; the release window restarts. Each Begin bumps a
// generation so a stale timer callback that already fired but lost the race
// for the lock cannot lower the guard a later Begin just raised.
func (g *SaveGuard) Begin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = true
	g.gen++
	gen := g.gen
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.settle, func() { g.expire(gen) })
}

// Active reports whether a shared save is in flight.
func (g *SaveGuard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Release lowers the guard immediately and invalidates any pending timer.
// Exposed so tests can control the window deterministically.
func (g *SaveGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.active = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// expire is the deferred-timer callback. It lowers the guard only when its
// generation is still current.
func (g *SaveGuard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return
	}
	g.active = false
	g.timer = nil
}
