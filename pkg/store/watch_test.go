package store

import (
	"context"
	"testing"
	"time"
)

func TestWatchEmitsSharedFileChanges(t *testing.T) {
	root := t.TempDir()
	s, err := Load(testConfig{base: t.TempDir(), root: root, project: "proj"})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := s.Save(ScopeShared, sampleTree()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed unexpectedly")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	s, err := Load(testConfig{base: t.TempDir(), root: root, project: "proj"})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := s.Save(ScopeShared, sampleTree()); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	// The burst should collapse into very few events, not one per write.
	count := 1
	settle := time.After(400 * time.Millisecond)
	for {
		select {
		case <-ch:
			count++
		case <-settle:
			if count >= 5 {
				t.Fatalf("expected coalesced events, got %d", count)
			}
			return
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// Drain a straggler, then expect a close.
			select {
			case _, ok := <-ch:
				if ok {
					t.Fatal("expected channel to close after cancel")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}
