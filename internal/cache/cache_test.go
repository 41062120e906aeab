package cache

import (
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	c := NewLRUCache[int64, string](4, time.Minute)

	if _, ok := c.Get(1); ok {
		t.Fatal("hit on an empty cache")
	}

	c.Set(1, "alpha")
	got, ok := c.Get(1)
	if !ok || got != "alpha" {
		t.Fatalf("got %q ok=%v, want alpha", got, ok)
	}

	c.Set(1, "beta")
	if got, _ := c.Get(1); got != "beta" {
		t.Fatalf("overwrite not applied, got %q", got)
	}
	if c.Size() != 1 {
		t.Fatalf("overwrite grew the cache, size=%d", c.Size())
	}

	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("hit after delete")
	}
	// Deleting again is a no-op.
	c.Delete(1)
}

func TestEvictsLeastRecentlyUsedWhenFull(t *testing.T) {
	c := NewLRUCache[int64, string](2, time.Minute)

	c.Set(1, "one")
	c.Set(2, "two")

	// Touch 1 so 2 becomes the eviction candidate.
	if _, ok := c.Get(1); !ok {
		t.Fatal("lost entry before the cache filled")
	}

	c.Set(3, "three")
	if _, ok := c.Get(2); ok {
		t.Fatal("least recently used entry survived eviction")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("recently used entry was evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("size=%d, want 2", c.Size())
	}
}

func TestExpiredEntryMissesAndIsDropped(t *testing.T) {
	// Negative TTL: every entry is born expired, no sleeping required.
	c := NewLRUCache[int64, string](4, -time.Minute)

	c.Set(1, "stale")
	if _, ok := c.Get(1); ok {
		t.Fatal("expired entry served")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry not dropped on read, size=%d", c.Size())
	}
}

func TestCleanExpired(t *testing.T) {
	stale := NewLRUCache[int64, string](4, -time.Minute)
	stale.Set(1, "a")
	stale.Set(2, "b")
	if n := stale.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if stale.Size() != 0 {
		t.Fatalf("size after sweep = %d, want 0", stale.Size())
	}

	fresh := NewLRUCache[int64, string](4, time.Minute)
	fresh.Set(1, "a")
	if n := fresh.CleanExpired(); n != 0 {
		t.Fatalf("CleanExpired = %d, want 0", n)
	}
	if _, ok := fresh.Get(1); !ok {
		t.Fatal("fresh entry swept")
	}
}

type signalCleaner struct {
	swept chan struct{}
}

func (s *signalCleaner) CleanExpired() int {
	select {
	case s.swept <- struct{}{}:
	default:
	}
	return 0
}

func TestManagerRunsRegisteredCleaners(t *testing.T) {
	m := NewManager()
	cl := &signalCleaner{swept: make(chan struct{}, 1)}
	m.Register(cl)

	m.StartCleanup(time.Millisecond)
	defer m.Stop()

	select {
	case <-cl.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("cleaner never invoked by the sweep loop")
	}
}

func TestManagerStopWaitsForLoop(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int64, string](4, time.Minute))

	m.StartCleanup(time.Millisecond)
	m.Stop()

	select {
	case <-m.cleanupDone:
	default:
		t.Fatal("Stop returned before the sweep loop exited")
	}
}
