// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package cache

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock returns a controllable now function.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU[V any](capacity int, ttl time.Duration) (*LRU[V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRU[V](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	t.Parallel()
	c, _ := newTestLRU[int](3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, ok := c.Get(key)
		if !ok || got != want {
			t.Errorf("Get(%q) = %d, %v, want %d, true", key, got, ok, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	c.Add("a", 10)
	if got, _ := c.Get("a"); got != 10 {
		t.Errorf("Get(a) after update = %d, want 10", got)
	}
	if c.Len() != 3 {
		t.Errorf("Len() after update = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()
	c, _ := newTestLRU[string](3, time.Minute)

	c.Add("a", "A")
	c.Add("b", "B")
	c.Add("c", "C")
	c.Get("a")
	c.Add("d", "D")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	t.Parallel()
	c, clock := newTestLRU[int](10, time.Minute)

	c.Add("a", 1)
	clock.Advance(30 * time.Second)
	c.Add("b", 2)

	if _, ok := c.Get("a"); !ok {
		t.Error("a should be live before its TTL")
	}

	clock.Advance(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should still be live")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy expiry", c.Len())
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	t.Parallel()
	c, clock := newTestLRU[int](10, time.Minute)

	c.Add("old1", 1)
	c.Add("old2", 2)
	clock.Advance(50 * time.Second)
	c.Add("new", 3)
	clock.Advance(20 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_RemoveAndRemoveFunc(t *testing.T) {
	t.Parallel()
	c, _ := newTestLRU[int](10, time.Minute)

	for i := 1; i <= 6; i++ {
		c.Add("rec:pm:"+strconv.Itoa(i), i)
	}

	if !c.Remove("rec:pm:1") {
		t.Error("Remove(existing) = false, want true")
	}
	if c.Remove("rec:pm:1") {
		t.Error("Remove(missing) = true, want false")
	}

	removed := c.RemoveFunc(func(key string, v int) bool {
		return strings.HasPrefix(key, "rec:pm:") && v%2 == 0
	})
	if removed != 3 {
		t.Errorf("RemoveFunc() = %d, want 3", removed)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("rec:pm:3"); !ok {
		t.Error("odd entries should remain")
	}
}

func TestLRU_ClearAndStats(t *testing.T) {
	t.Parallel()
	c, _ := newTestLRU[int](10, time.Minute)

	c.Add("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Clear()

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 0 {
		t.Errorf("Stats() = %d, %d, %d, want 1, 1, 0", hits, misses, size)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("cleared entry should be gone")
	}

	// The list is usable after Clear.
	c.Add("b", 2)
	if got, ok := c.Get("b"); !ok || got != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", got, ok)
	}
}

func TestLRU_Defaults(t *testing.T) {
	t.Parallel()
	c := NewLRU[int](0, 0)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}

func TestLRU_Concurrency(t *testing.T) {
	t.Parallel()
	c := NewLRU[int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g*500 + i) % 150)
				c.Add(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.RemoveFunc(func(_ string, v int) bool { return v == i })
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d, want at most 100", c.Len())
	}
}
