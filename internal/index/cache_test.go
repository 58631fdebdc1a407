package index

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	cache := NewCache(100*time.Millisecond, 3)

	idx1 := &Index{}
	idx2 := &Index{}
	idx3 := &Index{}

	cache.Put("video1", idx1)
	cache.Put("video2", idx2)
	cache.Put("video3", idx3)

	// Verify all are retrievable and Get returns the exact index stored.
	if got, ok := cache.Get("video1"); !ok || got != idx1 {
		t.Error("failed to get video1")
	}
	if got, ok := cache.Get("video2"); !ok || got != idx2 {
		t.Error("failed to get video2")
	}
	if got, ok := cache.Get("video3"); !ok || got != idx3 {
		t.Error("failed to get video3")
	}

	// Test LRU eviction: video1 is the least recently used after the gets above.
	cache.Put("video4", &Index{})

	if _, ok := cache.Get("video1"); ok {
		t.Error("video1 should have been evicted")
	}
	if _, ok := cache.Get("video2"); !ok {
		t.Error("video2 should still exist")
	}

	// Test TTL expiration
	time.Sleep(150 * time.Millisecond)
	if _, ok := cache.Get("video2"); ok {
		t.Error("video2 should have expired")
	}
}

func TestCache_Overwrite(t *testing.T) {
	cache := NewCache(time.Hour, 2)
	first := &Index{}
	second := &Index{}

	cache.Put("video1", first)
	cache.Put("video2", &Index{})

	// Overwriting at capacity must not evict the other entry.
	cache.Put("video1", second)

	if got, ok := cache.Get("video1"); !ok || got != second {
		t.Error("expected overwritten index for video1")
	}
	if _, ok := cache.Get("video2"); !ok {
		t.Error("video2 should not have been evicted by an overwrite")
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Len())
	}
}

func TestCache_CapacityBound(t *testing.T) {
	const capacity = 5
	cache := NewCache(time.Hour, capacity)

	for i := 0; i < capacity+1; i++ {
		cache.Put(fmt.Sprintf("video%d", i), &Index{})
	}

	if cache.Len() != capacity {
		t.Errorf("expected exactly %d entries after overflow, got %d", capacity, cache.Len())
	}
	if _, ok := cache.Get("video0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := cache.Get(fmt.Sprintf("video%d", capacity)); !ok {
		t.Error("newest entry should be present")
	}
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	cache := NewCache(time.Hour, 2)
	cache.Put("video1", &Index{})
	cache.Put("video2", &Index{})

	// Touch video1 so video2 becomes the least recently used.
	if _, ok := cache.Get("video1"); !ok {
		t.Fatal("video1 should be present")
	}

	cache.Put("video3", &Index{})

	if _, ok := cache.Get("video2"); ok {
		t.Error("video2 should have been evicted")
	}
	if _, ok := cache.Get("video1"); !ok {
		t.Error("video1 should have survived")
	}
}

func TestCache_ExpiryRemovesEntry(t *testing.T) {
	cache := NewCache(50*time.Millisecond, 10)
	cache.Put("video1", &Index{})

	time.Sleep(80 * time.Millisecond)

	if _, ok := cache.Get("video1"); ok {
		t.Error("expired entry should be absent")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should have been removed on access, len=%d", cache.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	cache := NewCache(time.Hour, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("video%d", j%20)
				if worker%2 == 0 {
					cache.Put(key, &Index{})
				} else {
					cache.Get(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("capacity exceeded after concurrent writes: %d", cache.Len())
	}

	// Last writer wins: a final put is always retrievable.
	final := &Index{}
	cache.Put("video0", final)
	if got, ok := cache.Get("video0"); !ok || got != final {
		t.Error("expected final put to win")
	}
}
