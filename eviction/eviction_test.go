package eviction

import (
	"testing"

	"github.com/krisalay/yuv-frame-cache/types"
)

func key(i int) types.CacheKey {
	return types.NewCacheKey("clip.yuv", i)
}

func mustEvict(t *testing.T, p Policy, want types.CacheKey) {
	t.Helper()
	got, ok := p.Evict()
	if !ok {
		t.Fatalf("expected to evict %v, policy was empty", want)
	}
	if got != want {
		t.Fatalf("expected to evict %v, got %v", want, got)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	p := NewEvictionPolicy(LRU)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.OnPut(key(2))

	// touching 0 makes 1 the oldest
	p.OnGet(key(0))

	mustEvict(t, p, key(1))
	mustEvict(t, p, key(2))
	mustEvict(t, p, key(0))

	if _, ok := p.Evict(); ok {
		t.Fatalf("expected empty policy")
	}
}

func TestLRURemoveAndReset(t *testing.T) {
	p := NewEvictionPolicy(LRU)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.Remove(key(0))
	mustEvict(t, p, key(1))

	p.OnPut(key(5))
	p.Reset()
	if _, ok := p.Evict(); ok {
		t.Fatalf("expected empty policy after reset")
	}
}

func TestFIFOIgnoresReads(t *testing.T) {
	p := NewEvictionPolicy(FIFO)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.OnGet(key(0))
	p.OnPut(key(0)) // re-insert keeps the original position

	mustEvict(t, p, key(0))
	mustEvict(t, p, key(1))
}

func TestFIFORemove(t *testing.T) {
	p := NewEvictionPolicy(FIFO)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.OnPut(key(2))
	p.Remove(key(1))

	mustEvict(t, p, key(0))
	mustEvict(t, p, key(2))
}

func TestFIFOScrubbingBackDoesNotKeepFrameAlive(t *testing.T) {
	p := NewEvictionPolicy(FIFO)
	for i := 0; i < 3; i++ {
		p.OnPut(key(i))
	}
	// viewer returns to the first frame repeatedly
	for i := 0; i < 5; i++ {
		p.OnGet(key(0))
	}
	mustEvict(t, p, key(0))

	// a frame decoded again after eviction is the newest
	p.OnPut(key(0))
	mustEvict(t, p, key(1))
	mustEvict(t, p, key(2))
	mustEvict(t, p, key(0))

	p.OnPut(key(7))
	p.Reset()
	if _, ok := p.Evict(); ok {
		t.Fatalf("expected empty policy after reset")
	}
}

func TestLFUEvictsLeastFrequent(t *testing.T) {
	p := NewEvictionPolicy(LFU)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.OnPut(key(2))

	p.OnGet(key(0))
	p.OnGet(key(0))
	p.OnGet(key(2))

	mustEvict(t, p, key(1))
	mustEvict(t, p, key(2))
	mustEvict(t, p, key(0))
}

func TestLFUTiesEvictOldestInsert(t *testing.T) {
	p := NewEvictionPolicy(LFU)
	for i := 0; i < 4; i++ {
		p.OnPut(key(i))
	}
	mustEvict(t, p, key(0))
	mustEvict(t, p, key(1))
}

func TestLFURemoveMinimumBucket(t *testing.T) {
	p := NewEvictionPolicy(LFU)
	p.OnPut(key(0))
	p.OnPut(key(1))
	p.OnGet(key(1))

	// key 0 is the only freq=1 entry; removing it leaves minFreq stale
	p.Remove(key(0))
	mustEvict(t, p, key(1))
}

func TestUnknownPolicyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown policy")
		}
	}()
	NewEvictionPolicy("random")
}
