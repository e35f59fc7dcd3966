package refresh_test

import (
	"testing"

	framecache "github.com/krisalay/yuv-frame-cache"
	"github.com/krisalay/yuv-frame-cache/engine"
	"github.com/krisalay/yuv-frame-cache/eviction"
	"github.com/krisalay/yuv-frame-cache/refresh"
	"github.com/krisalay/yuv-frame-cache/types"
)

func filledCache() *framecache.FrameCache {
	c := framecache.NewFrameCache(1, 100, eviction.LRU, engine.NewCacheEngine(nil, nil))
	for i := 0; i < 3; i++ {
		c.Insert(types.NewCacheKey("a.yuv", i), []byte{1})
		c.Insert(types.NewCacheKey("b.yuv", i), []byte{2})
	}
	return c
}

func TestScopedKeepsOtherSources(t *testing.T) {
	c := filledCache()
	inv, err := refresh.New(refresh.Scoped)
	if err != nil {
		t.Fatal(err)
	}

	if n := inv.Invalidate(c, "a.yuv"); n != 3 {
		t.Fatalf("expected 3 dropped, got %d", n)
	}
	if _, ok := c.Lookup(types.NewCacheKey("a.yuv", 0)); ok {
		t.Fatalf("a.yuv frames should be gone")
	}
	if _, ok := c.Lookup(types.NewCacheKey("b.yuv", 0)); !ok {
		t.Fatalf("b.yuv frames should survive")
	}
}

func TestGlobalDropsEverything(t *testing.T) {
	c := filledCache()
	inv, _ := refresh.New(refresh.Global)

	if n := inv.Invalidate(c, "a.yuv"); n != 6 {
		t.Fatalf("expected 6 dropped, got %d", n)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestUnknownStrategy(t *testing.T) {
	if _, err := refresh.New("partial"); err == nil {
		t.Fatalf("expected error")
	}
	if inv, _ := refresh.New(""); inv == nil {
		t.Fatalf("empty strategy should default to scoped")
	}
}
