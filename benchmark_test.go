package framecache_test

import (
	"context"
	"testing"

	framecache "github.com/krisalay/yuv-frame-cache"
	"github.com/krisalay/yuv-frame-cache/engine"
	"github.com/krisalay/yuv-frame-cache/eviction"
	"github.com/krisalay/yuv-frame-cache/types"
)

// 1080p RGB24
const benchFrameSize = 1920 * 1080 * 3

func newBenchmarkCache() *framecache.FrameCache {
	return framecache.NewFrameCache(
		1,            // shards
		512,          // capacity (MB)
		eviction.LRU, // eviction
		engine.NewCacheEngine(nil, nil),
	)
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkFrameCacheLookupHit(b *testing.B) {
	c := newBenchmarkCache()
	c.Insert(key(0), make([]byte, benchFrameSize))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Lookup(key(0))
	}
}

func BenchmarkFrameCacheLookupMiss(b *testing.B) {
	c := newBenchmarkCache()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Lookup(key(i))
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkFrameCacheParallelGet(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache()
	l := &countingLoader{size: benchFrameSize}

	for i := 0; i < 64; i++ {
		c.Get(ctx, key(i), l)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(ctx, key(i%64), l)
			i++
		}
	})
}

//
// ================= WRITE BENCH =================
//

func BenchmarkFrameCacheInsertWithEviction(b *testing.B) {
	c := newBenchmarkCache()
	frame := make([]byte, benchFrameSize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// the cache takes ownership, but the benchmark only measures bookkeeping
		c.Insert(key(i), frame)
	}
}

func BenchmarkFrameCacheInvalidateSource(b *testing.B) {
	c := newBenchmarkCache()
	other := types.NewCacheKey("other.yuv", 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for j := 0; j < 100; j++ {
			c.Insert(key(j), []byte{1})
		}
		c.Insert(other, []byte{1})
		b.StartTimer()

		c.InvalidateSource("clip.yuv")
	}
}
