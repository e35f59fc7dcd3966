package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	framecache "github.com/krisalay/yuv-frame-cache"
	"github.com/krisalay/yuv-frame-cache/engine"
	"github.com/krisalay/yuv-frame-cache/eviction"
	"github.com/krisalay/yuv-frame-cache/metrics"
	"github.com/krisalay/yuv-frame-cache/types"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

// ================= SYNTHETIC SOURCE =================

// syntheticClip decodes gray 1080p frames without touching disk.
type syntheticClip struct {
	decodes atomic.Int64
	frame   []byte
}

func newSyntheticClip(width, height int) *syntheticClip {
	raw := make([]byte, yuv.YUV420P.FrameSize(width, height))
	for i := range raw {
		raw[i] = 128
	}
	rgb, err := yuv.ToRGB24(raw, width, height, yuv.YUV420P, yuv.BT601, yuv.Nearest)
	if err != nil {
		panic(err)
	}
	return &syntheticClip{frame: rgb}
}

func (s *syntheticClip) Load(ctx context.Context, key types.CacheKey) ([]byte, error) {
	s.decodes.Add(1)
	out := make([]byte, len(s.frame))
	copy(out, s.frame)
	return out, nil
}

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	// ---------------- Cache Config ----------------
	const (
		shards     = 1
		capacityMB = 256
		width      = 1920
		height     = 1080
		sources    = 4
		frames     = 120
		goroutines = 32
		opsPerG    = 2000
	)

	fmt.Println("\n================ FRAME CACHE BENCHMARK =================")

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards        :", shards)
	fmt.Println("Capacity (MB) :", capacityMB)
	fmt.Println("Frame         :", fmt.Sprintf("%dx%d RGB24", width, height))
	fmt.Println("Sources       :", sources)
	fmt.Println("Frames/Source :", frames)
	fmt.Println("Goroutines    :", goroutines)
	fmt.Println("Ops/Goroutine :", opsPerG)
	fmt.Println("---------------------------------")

	counters := &metrics.Counters{}
	c := framecache.NewFrameCache(
		shards,
		capacityMB,
		eviction.LRU,
		engine.NewCacheEngine(engine.MegabyteCost, counters),
	)

	clip := newSyntheticClip(width, height)

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < frames; i++ {
		if _, err := c.Get(ctx, types.NewCacheKey("src-0", i), clip); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				// scrub back and forth like a viewer would
				key := types.NewCacheKey(fmt.Sprintf("src-%d", id%sources), (id+j)%frames)
				c.Get(ctx, key, clip)
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Decodes          : %d\n", clip.decodes.Load())
	fmt.Printf("Retained         : %d frames, %d/%d MB\n", c.Len(), c.Cost(), c.Capacity())
	fmt.Println("=========================================")

	counters.Print(os.Stdout)
}
