// Package framecache is a shared, cost-bounded cache of decoded video frames.
package framecache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	cache "github.com/krisalay/yuv-frame-cache/api"
	"github.com/krisalay/yuv-frame-cache/config"
	"github.com/krisalay/yuv-frame-cache/engine"
	evict "github.com/krisalay/yuv-frame-cache/eviction"
	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/shard"
	"github.com/krisalay/yuv-frame-cache/types"
	"golang.org/x/sync/singleflight"
)

/*
FrameCache is the main cache implementation.
This struct is the orchestrator that connects:
- shards
- eviction
- cost accounting
- loading on miss
- metrics

Capacity is a cost budget (megabytes with the default cost function), not an
entry count. It is split evenly across shards, so the summed cost of all
retained frames never exceeds it.
*/
type FrameCache struct {
	// shards are the actual storage units. Each shard is an independent mini-cache.
	shards []*shard.Shard

	// engine holds the cost function and metrics sink.
	engine *engine.CacheEngine

	// selector decides which shard a key should go to.
	selector shard.Selector

	// capacity is the total cost budget across all shards.
	capacity int64

	// generation is bumped by Clear and InvalidateSource while all shard locks are held.
	// A decode that started in an older generation is never inserted.
	generation atomic.Uint64

	// sf makes concurrent misses on the same key share one decode.
	sf singleflight.Group
}

var _ cache.Cache = (*FrameCache)(nil)

func NewFrameCache(
	shards int,
	capacity int64,
	eviction evict.PolicyType,
	engine *engine.CacheEngine,
) *FrameCache {

	if shards < 1 {
		shards = 1
	}
	if capacity < 0 {
		capacity = 0
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		// Each shard gets its own eviction policy instance
		s[i] = shard.NewShard(evict.NewEvictionPolicy(eviction), capacity/int64(shards))
	}

	return &FrameCache{
		shards:   s,
		engine:   engine,
		selector: shard.HashSelector{},
		capacity: capacity,
	}
}

// NewFromConfig builds a FrameCache from the cache section of the configuration.
func NewFromConfig(cfg config.CacheConfig, metrics types.Metrics) *FrameCache {
	eng := engine.NewCacheEngine(engine.CostFuncFor(engine.CostRounding(cfg.CostRounding)), metrics)
	return NewFrameCache(cfg.Shards, cfg.CapacityMB, evict.PolicyType(cfg.Eviction), eng)
}

/*
Lookup returns the cached frame for key.
The only side effect is recency bookkeeping for the eviction policy.
*/
func (c *FrameCache) Lookup(key types.CacheKey) (*types.CachedFrame, bool) {
	sh := c.selector.Select(key, c.shards)

	// Lock-free read of the current snapshot
	ent, ok := sh.Store.Get(key)
	if !ok {
		c.engine.Metrics.Miss()
		return nil, false
	}

	c.engine.Metrics.Hit()

	sh.EvictMu.Lock()
	// the entry may have been evicted between the read and the lock
	if cur, still := sh.Store.Get(key); still && cur == ent {
		sh.Eviction.OnGet(key)
	}
	sh.EvictMu.Unlock()

	return ent.Frame, true
}

/*
Get is the read-through path: lookup, and on a miss decode through loader,
insert and return the decoded frame.

Concurrent misses on the same key wait for one shared decode. If the cache is
cleared or the source invalidated while the decode runs, the result is still
returned to the waiting callers but not inserted.

The shared decode runs without the caller's cancellation so one caller giving
up does not fail the others waiting on the same key. Context values are kept.
*/
func (c *FrameCache) Get(ctx context.Context, key types.CacheKey, loader types.Loader) (*types.CachedFrame, error) {
	if f, ok := c.Lookup(key); ok {
		return f, nil
	}

	gen := c.generation.Load()
	v, err, _ := c.sf.Do(flightKey(gen, key), func() (any, error) {
		data, err := c.engine.Load(context.WithoutCancel(ctx), loader, key)
		if err != nil {
			return nil, err
		}
		f := types.NewCachedFrame(data)
		c.insert(key, f, c.engine.CostOf(data), gen, true)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.CachedFrame), nil
}

func flightKey(gen uint64, key types.CacheKey) string {
	return strconv.FormatUint(gen, 10) + "|" + key.String()
}

/*
Insert stores data under key using the engine's cost function.
It takes ownership of data and reports whether the frame was retained.
*/
func (c *FrameCache) Insert(key types.CacheKey, data []byte) bool {
	return c.InsertWithCost(key, data, c.engine.CostOf(data))
}

// InsertWithCost stores data under key with an explicit cost.
func (c *FrameCache) InsertWithCost(key types.CacheKey, data []byte, cost int64) bool {
	return c.insert(key, types.NewCachedFrame(data), cost, 0, false)
}

/*
insert is the single write path.

1. Drop any previous entry under the same key
2. Reject frames that can never fit this shard's budget
3. Evict least valuable entries until the new frame fits
4. Store the frame and register it with the eviction policy
*/
func (c *FrameCache) insert(key types.CacheKey, f *types.CachedFrame, cost int64, gen uint64, checkGen bool) bool {
	if cost < 0 {
		cost = 0
	}

	sh := c.selector.Select(key, c.shards)

	sh.EvictMu.Lock()
	defer sh.EvictMu.Unlock()

	if checkGen && c.generation.Load() != gen {
		// invalidated while decoding; these bytes belong to an older generation
		return false
	}

	if old, ok := sh.Store.Get(key); ok {
		sh.Cost -= old.Cost
		sh.Store.Delete(key)
		sh.Eviction.Remove(key)
	}

	if cost > sh.Capacity {
		c.engine.Metrics.Reject()
		logging.Op().Debug("frame larger than cache budget, not retained",
			"key", key.String(), "cost", cost, "budget", sh.Capacity)
		return false
	}

	for sh.Cost+cost > sh.Capacity {
		victim, ok := sh.Eviction.Evict()
		if !ok {
			break
		}
		if ent, found := sh.Store.Get(victim); found {
			sh.Cost -= ent.Cost
			sh.Store.Delete(victim)
		}
		c.engine.Metrics.Eviction()
	}

	sh.Store.Put(key, &types.CacheEntry{
		Key:       key,
		Frame:     f,
		Cost:      cost,
		CreatedAt: time.Now(),
	})
	sh.Cost += cost
	sh.Eviction.OnPut(key)

	return true
}

/*
Remove deletes a key from the cache immediately.
*/
func (c *FrameCache) Remove(key types.CacheKey) {
	sh := c.selector.Select(key, c.shards)

	sh.EvictMu.Lock()
	defer sh.EvictMu.Unlock()

	if ent, ok := sh.Store.Get(key); ok {
		sh.Cost -= ent.Cost
		sh.Store.Delete(key)
	}
	sh.Eviction.Remove(key)
}

/*
Clear drops every entry of every source and returns how many were dropped.
Frames already handed out stay valid for their holders.
*/
func (c *FrameCache) Clear() int {
	c.lockAll()
	defer c.unlockAll()

	c.generation.Add(1)

	removed := 0
	for _, sh := range c.shards {
		removed += int(sh.Store.Size())
		sh.Store.Reset()
		sh.Eviction.Reset()
		sh.Cost = 0
	}

	c.engine.Metrics.Invalidate(removed)
	logging.Op().Debug("frame cache cleared", "removed", removed)
	return removed
}

// InvalidateSource drops every frame decoded from source and returns how many were dropped.
func (c *FrameCache) InvalidateSource(source string) int {
	c.lockAll()
	defer c.unlockAll()

	c.generation.Add(1)

	removed := 0
	for _, sh := range c.shards {
		gone := sh.Store.DeleteFunc(func(k types.CacheKey) bool { return k.Source == source })
		for _, ent := range gone {
			sh.Cost -= ent.Cost
			sh.Eviction.Remove(ent.Key)
		}
		removed += len(gone)
	}

	c.engine.Metrics.Invalidate(removed)
	logging.Op().Debug("frame cache invalidated", "source", source, "removed", removed)
	return removed
}

// Cost is the summed cost of all retained frames.
func (c *FrameCache) Cost() int64 {
	var total int64
	for _, sh := range c.shards {
		sh.EvictMu.Lock()
		total += sh.Cost
		sh.EvictMu.Unlock()
	}
	return total
}

// Len is the number of retained frames.
func (c *FrameCache) Len() int {
	n := 0
	for _, sh := range c.shards {
		n += int(sh.Store.Size())
	}
	return n
}

// Capacity is the total cost budget.
func (c *FrameCache) Capacity() int64 {
	return c.capacity
}

// lockAll takes every shard lock in index order.
func (c *FrameCache) lockAll() {
	for _, sh := range c.shards {
		sh.EvictMu.Lock()
	}
}

func (c *FrameCache) unlockAll() {
	for i := len(c.shards) - 1; i >= 0; i-- {
		c.shards[i].EvictMu.Unlock()
	}
}
