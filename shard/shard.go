package shard

import (
	"sync"

	"github.com/krisalay/yuv-frame-cache/eviction"
)

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the frame cache.
Each shard:
- Holds some portion of the frames
- Has its own eviction logic
- Has its own cost budget (the cache capacity split evenly across shards)
- Has its own lock for writes
*/

type Shard struct {

	// Store holds the actual key → frame data for this shard.
	// It is a copy-on-write store that allows lock-free reads.
	Store ShardStore

	// Eviction controls which frame should be removed when this shard runs over budget.
	Eviction eviction.Policy

	// EvictMu protects Store writes, Eviction and Cost.
	// - Store reads are lock-free
	// - Everything else is protected by this mutex
	EvictMu sync.Mutex

	// Capacity is the cost budget of this shard, in cost units (megabytes by default).
	Capacity int64

	// Cost is the summed cost of all retained entries. Guarded by EvictMu.
	Cost int64
}

func NewShard(ev eviction.Policy, capacity int64) *Shard {
	return &Shard{
		Store:    NewCOWStore(),
		Eviction: ev,
		Capacity: capacity,
	}
}
