package eviction

import "github.com/krisalay/yuv-frame-cache/types"

/*
This file defines how the frame cache decides what to remove when the cost budget runs out.
*/

/*
Policy is the interface that all eviction strategies must follow.

The cache does NOT care how eviction works internally.
It only calls these methods, always while holding the shard lock,
so implementations do not need their own synchronisation.
*/
type Policy interface {

	// OnGet is called whenever a key is read from the cache.
	//
	// - LRU moves the key to the most recently used position
	// - LFU bumps its access count
	// - FIFO ignores it
	OnGet(types.CacheKey)

	// OnPut is called whenever a key is added to the cache.
	OnPut(types.CacheKey)

	// Remove is called when a key is explicitly removed
	// from the cache (not evicted), e.g. by invalidation.
	Remove(types.CacheKey)

	// Evict returns the least valuable key and forgets it.
	// ok is false when nothing is tracked.
	Evict() (key types.CacheKey, ok bool)

	// Reset forgets every tracked key. Used by Clear.
	Reset()
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the frame that has NOT been looked up for the longest time.
	// This is the default and matches how a viewer scrubs back and forth around a position.
	LRU PolicyType = "lru"

	// LFU (Least Frequently Used): evicts the frame that has been looked up the fewest times.
	LFU PolicyType = "lfu"

	// FIFO (First In First Out): evicts the oldest decoded frame, regardless of access.
	FIFO PolicyType = "fifo"
)

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
func NewEvictionPolicy(t PolicyType) Policy {
	switch t {
	case LRU, "":
		return newLRU()
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	default:
		panic("unknown eviction policy: " + string(t))
	}
}
