package shard

import (
	"sync/atomic"

	"github.com/krisalay/yuv-frame-cache/types"
)

/*
This file defines how frames are actually stored inside a shard.
- Lookups happen on every paint and every pixel probe, so they should NOT take locks
- Inserts happen once per decoded frame and can afford extra work

To achieve this, we use a technique called: "Copy-On-Write" (COW)
*/

// ShardStore is the interface used by a shard to store and retrieve cache entries.
type ShardStore interface {

	// Get retrieves an entry by key.
	Get(types.CacheKey) (*types.CacheEntry, bool)

	// Put inserts or replaces an entry.
	Put(types.CacheKey, *types.CacheEntry)

	// Delete removes an entry.
	Delete(types.CacheKey)

	// DeleteFunc removes every entry whose key matches and returns them.
	DeleteFunc(func(types.CacheKey) bool) []*types.CacheEntry

	// Reset drops every entry.
	Reset()

	// Size returns how many entries are stored.
	Size() int64
}

/*
cowStore is a Copy-On-Write implementation of ShardStore.

- Readers always see an immutable snapshot of the map
- Writers build a NEW map and swap it in atomically

A reader racing with Clear therefore sees either the old map or the empty one,
never a half-cleared one.
*/
type cowStore struct {

	// data holds the current map[types.CacheKey]*types.CacheEntry snapshot.
	data atomic.Value

	// size tracks the number of entries so Size does not need to load the map.
	size atomic.Int64
}

func NewCOWStore() *cowStore {
	s := &cowStore{}
	s.data.Store(make(map[types.CacheKey]*types.CacheEntry))
	return s
}

func (s *cowStore) snapshot() map[types.CacheKey]*types.CacheEntry {
	return s.data.Load().(map[types.CacheKey]*types.CacheEntry)
}

func (s *cowStore) swap(n map[types.CacheKey]*types.CacheEntry) {
	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

// Get retrieves an entry from the store.
func (s *cowStore) Get(key types.CacheKey) (*types.CacheEntry, bool) {
	ent, ok := s.snapshot()[key]
	return ent, ok
}

/*
Put inserts or updates an entry in the store.

1. Load the current map
2. Create a NEW map with all existing entries
3. Add the new entry
4. Atomically replace the old map
*/
func (s *cowStore) Put(key types.CacheKey, ent *types.CacheEntry) {
	old := s.snapshot()

	n := make(map[types.CacheKey]*types.CacheEntry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent

	s.swap(n)
}

// Delete removes an entry from the store. Just like Put, this uses copy-on-write.
func (s *cowStore) Delete(key types.CacheKey) {
	old := s.snapshot()
	if _, ok := old[key]; !ok {
		return
	}

	n := make(map[types.CacheKey]*types.CacheEntry, len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}

	s.swap(n)
}

// DeleteFunc removes all entries matching fn in a single copy.
func (s *cowStore) DeleteFunc(fn func(types.CacheKey) bool) []*types.CacheEntry {
	old := s.snapshot()

	var removed []*types.CacheEntry
	n := make(map[types.CacheKey]*types.CacheEntry, len(old))
	for k, v := range old {
		if fn(k) {
			removed = append(removed, v)
			continue
		}
		n[k] = v
	}

	if len(removed) > 0 {
		s.swap(n)
	}
	return removed
}

func (s *cowStore) Reset() {
	s.swap(make(map[types.CacheKey]*types.CacheEntry))
}

// Size returns how many entries are in the store.
func (s *cowStore) Size() int64 {
	return s.size.Load()
}
