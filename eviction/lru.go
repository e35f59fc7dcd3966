// This file implements LRU eviction.

package eviction

import (
	"math"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/krisalay/yuv-frame-cache/types"
)

// lru keeps keys in recency order. The list itself is never size-bounded here:
// the shard decides when to evict based on cost, not on the number of keys.
type lru struct {
	order *simplelru.LRU
}

func newLRU() *lru {
	return &lru{order: newOrder()}
}

func newOrder() *simplelru.LRU {
	// size only errors when <= 0
	l, _ := simplelru.NewLRU(math.MaxInt32, nil)
	return l
}

// OnGet marks k as most recently used.
func (l *lru) OnGet(k types.CacheKey) {
	l.order.Get(k)
}

// OnPut adds k as most recently used. Re-adding an existing key also refreshes it.
func (l *lru) OnPut(k types.CacheKey) {
	l.order.Add(k, struct{}{})
}

// Evict removes the LEAST recently used key.
func (l *lru) Evict() (types.CacheKey, bool) {
	k, _, ok := l.order.RemoveOldest()
	if !ok {
		return types.CacheKey{}, false
	}
	return k.(types.CacheKey), true
}

func (l *lru) Remove(k types.CacheKey) {
	l.order.Remove(k)
}

func (l *lru) Reset() {
	l.order.Purge()
}
