package cache

import (
	"context"

	"github.com/krisalay/yuv-frame-cache/types"
)

/*
Cache defines the PUBLIC API of the shared frame cache.
Frame objects depend on this contract only; sharding, eviction order, cost accounting
and decode de-duplication all stay hidden behind it.
*/
type Cache interface {

	/*
		Lookup returns the frame stored under key.

		BEHAVIOR:
		---------
		- No side effects besides recency bookkeeping for eviction
		- Returns false when the key is absent
	*/
	Lookup(key types.CacheKey) (*types.CachedFrame, bool)

	/*
		Get returns the frame under key, decoding it with loader on a miss.

		BEHAVIOR:
		---------
		1. Hit: return the stored frame
		2. Miss: decode once (concurrent misses share the decode), insert, return

		Loader errors are returned and nothing is cached.
	*/
	Get(ctx context.Context, key types.CacheKey, loader types.Loader) (*types.CachedFrame, error)

	/*
		Insert stores data under key and takes ownership of it.

		Returns false when the frame alone costs more than the cache can hold;
		in that case nothing is retained under key.
	*/
	Insert(key types.CacheKey, data []byte) bool

	// Remove deletes key. Removing a missing key is safe.
	Remove(key types.CacheKey)

	// InvalidateSource drops every frame of one source and returns how many were dropped.
	InvalidateSource(source string) int

	// Clear drops every frame of every source and returns how many were dropped.
	Clear() int

	// Cost is the summed cost of the retained frames.
	Cost() int64

	// Len is the number of retained frames.
	Len() int
}
