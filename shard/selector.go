package shard

import (
	"hash/fnv"
	"strconv"

	"github.com/krisalay/yuv-frame-cache/types"
)

/*
This file decides HOW a cache key is assigned to a shard.
*/

// Selector decides which shard should handle a given key.
type Selector interface {
	Select(types.CacheKey, []*Shard) *Shard
}

// HashSelector picks a shard from an FNV-1a hash of the key.
// The same key always maps to the same shard.
type HashSelector struct{}

// hash converts a key into a number. FNV is a fast, non-cryptographic hash.
func hash(k types.CacheKey) uint32 {
	h := fnv.New32a()
	h.Write([]byte(k.Source))
	h.Write([]byte{0})
	h.Write(strconv.AppendInt(nil, int64(k.Index), 10))
	return h.Sum32()
}

// Select chooses the shard for a given key.
func (HashSelector) Select(key types.CacheKey, shards []*Shard) *Shard {
	if len(shards) == 1 {
		return shards[0]
	}
	return shards[hash(key)%uint32(len(shards))]
}
