package types

import "strconv"

/*
CacheKey identifies one decoded frame inside the shared cache.

Source is the stable identity of the backing file (its absolute path for file
sources) and Index is the zero-based frame number. The struct is comparable,
so two objects reading the same file at the same index always land on the
same key. That is what lets several viewers of one file share decoded frames.
*/
type CacheKey struct {
	Source string
	Index  int
}

// NewCacheKey builds a key for frame index of source.
func NewCacheKey(source string, index int) CacheKey {
	return CacheKey{Source: source, Index: index}
}

// String renders the key as "source#index".
func (k CacheKey) String() string {
	return k.Source + "#" + strconv.Itoa(k.Index)
}
