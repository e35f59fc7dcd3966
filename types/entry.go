package types

import "time"

/*
CachedFrame is one fully decoded frame.

The buffer is owned by the cache once inserted. Callers receive a read-only
view through Bytes and must never write to it. Eviction or Clear only drop
the cache's reference, so a reader still holding the frame keeps valid bytes.
*/
type CachedFrame struct {
	data []byte
}

// NewCachedFrame wraps data. The caller gives up ownership of data.
func NewCachedFrame(data []byte) *CachedFrame {
	return &CachedFrame{data: data}
}

// Bytes returns the decoded bytes. Do not modify them.
func (f *CachedFrame) Bytes() []byte {
	if f == nil {
		return nil
	}
	return f.data
}

// Len is the buffer size in bytes.
func (f *CachedFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.data)
}

// Empty reports whether the frame carries no pixels ("no frame available").
func (f *CachedFrame) Empty() bool {
	return f.Len() == 0
}

// CacheEntry is what a shard stores for one key.
type CacheEntry struct {
	Key       CacheKey
	Frame     *CachedFrame
	Cost      int64
	CreatedAt time.Time
}
