package eviction

import (
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/krisalay/yuv-frame-cache/types"
)

// fifo drops frames in the order they were decoded. Scrubbing back to a frame
// does not keep it alive, so a clip played front to back is evicted from its
// first frame on while the playhead advances.
type fifo struct {
	// decoded holds keys oldest-first. It is only written by OnPut, so
	// recency never changes the order.
	decoded *simplelru.LRU
}

func newFIFO() *fifo {
	return &fifo{decoded: newOrder()}
}

// OnGet is a no-op: viewing a frame again does not change its age.
func (f *fifo) OnGet(types.CacheKey) {}

// OnPut records k on its first decode. Replacing a frame keeps its position.
func (f *fifo) OnPut(k types.CacheKey) {
	if f.decoded.Contains(k) {
		return
	}
	f.decoded.Add(k, struct{}{})
}

// Evict returns the frame decoded earliest.
func (f *fifo) Evict() (types.CacheKey, bool) {
	k, _, ok := f.decoded.RemoveOldest()
	if !ok {
		return types.CacheKey{}, false
	}
	return k.(types.CacheKey), true
}

func (f *fifo) Remove(k types.CacheKey) {
	f.decoded.Remove(k)
}

func (f *fifo) Reset() {
	f.decoded.Purge()
}
