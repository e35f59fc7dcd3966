// This file implements LFU eviction.

package eviction

import "github.com/krisalay/yuv-frame-cache/types"

// lfuNode represents one key tracked by LFU.
type lfuNode struct {
	key  types.CacheKey
	freq int // how many times this key was accessed
	seq  uint64
}

type lfu struct {
	// nodes lets us quickly find the node for a key
	nodes map[types.CacheKey]*lfuNode

	// freqMap groups keys by how many times they were accessed
	freqMap map[int]map[types.CacheKey]*lfuNode

	// minFreq is the smallest frequency currently present.
	minFreq int

	// seq orders keys inside one bucket so ties evict the oldest insert deterministically.
	seq uint64
}

func newLFU() *lfu {
	return &lfu{
		nodes:   make(map[types.CacheKey]*lfuNode),
		freqMap: make(map[int]map[types.CacheKey]*lfuNode),
	}
}

func (l *lfu) OnGet(k types.CacheKey) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}

	old := n.freq
	n.freq++

	delete(l.freqMap[old], k)
	if len(l.freqMap[old]) == 0 {
		delete(l.freqMap, old)
		if l.minFreq == old {
			l.minFreq++
		}
	}

	if l.freqMap[n.freq] == nil {
		l.freqMap[n.freq] = make(map[types.CacheKey]*lfuNode)
	}
	l.freqMap[n.freq][k] = n
}

func (l *lfu) OnPut(k types.CacheKey) {
	if _, ok := l.nodes[k]; ok {
		return
	}

	l.seq++
	n := &lfuNode{key: k, freq: 1, seq: l.seq}
	l.nodes[k] = n

	if l.freqMap[1] == nil {
		l.freqMap[1] = make(map[types.CacheKey]*lfuNode)
	}
	l.freqMap[1][k] = n

	// a new key with freq=1 exists, so minFreq must be 1
	l.minFreq = 1
}

// Evict removes the oldest key among those with the lowest frequency.
func (l *lfu) Evict() (types.CacheKey, bool) {
	if len(l.nodes) == 0 {
		return types.CacheKey{}, false
	}

	bucket := l.freqMap[l.minFreq]
	for len(bucket) == 0 {
		// minFreq can go stale after Remove; walk up to the next populated bucket.
		l.minFreq = l.lowestFreq()
		bucket = l.freqMap[l.minFreq]
	}

	var victim *lfuNode
	for _, n := range bucket {
		if victim == nil || n.seq < victim.seq {
			victim = n
		}
	}

	delete(bucket, victim.key)
	if len(bucket) == 0 {
		delete(l.freqMap, l.minFreq)
	}
	delete(l.nodes, victim.key)
	return victim.key, true
}

func (l *lfu) Remove(k types.CacheKey) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}

	delete(l.freqMap[n.freq], k)
	if len(l.freqMap[n.freq]) == 0 {
		delete(l.freqMap, n.freq)
	}
	delete(l.nodes, k)
}

func (l *lfu) Reset() {
	clear(l.nodes)
	clear(l.freqMap)
	l.minFreq = 0
}

func (l *lfu) lowestFreq() int {
	lowest := 0
	for f, bucket := range l.freqMap {
		if len(bucket) > 0 && (lowest == 0 || f < lowest) {
			lowest = f
		}
	}
	return lowest
}
