// Package metrics provides the cache metrics sinks: Prometheus collectors for
// long running processes and plain counters for tools and benchmarks.
package metrics

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/krisalay/yuv-frame-cache/types"
)

// Counters keeps in-process totals of cache activity.
type Counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	rejects     atomic.Int64
	invalidated atomic.Int64
}

var _ types.Metrics = (*Counters)(nil)

func (m *Counters) Hit()      { m.hits.Add(1) }
func (m *Counters) Miss()     { m.misses.Add(1) }
func (m *Counters) Eviction() { m.evictions.Add(1) }
func (m *Counters) Reject()   { m.rejects.Add(1) }

func (m *Counters) Invalidate(removed int) { m.invalidated.Add(int64(removed)) }

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Rejects     int64
	Invalidated int64
}

func (m *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Evictions:   m.evictions.Load(),
		Rejects:     m.rejects.Load(),
		Invalidated: m.invalidated.Load(),
	}
}

// HitRatio is hits / (hits + misses), or 0 before the first lookup.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (m *Counters) Print(w io.Writer) {
	s := m.Snapshot()
	fmt.Fprintln(w, "\n==================== METRICS ====================")
	fmt.Fprintf(w, "HITS        : %d\n", s.Hits)
	fmt.Fprintf(w, "MISSES      : %d\n", s.Misses)
	fmt.Fprintf(w, "HIT RATIO   : %.2f%%\n", 100*s.HitRatio())
	fmt.Fprintf(w, "EVICTIONS   : %d\n", s.Evictions)
	fmt.Fprintf(w, "REJECTS     : %d\n", s.Rejects)
	fmt.Fprintf(w, "INVALIDATED : %d\n", s.Invalidated)
}
