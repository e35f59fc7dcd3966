package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a lookup finds the frame in memory.
	Hit()

	// Miss is called when a lookup does NOT find the frame and it has to be decoded.
	Miss()

	// Eviction is called when a frame is removed because the cost budget is exhausted.
	Eviction()

	// Reject is called when a single frame costs more than the cache can ever hold.
	Reject()

	// Invalidate is called when frames are dropped because decode parameters changed.
	// removed is the number of entries that were dropped.
	Invalidate(removed int)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Not every user of the cache cares about metrics, and the cache should still work without
nil checks around every event. NoopMetrics ignores all of them.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()           {}
func (NoopMetrics) Miss()          {}
func (NoopMetrics) Eviction()      {}
func (NoopMetrics) Reject()        {}
func (NoopMetrics) Invalidate(int) {}
