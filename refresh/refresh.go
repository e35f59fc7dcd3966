// This file defines what happens to cached frames when decode parameters change.
// Once width, height, layout or colour handling changes, frames decoded with the old
// parameters are wrong and must leave the cache before the current frame is reloaded.

package refresh

import (
	"fmt"

	cache "github.com/krisalay/yuv-frame-cache/api"
)

/*
Invalidator drops stale frames after a parameter change.

The frame object calls Invalidate and then reloads its current frame.
It returns how many entries were dropped.
*/
type Invalidator interface {
	Invalidate(c cache.Cache, source string) int
}

// Strategy is a simple identifier for supported invalidation strategies.
type Strategy string

const (
	// Scoped drops only the frames of the source whose parameters changed.
	// Other sources sharing the cache keep their frames.
	Scoped Strategy = "scoped"

	// Global drops every frame of every source, the historical behaviour.
	Global Strategy = "global"
)

// ScopedInvalidator implements Scoped.
type ScopedInvalidator struct{}

func (ScopedInvalidator) Invalidate(c cache.Cache, source string) int {
	return c.InvalidateSource(source)
}

// GlobalInvalidator implements Global.
type GlobalInvalidator struct{}

func (GlobalInvalidator) Invalidate(c cache.Cache, _ string) int {
	return c.Clear()
}

// New returns the invalidator for s. An empty strategy means Scoped.
func New(s Strategy) (Invalidator, error) {
	switch s {
	case Scoped, "":
		return ScopedInvalidator{}, nil
	case Global:
		return GlobalInvalidator{}, nil
	default:
		return nil, fmt.Errorf("unknown invalidation strategy %q", s)
	}
}
