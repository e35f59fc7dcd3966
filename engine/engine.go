package engine

import (
	"context"
	"errors"
	"time"

	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/types"
)

// ErrNoLoader is returned by Load when the caller did not supply a loader.
var ErrNoLoader = errors.New("engine: no loader")

// CostFunc converts a decoded frame size in bytes into eviction cost units.
type CostFunc func(size int) int64

/*
MegabyteCost is the default cost function: the size in whole megabytes, truncated.

	cost = size >> 20

Frames smaller than 1 MiB cost 0 and never put pressure on the budget.
Only whole-megabyte frames count towards capacity.
*/
func MegabyteCost(size int) int64 {
	return int64(size) >> 20
}

// CeilMegabyteCost rounds partial megabytes up, so every non-empty frame costs at least 1.
// This is a deliberate deviation from MegabyteCost and must be opted into.
func CeilMegabyteCost(size int) int64 {
	return (int64(size) + (1<<20 - 1)) >> 20
}

// CostRounding selects a built-in cost function by name.
type CostRounding string

const (
	Truncate CostRounding = "truncate"
	Ceil     CostRounding = "ceil"
)

// CostFuncFor returns the cost function for r. Unknown names fall back to MegabyteCost.
func CostFuncFor(r CostRounding) CostFunc {
	if r == Ceil {
		return CeilMegabyteCost
	}
	return MegabyteCost
}

/*
CacheEngine is the "brain" of the frame cache.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- How much a decoded frame costs
- How a frame is produced on a miss
- How metrics are recorded

It does NOT:
- Store frames
- Handle sharding
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Cost turns a buffer length into cost units. Defaults to MegabyteCost.
	Cost CostFunc

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics
}

// NewCacheEngine creates a CacheEngine. Nil arguments get defaults.
func NewCacheEngine(cost CostFunc, metrics types.Metrics) *CacheEngine {
	if cost == nil {
		cost = MegabyteCost
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Cost:    cost,
		Metrics: metrics,
	}
}

// CostOf is the eviction cost of data.
func (e *CacheEngine) CostOf(data []byte) int64 {
	return e.Cost(len(data))
}

/*
Load is used when the cache does NOT have the frame.
This usually means reading one frame from disk and converting it to RGB.
*/
func (e *CacheEngine) Load(ctx context.Context, loader types.Loader, key types.CacheKey) ([]byte, error) {
	if loader == nil {
		return nil, ErrNoLoader
	}

	start := time.Now()
	data, err := loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	logging.Op().Debug("frame decoded",
		"key", key.String(),
		"bytes", len(data),
		"duration", time.Since(start))
	return data, nil
}
