package types

import "context"

// Loader is the contract between the cache and whatever produces frames.
type Loader interface {

	/*
		Load is called when the cache misses. The key was not found in memory, so the cache asks the Loader to decode it.
		1. Cache checks memory → key not found
		2. Cache calls Load(key)
		3. Loader decodes the frame from its source
		4. Cache stores the result in memory
		5. Cache returns the frame

		An empty slice with a nil error means "no frame available" and is cached like any other result.
		A non-nil error is returned to the caller and nothing is cached.
	*/
	Load(ctx context.Context, key CacheKey) ([]byte, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(ctx context.Context, key CacheKey) ([]byte, error)

// Load calls f(ctx, key).
func (f LoaderFunc) Load(ctx context.Context, key CacheKey) ([]byte, error) {
	return f(ctx, key)
}
