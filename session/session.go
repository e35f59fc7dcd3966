// Package session is the composition root of a viewer: it owns the shared
// frame cache and every frame object opened against it.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	framecache "github.com/krisalay/yuv-frame-cache"
	"github.com/krisalay/yuv-frame-cache/config"
	"github.com/krisalay/yuv-frame-cache/frame"
	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/refresh"
	"github.com/krisalay/yuv-frame-cache/types"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

// ErrNotFound is returned for handles that were never issued or already closed.
var ErrNotFound = errors.New("session: no such source")

// Session hands out handles for open frame objects. All objects share one cache.
type Session struct {
	mu      sync.RWMutex
	cache   *framecache.FrameCache
	opts    []frame.Option
	objects map[string]*frame.Object
}

// New builds the cache described by cfg and the frame options every object gets.
func New(cfg *config.Config, metrics types.Metrics) (*Session, error) {
	if err := cfg.Cache.Validate(); err != nil {
		return nil, fmt.Errorf("cache config: %w", err)
	}
	inv, err := refresh.New(refresh.Strategy(cfg.Frame.Invalidation))
	if err != nil {
		return nil, err
	}
	cc, err := yuv.ParseColorConversion(cfg.Frame.ColorConversion)
	if err != nil {
		return nil, err
	}
	ip, err := yuv.ParseInterpolation(cfg.Frame.Interpolation)
	if err != nil {
		return nil, err
	}

	return &Session{
		cache: framecache.NewFromConfig(cfg.Cache, metrics),
		opts: []frame.Option{
			frame.WithInvalidator(inv),
			frame.WithColorConversion(cc),
			frame.WithInterpolation(ip),
		},
		objects: make(map[string]*frame.Object),
	}, nil
}

// Cache is the cache shared by every object of the session.
func (s *Session) Cache() *framecache.FrameCache {
	return s.cache
}

// Open opens path and returns the handle of the new object.
func (s *Session) Open(path string) (string, *frame.Object, error) {
	obj, err := frame.Open(path, s.cache, s.opts...)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.objects[id] = obj
	s.mu.Unlock()

	logging.Op().Info("source opened", "id", id, "path", path, "identity", obj.Identity())
	return id, obj, nil
}

func (s *Session) Get(id string) (*frame.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return obj, nil
}

// Entry pairs a handle with a summary of its object.
type Entry struct {
	ID string `json:"id"`
	frame.Info
}

// List returns every open object ordered by name, then handle.
func (s *Session) List() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.objects))
	for id, obj := range s.objects {
		out = append(out, Entry{ID: id, Info: obj.Info()})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Close releases one object. Its frames stay cached for other objects on the same file.
func (s *Session) Close(id string) error {
	s.mu.Lock()
	obj, ok := s.objects[id]
	delete(s.objects, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	logging.Op().Info("source closed", "id", id, "identity", obj.Identity())
	return obj.Close()
}

// CloseAll releases every object and empties the cache.
func (s *Session) CloseAll() error {
	s.mu.Lock()
	objects := s.objects
	s.objects = make(map[string]*frame.Object)
	s.mu.Unlock()

	var errs []error
	for _, obj := range objects {
		if err := obj.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.cache.Clear()
	return errors.Join(errs...)
}
