package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/krisalay/yuv-frame-cache/config"
	"github.com/krisalay/yuv-frame-cache/source"
)

func writeClip(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	// two 2x2 4:2:0 frames
	data := []byte{
		16, 16, 16, 16, 128, 128,
		235, 235, 235, 235, 128, 128,
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.CloseAll() })
	return s
}

func TestOpenGetClose(t *testing.T) {
	s := newSession(t)
	path := writeClip(t, t.TempDir(), "clip_2x2.yuv")

	id, obj, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if obj.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", obj.FrameCount())
	}

	got, err := s.Get(id)
	if err != nil || got != obj {
		t.Fatalf("get returned %v %v", got, err)
	}

	if err := s.Close(id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Close(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double close, got %v", err)
	}
}

func TestObjectsShareCache(t *testing.T) {
	s := newSession(t)
	path := writeClip(t, t.TempDir(), "clip_2x2.yuv")
	ctx := context.Background()

	_, a, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_, b, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.LoadFullFrame(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if s.Cache().Len() != 1 {
		t.Fatalf("expected 1 cached frame, got %d", s.Cache().Len())
	}
	if _, err := b.LoadFullFrame(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if s.Cache().Len() != 1 {
		t.Fatalf("same file should reuse the cached frame, got %d entries", s.Cache().Len())
	}
}

func TestListOrdersByName(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()

	for _, name := range []string{"b_2x2.yuv", "a_2x2.yuv"} {
		if _, _, err := s.Open(writeClip(t, dir, name)); err != nil {
			t.Fatal(err)
		}
	}

	list := s.List()
	if len(list) != 2 || list[0].Name != "a_2x2" || list[1].Name != "b_2x2" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].ID == "" || list[0].Width != 2 {
		t.Fatalf("entry missing fields: %+v", list[0])
	}
}

func TestOpenUnsupported(t *testing.T) {
	s := newSession(t)
	_, _, err := s.Open(filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, source.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNewRejectsBadStrategy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Frame.Invalidation = "sometimes"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown invalidation strategy")
	}
}

func TestNewRejectsBadCacheConfig(t *testing.T) {
	for _, mutate := range []func(*config.Config){
		func(c *config.Config) { c.Cache.Eviction = "random" },
		func(c *config.Config) { c.Cache.Shards = 0 },
		func(c *config.Config) { c.Cache.CostRounding = "round" },
	} {
		cfg := config.DefaultConfig()
		mutate(cfg)
		if s, err := New(cfg, nil); err == nil || s != nil {
			t.Fatalf("expected cache config error, got session %v err %v", s, err)
		}
	}
}
