package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/krisalay/yuv-frame-cache/yuv"
)

var params2x2 = DecodeParams{Width: 2, Height: 2, PixelFormat: yuv.YUV420P}

// writeClip writes frames 4:2:0 2x2 frames (6 bytes each) plus extra trailing bytes.
func writeClip(t *testing.T, name string, frames, extra int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	var buf bytes.Buffer
	for i := 0; i < frames; i++ {
		buf.Write([]byte{byte(16 + i*40), 60, 120, 200, 128, 128})
	}
	buf.Write(make([]byte, extra))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFileName(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"foreman_352x288_29.97fps_422.yuv", Format{352, 288, yuv.YUV422P, Unknown, 29.97}},
		{"/data/akiyo_cif.yuv", Format{352, 288, yuv.Unknown, Unknown, Unknown}},
		{"city-1080p-nv12-60Hz.yuv", Format{1920, 1080, yuv.NV12, Unknown, 60}},
		{"clip.yuv", UnknownFormat()},
	}
	for _, c := range cases {
		if got := ParseFileName(c.name); got != c.want {
			t.Fatalf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestExtractFormatCountsFrames(t *testing.T) {
	path := writeClip(t, "clip_2x2_25fps.yuv", 3, 0)
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	f := src.ExtractFormat()
	if f.Width != 2 || f.Height != 2 || f.FrameRate != 25 || f.FrameCount != 3 {
		t.Fatalf("unexpected format %+v", f)
	}
	if f.PixelFormat != yuv.Unknown {
		t.Fatalf("name carries no layout, expected Unknown, got %v", f.PixelFormat)
	}

	if fc, ok := src.(FrameCounter); !ok || fc.FrameCount(2, 2, yuv.YUV444P) != 1 {
		t.Fatalf("expected 18 bytes / 12 bytes per 4:4:4 frame = 1")
	}
}

func TestExtractFormatWithoutGeometry(t *testing.T) {
	path := writeClip(t, "clip.yuv", 1, 0)
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if f := src.ExtractFormat(); f != UnknownFormat() {
		t.Fatalf("expected all sentinels, got %+v", f)
	}
}

func TestReadFrame(t *testing.T) {
	ctx := context.Background()
	path := writeClip(t, "clip.yuv", 2, 3)
	src, err := OpenYUVFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	first, err := src.ReadFrame(ctx, 0, params2x2)
	if err != nil || len(first) != 12 {
		t.Fatalf("frame 0: %d bytes, err %v", len(first), err)
	}

	again, _ := src.ReadFrame(ctx, 0, params2x2)
	if !bytes.Equal(first, again) {
		t.Fatalf("same frame decoded differently")
	}

	second, _ := src.ReadFrame(ctx, 1, params2x2)
	if bytes.Equal(first, second) {
		t.Fatalf("frames 0 and 1 should differ")
	}

	// 3 trailing bytes are a partial frame
	for _, idx := range []int{-1, 2, 100} {
		data, err := src.ReadFrame(ctx, idx, params2x2)
		if err != nil || len(data) != 0 {
			t.Fatalf("index %d: expected empty buffer, got %d bytes err %v", idx, len(data), err)
		}
	}
}

func TestHugeGeometryFailsSoft(t *testing.T) {
	ctx := context.Background()
	path := writeClip(t, "clip_2000000x2000000.yuv", 1, 0)
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	f := src.ExtractFormat()
	if f.Width != Unknown || f.Height != Unknown {
		t.Fatalf("implausible geometry should be ignored, got %dx%d", f.Width, f.Height)
	}

	huge := DecodeParams{Width: 2000000, Height: 2000000, PixelFormat: yuv.YUV420P}
	if out, err := src.ReadFrame(ctx, 0, huge); err != nil || len(out) != 0 {
		t.Fatalf("expected empty frame, got %d bytes, err %v", len(out), err)
	}

	// largest valid geometry, far bigger than the 6 byte file
	large := DecodeParams{Width: yuv.MaxDimension, Height: yuv.MaxDimension, PixelFormat: yuv.YUV444P}
	if out, err := src.ReadFrame(ctx, 0, large); err != nil || len(out) != 0 {
		t.Fatalf("expected empty frame, got %d bytes, err %v", len(out), err)
	}
	if out, err := src.ReadFrame(ctx, 1<<40, params2x2); err != nil || len(out) != 0 {
		t.Fatalf("expected empty frame for far index, got %d bytes, err %v", len(out), err)
	}
}

func TestReadFrameAfterClose(t *testing.T) {
	src, err := OpenYUVFile(writeClip(t, "clip.yuv", 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}

	if _, err := src.ReadFrame(context.Background(), 0, params2x2); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected os.ErrClosed, got %v", err)
	}
}

func TestReadFrameCancelled(t *testing.T) {
	src, err := OpenYUVFile(writeClip(t, "clip.yuv", 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.ReadFrame(ctx, 0, params2x2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("/tmp/movie.mp4")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	var ue *UnsupportedFormatError
	if !errors.As(err, &ue) || ue.Ext != "mp4" {
		t.Fatalf("expected *UnsupportedFormatError for mp4, got %#v", err)
	}
}

func TestIdentityIsAbsolute(t *testing.T) {
	path := writeClip(t, "Clip.YUV", 1, 0)
	src, err := Open(path)
	if err != nil {
		t.Fatalf("upper-case extension should be accepted: %v", err)
	}
	defer src.Close()

	if !filepath.IsAbs(src.Identity()) || src.FileName() != path {
		t.Fatalf("identity %q, file name %q", src.Identity(), src.FileName())
	}
	if len(Supported()) == 0 || Supported()[0] != "yuv" {
		t.Fatalf("yuv should be registered, got %v", Supported())
	}
}
