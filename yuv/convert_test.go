package yuv

import (
	"bytes"
	"errors"
	"testing"
)

func frame420(width, height int, y, u, v byte) []byte {
	size := YUV420P.FrameSize(width, height)
	buf := make([]byte, size)
	luma := width * height
	cw, ch := YUV420P.ChromaSize(width, height)
	for i := range buf {
		switch {
		case i < luma:
			buf[i] = y
		case i < luma+cw*ch:
			buf[i] = u
		default:
			buf[i] = v
		}
	}
	return buf
}

func TestFrameSize(t *testing.T) {
	cases := []struct {
		format        PixelFormat
		width, height int
		want          int
	}{
		{YUV420P, 2, 2, 6},
		{YUV420P, 3, 3, 17},
		{YUV422P, 4, 2, 16},
		{YUV444P, 2, 2, 12},
		{NV12, 2, 2, 6},
		{Unknown, 2, 2, 0},
		{YUV420P, 0, 2, 0},
		{YUV444P, MaxDimension, MaxDimension, 3 * MaxDimension * MaxDimension},
		{YUV420P, MaxDimension + 1, 2, 0},
		{YUV420P, 2000000, 2000000, 0},
	}
	for _, c := range cases {
		if got := c.format.FrameSize(c.width, c.height); got != c.want {
			t.Fatalf("%v %dx%d: got %d, want %d", c.format, c.width, c.height, got, c.want)
		}
	}
}

func TestToRGB24Extremes(t *testing.T) {
	white, err := ToRGB24(frame420(2, 2, 235, 128, 128), 2, 2, YUV420P, BT601, Nearest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(white, bytes.Repeat([]byte{255}, 12)) {
		t.Fatalf("expected white, got %v", white)
	}

	black, _ := ToRGB24(frame420(2, 2, 16, 128, 128), 2, 2, YUV420P, BT601, Nearest)
	if !bytes.Equal(black, make([]byte, 12)) {
		t.Fatalf("expected black, got %v", black)
	}

	gray, _ := ToRGB24(frame420(2, 2, 128, 128, 128), 2, 2, YUV420P, BT601, Nearest)
	if !bytes.Equal(gray, bytes.Repeat([]byte{130}, 12)) {
		t.Fatalf("expected mid gray 130, got %v", gray)
	}
}

func TestColorConversionMatrices(t *testing.T) {
	src := frame420(2, 2, 81, 90, 240)

	bt601, _ := ToRGB24(src, 2, 2, YUV420P, BT601, Nearest)
	if !bytes.Equal(bt601[:3], []byte{255, 0, 0}) {
		t.Fatalf("bt601 red: got %v", bt601[:3])
	}

	bt709, _ := ToRGB24(src, 2, 2, YUV420P, BT709, Nearest)
	if !bytes.Equal(bt709[:3], []byte{255, 24, 0}) {
		t.Fatalf("bt709 red: got %v", bt709[:3])
	}
}

func TestToRGB24Deterministic(t *testing.T) {
	src := make([]byte, YUV420P.FrameSize(6, 4))
	for i := range src {
		src[i] = byte(i * 37)
	}
	a, _ := ToRGB24(src, 6, 4, YUV420P, BT709, Bilinear)
	b, _ := ToRGB24(src, 6, 4, YUV420P, BT709, Bilinear)
	if !bytes.Equal(a, b) {
		t.Fatalf("conversion is not deterministic")
	}
}

func TestNV12MatchesPlanar(t *testing.T) {
	planar := []byte{10, 50, 90, 130, 100, 200}
	semi := []byte{10, 50, 90, 130, 100, 200}

	a, _ := ToRGB24(planar, 2, 2, YUV420P, BT601, Nearest)
	b, _ := ToRGB24(semi, 2, 2, NV12, BT601, Nearest)
	if !bytes.Equal(a, b) {
		t.Fatalf("nv12 and planar disagree: %v vs %v", a, b)
	}
}

func TestBilinearUniformChromaMatchesNearest(t *testing.T) {
	src := frame420(4, 4, 120, 60, 180)
	for i := 0; i < 16; i++ {
		src[i] = byte(16 + i*10)
	}

	a, _ := ToRGB24(src, 4, 4, YUV420P, BT601, Nearest)
	b, _ := ToRGB24(src, 4, 4, YUV420P, BT601, Bilinear)
	if !bytes.Equal(a, b) {
		t.Fatalf("uniform chroma should not depend on interpolation")
	}
}

func TestToRGB24Errors(t *testing.T) {
	if _, err := ToRGB24(make([]byte, 5), 2, 2, YUV420P, BT601, Nearest); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
	if _, err := ToRGB24(make([]byte, 64), 2, 2, Unknown, BT601, Nearest); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := ToRGB24(nil, -1, 2, YUV420P, BT601, Nearest); !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("expected ErrBadGeometry, got %v", err)
	}
}

func TestParse(t *testing.T) {
	if f, err := ParsePixelFormat("I420"); err != nil || f != YUV420P {
		t.Fatalf("I420 alias: %v %v", f, err)
	}
	if _, err := ParsePixelFormat("rgb24"); err == nil {
		t.Fatalf("expected error for rgb24")
	}
	if c, _ := ParseColorConversion("709"); c != BT709 {
		t.Fatalf("709 alias")
	}
	if i, _ := ParseInterpolation("bilinear"); i != Bilinear {
		t.Fatalf("bilinear")
	}
}
