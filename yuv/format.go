// Package yuv describes raw planar YUV layouts and converts them to RGB24.
package yuv

import (
	"fmt"
	"strings"
)

// PixelFormat represents a raw YUV layout on disk.
type PixelFormat int

const (
	Unknown PixelFormat = iota // not determined
	YUV420P                    // 4:2:0 planar 8-bit (Y, U, V planes)
	YUV422P                    // 4:2:2 planar 8-bit
	YUV444P                    // 4:4:4 planar 8-bit
	NV12                       // 4:2:0 semi-planar (Y plane + interleaved UV)
)

// Default is used when a source cannot tell its own layout.
const Default = YUV420P

func (p PixelFormat) String() string {
	switch p {
	case YUV420P:
		return "yuv420p"
	case YUV422P:
		return "yuv422p"
	case YUV444P:
		return "yuv444p"
	case NV12:
		return "nv12"
	default:
		return "unknown"
	}
}

// ParsePixelFormat accepts the String form and a few common aliases.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yuv420p", "yuv420", "420", "i420":
		return YUV420P, nil
	case "yuv422p", "yuv422", "422":
		return YUV422P, nil
	case "yuv444p", "yuv444", "444":
		return YUV444P, nil
	case "nv12":
		return NV12, nil
	default:
		return Unknown, fmt.Errorf("unknown pixel format %q", s)
	}
}

// subsampling returns the horizontal and vertical chroma divisors.
func (p PixelFormat) subsampling() (sx, sy int) {
	switch p {
	case YUV420P, NV12:
		return 2, 2
	case YUV422P:
		return 2, 1
	case YUV444P:
		return 1, 1
	default:
		return 0, 0
	}
}

// ChromaSize returns the dimensions of one chroma plane. Odd sizes round up.
func (p PixelFormat) ChromaSize(width, height int) (cw, ch int) {
	sx, sy := p.subsampling()
	if sx == 0 {
		return 0, 0
	}
	return (width + sx - 1) / sx, (height + sy - 1) / sy
}

// MaxDimension bounds width and height. Larger geometry is treated as invalid.
const MaxDimension = 16384

// ValidSize reports whether width x height is a frame geometry this package handles.
func ValidSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// FrameSize returns the number of bytes one raw frame occupies on disk,
// or 0 for an unknown format or invalid geometry.
func (p PixelFormat) FrameSize(width, height int) int {
	if !ValidSize(width, height) {
		return 0
	}
	cw, ch := p.ChromaSize(width, height)
	if cw == 0 {
		return 0
	}
	return width*height + 2*cw*ch
}

// RGBSize is the size of the decoded RGB24 frame.
func RGBSize(width, height int) int {
	return width * height * 3
}

// ColorConversion selects the YUV→RGB matrix.
type ColorConversion int

const (
	BT601 ColorConversion = iota
	BT709
)

func (c ColorConversion) String() string {
	if c == BT709 {
		return "bt709"
	}
	return "bt601"
}

// ParseColorConversion accepts "bt601" / "bt709" (also "601" / "709").
func ParseColorConversion(s string) (ColorConversion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bt601", "601", "":
		return BT601, nil
	case "bt709", "709":
		return BT709, nil
	default:
		return BT601, fmt.Errorf("unknown color conversion %q", s)
	}
}

// Interpolation selects how subsampled chroma is brought up to luma resolution.
type Interpolation int

const (
	Nearest Interpolation = iota
	Bilinear
)

func (i Interpolation) String() string {
	if i == Bilinear {
		return "bilinear"
	}
	return "nearest"
}

// ParseInterpolation accepts "nearest" / "bilinear".
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	default:
		return Nearest, fmt.Errorf("unknown interpolation %q", s)
	}
}
