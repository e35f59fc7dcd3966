// Package source reads single raw frames from backing files.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/krisalay/yuv-frame-cache/yuv"
)

// Unknown marks a numeric Format field that could not be determined.
const Unknown = -1

// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// UnsupportedFormatError reports a file whose extension has no registered opener.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("source: unsupported format %q for %s", e.Ext, e.Path)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Format is what a source could learn about itself.
// Numeric fields are Unknown (or negative) and PixelFormat is yuv.Unknown when undetermined.
type Format struct {
	Width       int
	Height      int
	PixelFormat yuv.PixelFormat
	FrameCount  int
	FrameRate   float64
}

// UnknownFormat has every field set to its sentinel.
func UnknownFormat() Format {
	return Format{
		Width:       Unknown,
		Height:      Unknown,
		PixelFormat: yuv.Unknown,
		FrameCount:  Unknown,
		FrameRate:   Unknown,
	}
}

// DecodeParams are the parameters that change how raw bytes become pixels.
type DecodeParams struct {
	Width           int
	Height          int
	PixelFormat     yuv.PixelFormat
	ColorConversion yuv.ColorConversion
	Interpolation   yuv.Interpolation
}

// RawFrameSource extracts single decoded frames from backing storage.
type RawFrameSource interface {
	// Identity is stable for the backing file and is used as the cache key prefix.
	Identity() string

	// FileName is the path the source was opened with.
	FileName() string

	// ExtractFormat guesses geometry, layout and timing. Undetermined fields carry sentinels.
	ExtractFormat() Format

	// ReadFrame decodes frame index into RGB24.
	// Out-of-range indexes and short reads return an empty slice and a nil error.
	ReadFrame(ctx context.Context, index int, p DecodeParams) ([]byte, error)

	Close() error
}

// FrameCounter is implemented by sources that can count frames for arbitrary geometry.
type FrameCounter interface {
	FrameCount(width, height int, format yuv.PixelFormat) int
}

// Opener opens a source for path.
type Opener func(path string) (RawFrameSource, error)

type registry struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

var globalRegistry = &registry{openers: make(map[string]Opener)}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Register makes an opener available for files with extension ext ("yuv" or ".yuv").
func Register(ext string, opener Opener) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.openers[normalizeExt(ext)] = opener
}

// Supported lists the registered extensions.
func Supported() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	exts := make([]string, 0, len(globalRegistry.openers))
	for ext := range globalRegistry.openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open picks an opener by file extension.
func Open(path string) (RawFrameSource, error) {
	ext := normalizeExt(filepath.Ext(path))

	globalRegistry.mu.RLock()
	opener, ok := globalRegistry.openers[ext]
	globalRegistry.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
	return opener(path)
}
