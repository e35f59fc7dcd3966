// Package frame binds one raw source to the shared frame cache and exposes
// decoded frames and pixel probes to a viewer.
package frame

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	cache "github.com/krisalay/yuv-frame-cache/api"
	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/refresh"
	"github.com/krisalay/yuv-frame-cache/source"
	"github.com/krisalay/yuv-frame-cache/types"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

// Defaults applied when a source cannot describe itself.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultFrameCount = 1
	DefaultFrameRate  = 30.0
)

var (
	ErrInvalidSize        = errors.New("frame: width and height must be between 1 and 16384")
	ErrInvalidPixelFormat = errors.New("frame: pixel format must be known")
)

/*
Object is the orchestrator between one source and the shared cache.

On every frame or pixel request it builds the cache key, asks the cache,
decodes through the source on a miss, and derives either the display image
or a single pixel from the cached bytes. Decoded bytes are never modified.
*/
type Object struct {
	mu sync.RWMutex

	src         source.RawFrameSource
	cache       cache.Cache
	invalidator refresh.Invalidator

	identity string
	fileName string
	name     string

	params     source.DecodeParams
	frameCount int
	frameRate  float64

	// lastIdx only moves after a load that produced pixels.
	lastIdx int
	display *Image
}

// Option customises an Object at construction.
type Option func(*Object)

// WithInvalidator sets how stale frames are dropped on parameter changes.
func WithInvalidator(inv refresh.Invalidator) Option {
	return func(o *Object) {
		if inv != nil {
			o.invalidator = inv
		}
	}
}

// WithColorConversion sets the initial YUV→RGB matrix.
func WithColorConversion(cc yuv.ColorConversion) Option {
	return func(o *Object) { o.params.ColorConversion = cc }
}

// WithInterpolation sets the initial chroma interpolation.
func WithInterpolation(ip yuv.Interpolation) Option {
	return func(o *Object) { o.params.Interpolation = ip }
}

// Open opens path through the source registry and binds it to c.
// Files with an unregistered extension fail with source.ErrUnsupportedFormat.
func Open(path string, c cache.Cache, opts ...Option) (*Object, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	return New(src, c, opts...), nil
}

// New binds src to c. Format fields the source cannot determine get defaults.
func New(src source.RawFrameSource, c cache.Cache, opts ...Option) *Object {
	o := &Object{
		src:         src,
		cache:       c,
		invalidator: refresh.ScopedInvalidator{},
		params: source.DecodeParams{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			PixelFormat: yuv.Default,
		},
		frameCount: DefaultFrameCount,
		frameRate:  DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(o)
	}

	if src == nil {
		return o
	}

	o.identity = src.Identity()
	o.fileName = src.FileName()
	o.name = nameOf(o.fileName)

	f := src.ExtractFormat()
	if f.Width > 0 && f.Width <= yuv.MaxDimension {
		o.params.Width = f.Width
	}
	if f.Height > 0 && f.Height <= yuv.MaxDimension {
		o.params.Height = f.Height
	}
	if f.PixelFormat != yuv.Unknown {
		o.params.PixelFormat = f.PixelFormat
	}
	if f.FrameCount > 0 {
		o.frameCount = f.FrameCount
	}
	if f.FrameRate > 0 {
		o.frameRate = f.FrameRate
	}

	return o
}

// nameOf strips the directory and everything from the last '.' on.
func nameOf(fileName string) string {
	base := filepath.Base(fileName)
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

func (o *Object) Name() string     { return o.name }
func (o *Object) Identity() string { return o.identity }
func (o *Object) FileName() string { return o.fileName }

func (o *Object) Params() source.DecodeParams {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.params
}

func (o *Object) Width() int                   { return o.Params().Width }
func (o *Object) Height() int                  { return o.Params().Height }
func (o *Object) PixelFormat() yuv.PixelFormat { return o.Params().PixelFormat }

func (o *Object) FrameCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.frameCount
}

func (o *Object) FrameRate() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.frameRate
}

// LastIndex is the index of the last frame that loaded successfully.
func (o *Object) LastIndex() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastIdx
}

// DisplayImage is the image produced by the last successful load, or nil.
func (o *Object) DisplayImage() *Image {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.display
}

func (o *Object) snapshot() (source.RawFrameSource, source.DecodeParams, int) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.src, o.params, o.lastIdx
}

// resolve is the lookup-or-decode step shared by frame loads and pixel probes.
func (o *Object) resolve(ctx context.Context, src source.RawFrameSource, p source.DecodeParams, idx int) (*types.CachedFrame, error) {
	key := types.NewCacheKey(src.Identity(), idx)
	return o.cache.Get(ctx, key, types.LoaderFunc(func(ctx context.Context, k types.CacheKey) ([]byte, error) {
		return src.ReadFrame(ctx, k.Index, p)
	}))
}

/*
LoadFullFrame makes frame idx the current display image.

1. Lookup (idx) in the shared cache
2. On a miss decode it through the source and insert it
3. An empty buffer means "no frame": nothing changes and (nil, nil) is returned
4. Otherwise remember idx and expose the bytes as the display image

Errors are only returned for real I/O failures; they are never cached.
*/
func (o *Object) LoadFullFrame(ctx context.Context, idx int) (*Image, error) {
	src, p, _ := o.snapshot()
	if src == nil || idx < 0 {
		return nil, nil
	}

	f, err := o.resolve(ctx, src, p, idx)
	if err != nil {
		logging.Op().Warn("frame load failed", "source", o.identity, "index", idx, "error", err)
		return nil, err
	}
	if f.Empty() {
		return nil, nil
	}

	img, ok := newImage(p.Width, p.Height, f.Bytes())
	if !ok {
		logging.Op().Warn("cached frame does not match geometry",
			"source", o.identity, "index", idx, "bytes", f.Len(), "width", p.Width, "height", p.Height)
		return nil, nil
	}

	o.mu.Lock()
	o.lastIdx = idx
	if o.params == p {
		o.display = img
	}
	o.mu.Unlock()

	return img, nil
}

/*
Pixel returns the components of pixel (x, y) in the frame at the current
last-accessed index. ok is false for out-of-bounds coordinates, a released
source, or a frame without pixels.
*/
func (o *Object) Pixel(ctx context.Context, x, y int) (RGB, bool) {
	src, p, idx := o.snapshot()
	if src == nil || x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return RGB{}, false
	}

	f, err := o.resolve(ctx, src, p, idx)
	if err != nil {
		logging.Op().Warn("pixel probe failed", "source", o.identity, "index", idx, "error", err)
		return RGB{}, false
	}
	if f.Empty() {
		return RGB{}, false
	}
	return rgbAt(f.Bytes(), p.Width, x, y)
}

// PixelValue is Pixel packed with PackPixel; 0 when there is no pixel.
func (o *Object) PixelValue(ctx context.Context, x, y int) uint32 {
	p, ok := o.Pixel(ctx, x, y)
	if !ok {
		return 0
	}
	return p.Packed()
}

/*
Refresh drops frames decoded with outdated parameters and reloads the frame at
the last-accessed index.
*/
func (o *Object) Refresh(ctx context.Context) error {
	o.mu.Lock()
	src, idx := o.src, o.lastIdx
	o.display = nil
	o.mu.Unlock()

	if src == nil {
		return nil
	}

	removed := o.invalidator.Invalidate(o.cache, o.identity)
	logging.Op().Info("frame parameters changed",
		"source", o.identity, "dropped", removed, "reload", idx)

	_, err := o.LoadFullFrame(ctx, idx)
	return err
}

// SetParams replaces all decode parameters at once and refreshes if anything changed.
func (o *Object) SetParams(ctx context.Context, p source.DecodeParams) error {
	if !yuv.ValidSize(p.Width, p.Height) {
		return ErrInvalidSize
	}
	if p.PixelFormat.FrameSize(p.Width, p.Height) == 0 {
		return ErrInvalidPixelFormat
	}

	o.mu.Lock()
	if o.params == p {
		o.mu.Unlock()
		return nil
	}
	o.params = p
	o.updateFrameCountLocked()
	o.mu.Unlock()

	return o.Refresh(ctx)
}

func (o *Object) SetPixelFormat(ctx context.Context, f yuv.PixelFormat) error {
	p := o.Params()
	p.PixelFormat = f
	return o.SetParams(ctx, p)
}

func (o *Object) SetSize(ctx context.Context, width, height int) error {
	p := o.Params()
	p.Width, p.Height = width, height
	return o.SetParams(ctx, p)
}

func (o *Object) SetColorConversion(ctx context.Context, cc yuv.ColorConversion) error {
	p := o.Params()
	p.ColorConversion = cc
	return o.SetParams(ctx, p)
}

func (o *Object) SetInterpolation(ctx context.Context, ip yuv.Interpolation) error {
	p := o.Params()
	p.Interpolation = ip
	return o.SetParams(ctx, p)
}

func (o *Object) updateFrameCountLocked() {
	fc, ok := o.src.(source.FrameCounter)
	if !ok {
		return
	}
	n := fc.FrameCount(o.params.Width, o.params.Height, o.params.PixelFormat)
	if n < DefaultFrameCount {
		n = DefaultFrameCount
	}
	o.frameCount = n
}

// Close releases the source. Afterwards the object behaves as if it had none.
// Frames it put in the shared cache stay there for other objects on the same file.
func (o *Object) Close() error {
	o.mu.Lock()
	src := o.src
	o.src = nil
	o.display = nil
	o.mu.Unlock()

	if src == nil {
		return nil
	}
	return src.Close()
}

// Info is a read-only summary for front-ends.
type Info struct {
	Name            string  `json:"name"`
	Identity        string  `json:"identity"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	PixelFormat     string  `json:"pixel_format"`
	ColorConversion string  `json:"color_conversion"`
	Interpolation   string  `json:"interpolation"`
	FrameCount      int     `json:"frame_count"`
	FrameRate       float64 `json:"frame_rate"`
	LastIndex       int     `json:"last_index"`
}

func (o *Object) Info() Info {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return Info{
		Name:            o.name,
		Identity:        o.identity,
		Width:           o.params.Width,
		Height:          o.params.Height,
		PixelFormat:     o.params.PixelFormat.String(),
		ColorConversion: o.params.ColorConversion.String(),
		Interpolation:   o.params.Interpolation.String(),
		FrameCount:      o.frameCount,
		FrameRate:       o.frameRate,
		LastIndex:       o.lastIdx,
	}
}
