package frame

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/sunshineplan/imgconv"

	"github.com/krisalay/yuv-frame-cache/yuv"
)

// ErrNoFrame is returned by helpers that need pixels when the source had none for the request.
var ErrNoFrame = errors.New("frame: no frame available")

var exportFormats = map[string]imgconv.Format{
	"png":  imgconv.PNG,
	"jpg":  imgconv.JPEG,
	"jpeg": imgconv.JPEG,
	"bmp":  imgconv.BMP,
	"tif":  imgconv.TIFF,
	"tiff": imgconv.TIFF,
	"gif":  imgconv.GIF,
}

var contentTypes = map[imgconv.Format]string{
	imgconv.PNG:  "image/png",
	imgconv.JPEG: "image/jpeg",
	imgconv.BMP:  "image/bmp",
	imgconv.TIFF: "image/tiff",
	imgconv.GIF:  "image/gif",
}

// ExportOptions controls Encode. Zero Width and Height keep the frame size;
// setting only one of them keeps the aspect ratio.
type ExportOptions struct {
	Format  string
	Width   int
	Height  int
	Quality int
}

// ParseExportFormat maps "png", "jpg", ... (with or without a dot) to an encoder format.
func ParseExportFormat(name string) (imgconv.Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if name == "" {
		return imgconv.PNG, nil
	}
	f, ok := exportFormats[name]
	if !ok {
		return 0, fmt.Errorf("unsupported export format %q", name)
	}
	return f, nil
}

// ContentType is the MIME type for an export format name.
func ContentType(name string) string {
	f, err := ParseExportFormat(name)
	if err != nil {
		return "application/octet-stream"
	}
	return contentTypes[f]
}

// Encode writes img to w as an image file.
func Encode(w io.Writer, img *Image, opts ExportOptions) error {
	if img == nil {
		return ErrNoFrame
	}

	format, err := ParseExportFormat(opts.Format)
	if err != nil {
		return err
	}

	if opts.Width < 0 || opts.Height < 0 || opts.Width > yuv.MaxDimension || opts.Height > yuv.MaxDimension {
		return fmt.Errorf("export size %dx%d: %w", opts.Width, opts.Height, ErrInvalidSize)
	}

	var base image.Image = img
	if opts.Width > 0 || opts.Height > 0 {
		base = imgconv.Resize(img, &imgconv.ResizeOption{Width: opts.Width, Height: opts.Height})
	}

	option := &imgconv.FormatOption{Format: format}
	if format == imgconv.JPEG && opts.Quality > 0 {
		option.EncodeOption = []imgconv.EncodeOption{imgconv.Quality(opts.Quality)}
	}

	if err := imgconv.Write(w, base, option); err != nil {
		return fmt.Errorf("encode %v: %w", opts.Format, err)
	}
	return nil
}
