package frame

import (
	"image"
	"image/color"
)

/*
Image is the display form of a decoded frame: Width*Height pixels, 3 bytes per
pixel, rows back to back with no padding. Pix is borrowed from the frame cache
and must not be modified.

Image implements image.Image so it can be handed straight to encoders.
*/
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

var _ image.Image = (*Image)(nil)

func newImage(width, height int, pix []byte) (*Image, bool) {
	if width <= 0 || height <= 0 || len(pix) < 3*width*height {
		return nil, false
	}
	return &Image{Width: width, Height: height, Pix: pix}, true
}

func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

func (m *Image) At(x, y int) color.Color {
	p, ok := m.RGBAt(x, y)
	if !ok {
		return color.RGBA{}
	}
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff}
}

// RGBAt returns the three component bytes of pixel (x, y).
func (m *Image) RGBAt(x, y int) (RGB, bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return RGB{}, false
	}
	return rgbAt(m.Pix, m.Width, x, y)
}

func rgbAt(pix []byte, width, x, y int) (RGB, bool) {
	off := 3 * (y*width + x)
	if off+2 >= len(pix) {
		return RGB{}, false
	}
	return RGB{R: pix[off], G: pix[off+1], B: pix[off+2]}, true
}

// RGB is one display pixel as stored in the decoded buffer.
type RGB struct {
	R, G, B uint8
}

// Packed is PackPixel(p.R, p.G, p.B).
func (p RGB) Packed() uint32 {
	return PackPixel(p.R, p.G, p.B)
}

/*
PackPixel encodes three component bytes the way pixel probes report them:

	bits 24-31  c0
	bits 16-23  c1
	bits  8-15  c2
	bits  0-7   zero

Probe tools compare this value numerically, so the layout is fixed.
*/
func PackPixel(c0, c1, c2 uint8) uint32 {
	return uint32(c0)<<24 | uint32(c1)<<16 | uint32(c2)<<8
}
