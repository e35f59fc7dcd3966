package yuv

import "errors"

var (
	// ErrShortFrame is returned when the raw buffer is smaller than one frame.
	ErrShortFrame = errors.New("yuv: buffer shorter than one frame")

	// ErrUnknownFormat is returned for PixelFormat Unknown or out-of-range values.
	ErrUnknownFormat = errors.New("yuv: unknown pixel format")

	// ErrBadGeometry is returned when width or height is outside 1..MaxDimension.
	ErrBadGeometry = errors.New("yuv: width and height out of range")
)

// matrix holds 8.8 fixed-point limited-range coefficients.
type matrix struct {
	rv, gu, gv, bu int
}

var matrices = map[ColorConversion]matrix{
	BT601: {rv: 409, gu: 100, gv: 208, bu: 516},
	BT709: {rv: 459, gu: 55, gv: 136, bu: 541},
}

// chromaPlane addresses one chroma component inside a raw frame.
type chromaPlane struct {
	data   []byte
	base   int
	stride int
	step   int
	cw, ch int
}

func (c chromaPlane) at(i, j int) int {
	i = clampIndex(i, c.cw)
	j = clampIndex(j, c.ch)
	return int(c.data[c.base+(j*c.stride+i)*c.step])
}

/*
ToRGB24 converts one raw frame into packed RGB24: width*height pixels,
3 bytes each, rows back to back with no padding.

The conversion is integer-only, so the same input always yields the same bytes.
*/
func ToRGB24(src []byte, width, height int, format PixelFormat, cc ColorConversion, ip Interpolation) ([]byte, error) {
	if !ValidSize(width, height) {
		return nil, ErrBadGeometry
	}
	size := format.FrameSize(width, height)
	if size == 0 {
		return nil, ErrUnknownFormat
	}
	if len(src) < size {
		return nil, ErrShortFrame
	}

	m, ok := matrices[cc]
	if !ok {
		m = matrices[BT601]
	}

	sx, sy := format.subsampling()
	cw, ch := format.ChromaSize(width, height)
	lumaSize := width * height

	u := chromaPlane{data: src, base: lumaSize, stride: cw, step: 1, cw: cw, ch: ch}
	v := chromaPlane{data: src, base: lumaSize + cw*ch, stride: cw, step: 1, cw: cw, ch: ch}
	if format == NV12 {
		u = chromaPlane{data: src, base: lumaSize, stride: cw, step: 2, cw: cw, ch: ch}
		v = chromaPlane{data: src, base: lumaSize + 1, stride: cw, step: 2, cw: cw, ch: ch}
	}

	dst := make([]byte, RGBSize(width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var cu, cv int
			if ip == Bilinear {
				cu = bilinear(u, x, y, sx, sy)
				cv = bilinear(v, x, y, sx, sy)
			} else {
				cu = u.at(x/sx, y/sy)
				cv = v.at(x/sx, y/sy)
			}

			r, g, b := m.rgb(int(src[y*width+x]), cu, cv)
			o := 3 * (y*width + x)
			dst[o] = r
			dst[o+1] = g
			dst[o+2] = b
		}
	}
	return dst, nil
}

func (m matrix) rgb(y, u, v int) (r, g, b byte) {
	c := 298 * (y - 16)
	d := u - 128
	e := v - 128
	r = clampByte((c + m.rv*e + 128) >> 8)
	g = clampByte((c - m.gu*d - m.gv*e + 128) >> 8)
	b = clampByte((c + m.bu*d + 128) >> 8)
	return r, g, b
}

// bilinear samples a chroma plane at the centre of luma pixel (x, y).
// Weights are in quarters on each axis, so the divisor is 16.
func bilinear(p chromaPlane, x, y, sx, sy int) int {
	i0, fx := axis(x, sx)
	j0, fy := axis(y, sy)

	sum := p.at(i0, j0)*(4-fx)*(4-fy) +
		p.at(i0+1, j0)*fx*(4-fy) +
		p.at(i0, j0+1)*(4-fx)*fy +
		p.at(i0+1, j0+1)*fx*fy
	return (sum + 8) / 16
}

// axis maps luma coordinate p onto a chroma grid subsampled by s (1 or 2).
// It returns the left sample index and the fractional offset in quarters.
func axis(p, s int) (int, int) {
	if s == 1 {
		return p, 0
	}
	// chroma sample i is centred on luma 2i+0.5, so p sits at (2p-1)/4
	q := 2*p - 1
	i := floorDiv(q, 4)
	return i, q - 4*i
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
