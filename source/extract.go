package source

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/krisalay/yuv-frame-cache/yuv"
)

var (
	sizePattern = regexp.MustCompile(`(\d+)[xX](\d+)`)
	ratePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:fps|hz)`)
)

var namedSizes = map[string][2]int{
	"qcif":  {176, 144},
	"cif":   {352, 288},
	"4cif":  {704, 576},
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"2160p": {3840, 2160},
}

var formatTokens = map[string]yuv.PixelFormat{
	"420":     yuv.YUV420P,
	"i420":    yuv.YUV420P,
	"yuv420":  yuv.YUV420P,
	"yuv420p": yuv.YUV420P,
	"422":     yuv.YUV422P,
	"yuv422":  yuv.YUV422P,
	"yuv422p": yuv.YUV422P,
	"444":     yuv.YUV444P,
	"yuv444":  yuv.YUV444P,
	"yuv444p": yuv.YUV444P,
	"nv12":    yuv.NV12,
}

// ParseFileName guesses geometry, layout and rate from a name such as
// "foreman_352x288_30fps_420.yuv". Anything not found keeps its sentinel.
func ParseFileName(path string) Format {
	f := UnknownFormat()

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if m := sizePattern.FindStringSubmatch(name); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if yuv.ValidSize(w, h) {
			f.Width, f.Height = w, h
		}
	}

	if m := ratePattern.FindStringSubmatch(name); m != nil {
		if r, err := strconv.ParseFloat(m[1], 64); err == nil && r > 0 {
			f.FrameRate = r
		}
	}

	tokens := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, tok := range tokens {
		if sz, ok := namedSizes[tok]; ok && f.Width == Unknown {
			f.Width, f.Height = sz[0], sz[1]
		}
		if pf, ok := formatTokens[tok]; ok && f.PixelFormat == yuv.Unknown {
			f.PixelFormat = pf
		}
	}

	return f
}

// frameCountFor divides a file size into whole frames. Unknown geometry yields Unknown.
func frameCountFor(fileSize int64, width, height int, format yuv.PixelFormat) int {
	if format == yuv.Unknown {
		format = yuv.Default
	}
	frameSize := format.FrameSize(width, height)
	if frameSize <= 0 || fileSize < 0 {
		return Unknown
	}
	return int(fileSize / int64(frameSize))
}
