package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

func init() {
	Register("yuv", func(path string) (RawFrameSource, error) {
		return OpenYUVFile(path)
	})
}

// YUVFile is a headerless raw YUV file: frames stored back to back.
type YUVFile struct {
	mu       sync.RWMutex
	file     *os.File
	path     string
	identity string
}

var _ FrameCounter = (*YUVFile)(nil)

// OpenYUVFile opens path for random-access frame reads.
func OpenYUVFile(path string) (*YUVFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &YUVFile{file: f, path: path, identity: filepath.Clean(abs)}, nil
}

func (y *YUVFile) Identity() string { return y.identity }

func (y *YUVFile) FileName() string { return y.path }

func (y *YUVFile) size() int64 {
	y.mu.RLock()
	defer y.mu.RUnlock()

	if y.file == nil {
		return Unknown
	}
	st, err := y.file.Stat()
	if err != nil {
		return Unknown
	}
	return st.Size()
}

// ExtractFormat reads what it can from the file name and derives the frame count from the file size.
func (y *YUVFile) ExtractFormat() Format {
	f := ParseFileName(y.path)
	if f.Width > 0 && f.Height > 0 {
		f.FrameCount = frameCountFor(y.size(), f.Width, f.Height, f.PixelFormat)
	}
	return f
}

// FrameCount is the number of whole frames for the given geometry.
func (y *YUVFile) FrameCount(width, height int, format yuv.PixelFormat) int {
	return frameCountFor(y.size(), width, height, format)
}

/*
ReadFrame decodes one frame.

  - index < 0, index past the end, or a partial trailing frame → empty slice, nil error
  - a closed file or any other I/O failure → error
*/
func (y *YUVFile) ReadFrame(ctx context.Context, index int, p DecodeParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frameSize := p.PixelFormat.FrameSize(p.Width, p.Height)
	if index < 0 || frameSize == 0 {
		return []byte{}, nil
	}

	y.mu.RLock()
	defer y.mu.RUnlock()

	if y.file == nil {
		return nil, os.ErrClosed
	}

	st, err := y.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", y.path, err)
	}
	// index must address a whole frame inside the file
	if int64(index) >= st.Size()/int64(frameSize) {
		logging.Op().Debug("frame past end of file",
			"file", y.path, "index", index, "frame_size", frameSize, "file_size", st.Size())
		return []byte{}, nil
	}

	raw := make([]byte, frameSize)
	n, err := y.file.ReadAt(raw, int64(index)*int64(frameSize))
	if n < frameSize {
		if err == nil || errors.Is(err, io.EOF) {
			logging.Op().Debug("short frame read",
				"file", y.path, "index", index, "want", frameSize, "got", n)
			return []byte{}, nil
		}
		return nil, fmt.Errorf("read frame %d of %s: %w", index, y.path, err)
	}

	rgb, err := yuv.ToRGB24(raw, p.Width, p.Height, p.PixelFormat, p.ColorConversion, p.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("convert frame %d of %s: %w", index, y.path, err)
	}
	return rgb, nil
}

// Close releases the file. It is safe to call more than once.
func (y *YUVFile) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()

	if y.file == nil {
		return nil
	}
	err := y.file.Close()
	y.file = nil
	return err
}
