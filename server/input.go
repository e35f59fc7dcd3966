package server

import (
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/krisalay/yuv-frame-cache/frame"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

type OpenSourceBody struct {
	Path string `json:"path"`
}

func (b OpenSourceBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Path, v.Required),
	)
}

// ParamsBody changes decode parameters. Zero and empty fields keep their current value.
type ParamsBody struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	PixelFormat     string `json:"pixel_format"`
	ColorConversion string `json:"color_conversion"`
	Interpolation   string `json:"interpolation"`
}

func (b ParamsBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Width, v.Min(0), v.Max(yuv.MaxDimension)),
		v.Field(&b.Height, v.Min(0), v.Max(yuv.MaxDimension)),
		v.Field(&b.PixelFormat, v.By(parses(yuv.ParsePixelFormat))),
		v.Field(&b.ColorConversion, v.By(parses(yuv.ParseColorConversion))),
		v.Field(&b.Interpolation, v.By(parses(yuv.ParseInterpolation))),
	)
}

// parses turns a string parser into a rule; empty strings are accepted.
func parses[T any](parse func(string) (T, error)) v.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		_, err := parse(s)
		return err
	}
}

// ExportQuery is the query string of a frame request. Zero sizes keep the frame size.
type ExportQuery struct {
	Format  string
	Width   int
	Height  int
	Quality int
}

func (q ExportQuery) Validate() error {
	return v.ValidateStruct(&q,
		v.Field(&q.Format, v.By(parses(frame.ParseExportFormat))),
		v.Field(&q.Width, v.Min(0), v.Max(yuv.MaxDimension)),
		v.Field(&q.Height, v.Min(0), v.Max(yuv.MaxDimension)),
		v.Field(&q.Quality, v.Min(0), v.Max(100)),
	)
}

func (q ExportQuery) Options() frame.ExportOptions {
	return frame.ExportOptions{Format: q.Format, Width: q.Width, Height: q.Height, Quality: q.Quality}
}

type sourceID struct {
	ID string
}

func (s sourceID) Validate() error {
	return v.ValidateStruct(&s,
		v.Field(&s.ID, v.Required, is.UUID),
	)
}
