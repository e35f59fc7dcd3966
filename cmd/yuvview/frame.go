package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krisalay/yuv-frame-cache/frame"
	"github.com/krisalay/yuv-frame-cache/session"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

// frameFlags override what the file name tells about the clip.
type frameFlags struct {
	width           int
	height          int
	pixelFormat     string
	colorConversion string
	interpolation   string
	index           int
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "Frame width (default: from file name)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Frame height (default: from file name)")
	cmd.Flags().StringVar(&f.pixelFormat, "pix-fmt", "", "Pixel format: yuv420p, yuv422p, yuv444p, nv12")
	cmd.Flags().StringVar(&f.colorConversion, "color", "", "Color conversion: bt601, bt709")
	cmd.Flags().StringVar(&f.interpolation, "interpolation", "", "Chroma interpolation: nearest, bilinear")
	cmd.Flags().IntVar(&f.index, "frame", 0, "Frame index")
}

// open builds a session from the global config and opens path with the overrides applied.
func (f *frameFlags) open(ctx context.Context, g *globalFlags, path string) (*session.Session, *frame.Object, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if f.colorConversion != "" {
		cfg.Frame.ColorConversion = f.colorConversion
	}
	if f.interpolation != "" {
		cfg.Frame.Interpolation = f.interpolation
	}

	sess, err := session.New(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	_, obj, err := sess.Open(path)
	if err != nil {
		return nil, nil, err
	}

	p := obj.Params()
	if f.width > 0 {
		p.Width = f.width
	}
	if f.height > 0 {
		p.Height = f.height
	}
	if f.pixelFormat != "" {
		if p.PixelFormat, err = yuv.ParsePixelFormat(f.pixelFormat); err != nil {
			sess.CloseAll()
			return nil, nil, err
		}
	}
	if err := obj.SetParams(ctx, p); err != nil {
		sess.CloseAll()
		return nil, nil, fmt.Errorf("apply frame parameters: %w", err)
	}

	return sess, obj, nil
}
