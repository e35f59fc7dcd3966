package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krisalay/yuv-frame-cache/frame"
	"github.com/krisalay/yuv-frame-cache/logging"
)

func exportCmd(g *globalFlags) *cobra.Command {
	var (
		f    frameFlags
		out  string
		opts frame.ExportOptions
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write one decoded frame as an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, obj, err := f.open(cmd.Context(), g, args[0])
			if err != nil {
				return err
			}
			defer sess.CloseAll()

			img, err := obj.LoadFullFrame(cmd.Context(), f.index)
			if err != nil {
				return err
			}
			if img == nil {
				return fmt.Errorf("frame %d of %s: %w", f.index, obj.Name(), frame.ErrNoFrame)
			}

			if out == "" {
				ext := opts.Format
				if ext == "" {
					ext = "png"
				}
				out = fmt.Sprintf("%s_%06d.%s", obj.Name(), f.index, ext)
			}
			if opts.Format == "" {
				opts.Format = strings.TrimPrefix(filepath.Ext(out), ".")
			}

			w, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := frame.Encode(w, img, opts); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			logging.Op().Info("frame exported", "source", obj.Name(), "index", f.index, "output", out)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: <name>_<frame>.<format>)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Image format: png, jpg, bmp, tiff, gif (default: from output name)")
	cmd.Flags().IntVar(&opts.Width, "resize-width", 0, "Resize to this width")
	cmd.Flags().IntVar(&opts.Height, "resize-height", 0, "Resize to this height")
	cmd.Flags().IntVar(&opts.Quality, "quality", 0, "JPEG quality (1-100)")

	return cmd
}
