package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func infoCmd(g *globalFlags) *cobra.Command {
	var (
		f      frameFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show what is known about a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, obj, err := f.open(cmd.Context(), g, args[0])
			if err != nil {
				return err
			}
			defer sess.CloseAll()

			info := obj.Info()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Printf("NAME        : %s\n", info.Name)
			fmt.Printf("FILE        : %s\n", info.Identity)
			fmt.Printf("SIZE        : %dx%d\n", info.Width, info.Height)
			fmt.Printf("PIXEL FMT   : %s\n", info.PixelFormat)
			fmt.Printf("COLOR       : %s\n", info.ColorConversion)
			fmt.Printf("CHROMA      : %s\n", info.Interpolation)
			fmt.Printf("FRAMES      : %d\n", info.FrameCount)
			fmt.Printf("FRAME RATE  : %.2f\n", info.FrameRate)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
