package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func pixelCmd(g *globalFlags) *cobra.Command {
	var f frameFlags

	cmd := &cobra.Command{
		Use:   "pixel <file> <x> <y>",
		Short: "Probe one pixel of a frame",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}

			sess, obj, err := f.open(cmd.Context(), g, args[0])
			if err != nil {
				return err
			}
			defer sess.CloseAll()

			// pixel probes read the last loaded frame
			if _, err := obj.LoadFullFrame(cmd.Context(), f.index); err != nil {
				return err
			}

			px, ok := obj.Pixel(cmd.Context(), x, y)
			if !ok {
				fmt.Printf("(%d,%d) frame %d: no pixel\n", x, y, obj.LastIndex())
				return nil
			}
			fmt.Printf("(%d,%d) frame %d: R=%d G=%d B=%d value=0x%08x\n",
				x, y, obj.LastIndex(), px.R, px.G, px.B, px.Packed())
			return nil
		},
	}

	f.register(cmd)

	return cmd
}
