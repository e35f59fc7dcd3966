package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/metrics"
	"github.com/krisalay/yuv-frame-cache/server"
	"github.com/krisalay/yuv-frame-cache/session"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		listenAddr string
		preload    []string
	)

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Run the HTTP frame viewer",
		Long:  "Serve decoded frames and pixel probes over HTTP, sharing one frame cache across all open clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.Server.Addr = listenAddr
			}

			m := metrics.NewPrometheus(cfg.Server.MetricsNamespace)
			sess, err := session.New(cfg, m)
			if err != nil {
				return err
			}
			defer sess.CloseAll()
			m.Observe(sess.Cache())

			for _, path := range append(preload, args...) {
				if _, _, err := sess.Open(path); err != nil {
					return err
				}
			}

			app := server.New(sess, m.Handler())

			errCh := make(chan error, 1)
			go func() {
				logging.Op().Info("frame viewer started",
					"addr", cfg.Server.Addr,
					"capacity_mb", cfg.Cache.CapacityMB,
					"eviction", cfg.Cache.Eviction,
					"invalidation", cfg.Frame.Invalidation)
				if err := app.Listen(cfg.Server.Addr); err != nil {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				logging.Op().Info("shutdown signal received", "signal", sig.String())
				if err := app.Shutdown(); err != nil {
					return fmt.Errorf("shutdown viewer: %w", err)
				}
				return nil
			case err := <-errCh:
				return fmt.Errorf("viewer server error: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")
	cmd.Flags().StringSliceVar(&preload, "open", nil, "Clips to open at startup")

	return cmd
}
