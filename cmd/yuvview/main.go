package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/krisalay/yuv-frame-cache/config"
	"github.com/krisalay/yuv-frame-cache/logging"
)

type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:           "yuvview",
		Short:         "Raw YUV frame viewer",
		Long:          "Inspect, export and serve frames of headerless raw YUV clips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Dotenv file with YUVVIEW_* overrides")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(infoCmd(&g))
	rootCmd.AddCommand(exportCmd(&g))
	rootCmd.AddCommand(pixelCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, the dotenv file and the
// environment, in that order, and applies the log level.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", g.envFile, err)
		}
	}

	cfg := config.DefaultConfig()
	if g.configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(g.configPath); err != nil {
			return nil, err
		}
	}
	config.LoadFromEnv(cfg)

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logging.SetLevelFromString(cfg.Log.Level)
	return cfg, nil
}
