// Package config loads and validates the frame viewer configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// CacheConfig holds the shared frame cache settings.
type CacheConfig struct {
	// CapacityMB is the total cost budget. With the default rounding one unit is one megabyte.
	CapacityMB   int64  `yaml:"capacity_mb"`
	Shards       int    `yaml:"shards"`
	Eviction     string `yaml:"eviction"`
	CostRounding string `yaml:"cost_rounding"`
}

// FrameConfig holds defaults applied to every opened source.
type FrameConfig struct {
	Invalidation    string `yaml:"invalidation"`
	ColorConversion string `yaml:"color_conversion"`
	Interpolation   string `yaml:"interpolation"`
}

// ServerConfig holds HTTP viewer settings.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the central configuration struct embedding all component configs.
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Frame  FrameConfig  `yaml:"frame"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			CapacityMB:   100,
			Shards:       1,
			Eviction:     "lru",
			CostRounding: "truncate",
		},
		Frame: FrameConfig{
			Invalidation:    "scoped",
			ColorConversion: "bt601",
			Interpolation:   "nearest",
		},
		Server: ServerConfig{
			Addr:             ":8080",
			MetricsNamespace: "yuvview",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("YUVVIEW_CACHE_CAPACITY_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Cache.CapacityMB = n
		}
	}
	if v := os.Getenv("YUVVIEW_CACHE_SHARDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Shards = n
		}
	}
	if v := os.Getenv("YUVVIEW_CACHE_EVICTION"); v != "" {
		cfg.Cache.Eviction = v
	}
	if v := os.Getenv("YUVVIEW_CACHE_COST_ROUNDING"); v != "" {
		cfg.Cache.CostRounding = v
	}
	if v := os.Getenv("YUVVIEW_INVALIDATION"); v != "" {
		cfg.Frame.Invalidation = v
	}
	if v := os.Getenv("YUVVIEW_COLOR_CONVERSION"); v != "" {
		cfg.Frame.ColorConversion = v
	}
	if v := os.Getenv("YUVVIEW_INTERPOLATION"); v != "" {
		cfg.Frame.Interpolation = v
	}
	if v := os.Getenv("YUVVIEW_HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("YUVVIEW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CapacityMB, validation.Min(int64(0))),
		validation.Field(&c.Shards, validation.Required, validation.Min(1)),
		validation.Field(&c.Eviction, validation.Required, validation.In("lru", "lfu", "fifo")),
		validation.Field(&c.CostRounding, validation.In("truncate", "ceil")),
	)
}

func (c FrameConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Invalidation, validation.Required, validation.In("scoped", "global")),
		validation.Field(&c.ColorConversion, validation.In("bt601", "bt709")),
		validation.Field(&c.Interpolation, validation.In("nearest", "bilinear")),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cache),
		validation.Field(&c.Frame),
		validation.Field(&c.Server),
		validation.Field(&c.Log),
	)
}
