package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Thresholds Thresholds `toml:"thresholds"`
	Exclude    Exclude    `toml:"exclude"`
	Inline     Inline     `toml:"inline"`
	Cache      Cache      `toml:"cache"`
	History    History    `toml:"history"`
	Watch      Watch      `toml:"watch"`
	Metrics    Metrics    `toml:"metrics"`
	Tracing    Tracing    `toml:"tracing"`
}

type Thresholds struct {
	GlobalAttrCache int `toml:"global_attr_cache"`
	LocalAttrCache  int `toml:"local_attr_cache"`
	LocalGlobal     int `toml:"local_global_cache"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Inline struct {
	// Function names never reported as inline candidates.
	NotInlineable []string `toml:"not_inlineable"`
}

type Cache struct {
	Path string `toml:"path"`
}

type History struct {
	Path string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Tracing struct {
	// OTLP/gRPC collector endpoint. Empty disables span export.
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			GlobalAttrCache: 3,
			LocalAttrCache:  4,
			LocalGlobal:     5,
		},
		Exclude: Exclude{
			Dirs: []string{".git", "__pycache__", ".venv"},
		},
		Cache: Cache{Path: ".pyshrink_cache.json"},
		Watch: Watch{Debounce: 500 * time.Millisecond},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	return cfg, nil
}
