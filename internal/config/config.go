// Package config loads optional user defaults for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds user-tunable defaults. Command-line flags override every
// field.
type Config struct {
	Limit                  int    `yaml:"limit"`
	IncludeRemoteBookmarks bool   `yaml:"include_remote_bookmarks"`
	Watch                  bool   `yaml:"watch"`
	Listen                 string `yaml:"listen"`
}

func Default() Config {
	return Config{
		Limit:                  200,
		IncludeRemoteBookmarks: true,
		Listen:                 "127.0.0.1:7333",
	}
}

// Load reads ~/.config/hunk-go/config.yaml. A missing file yields the
// defaults, not an error.
func Load() (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Default(), fmt.Errorf("resolve home directory: %w", err)
	}
	return LoadFile(filepath.Join(homeDir, ".config", "hunk-go", "config.yaml"))
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.Limit < 1 {
		return Default(), fmt.Errorf("%w: limit must be at least 1", ErrInvalidConfig)
	}
	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}
	return cfg, nil
}
