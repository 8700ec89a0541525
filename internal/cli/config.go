package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/treescope/treescope/pkg/pipeline"
)

// Config holds user preferences read from the config file. Every field is
// optional; zero values leave the pipeline defaults untouched.
type Config struct {
	YScale         float64 `toml:"y_scale"`
	ViewportHeight float64 `toml:"viewport_height"`
	Padding        float64 `toml:"padding"`
	TextSize       float64 `toml:"text_size"`
	Labels         bool    `toml:"labels"`
	Format         string  `toml:"format"`
	RedisAddr      string  `toml:"redis_addr"`
}

// configPath returns the config file location using XDG standard
// (~/.config/treescope/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file. A missing file is not an error; the
// zero Config is returned.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyTo overrides pipeline options with the config file's preferences.
// Only explicitly set (non-zero) values are applied.
func (cfg Config) applyTo(opts *pipeline.Options) {
	if cfg.YScale != 0 {
		opts.YScale = cfg.YScale
	}
	if cfg.ViewportHeight != 0 {
		opts.ViewportHeight = cfg.ViewportHeight
	}
	if cfg.Padding != 0 {
		opts.Padding = cfg.Padding
	}
	if cfg.TextSize != 0 {
		opts.TextSize = cfg.TextSize
	}
	if cfg.Labels {
		opts.Labels = true
	}
	if cfg.Format != "" {
		opts.Formats = parseFormats(cfg.Format)
	}
}
