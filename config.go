package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Token       string `toml:"token" env:"CDN_PLS_TOKEN"`
	LogLevel    string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat   string `toml:"log_format" env:"LOG_FORMAT"`
	MetricsAddr string `toml:"metrics_addr" env:"METRICS_ADDR"`
}

// LoadConfig reads the optional TOML file at path and overlays values set in
// the environment. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := Config{
		LogLevel:  "info",
		LogFormat: "text",
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return &config, config.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("CDN_PLS_TOKEN environment variable not set")
	}
	return nil
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c *Config) Logger() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
