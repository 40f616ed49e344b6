package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/partab/format"
)

var errInvalidConfig = errors.New("invalid config")

// Config is the on-disk CLI configuration.
type Config struct {
	LogLevel    string `yaml:"log_level"`
	Compression string `yaml:"compression"`
	Seed        uint64 `yaml:"seed"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		Compression: "none",
		Seed:        1,
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
// Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %w", errInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the log level and compression names are known.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := parseCompression(c.Compression); err != nil {
		return err
	}

	return nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", errInvalidConfig, name)
	}

	return level, nil
}

func parseCompression(name string) (format.CompressionType, error) {
	comp, ok := format.ParseCompression(name)
	if !ok {
		return 0, fmt.Errorf("%w: compression %q (want none, zstd, s2 or lz4)", errInvalidConfig, name)
	}

	return comp, nil
}
