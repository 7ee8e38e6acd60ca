// Package config holds the zbench run configuration.
//
// A configuration file is YAML. Every field is optional; missing fields
// keep their default:
//
//	min_duration: 2s
//	max_iterations: 500
//	engines: [zlib-go, zlib-klauspost]
//	parallelism: 1
//	log_level: info
//	log_format: text
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/errs"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the run configuration shared by every command.
type Config struct {
	// MinDuration is the wall-clock floor of each timed loop.
	MinDuration time.Duration `yaml:"min_duration"`
	// MaxIterations bounds the timed calls of each configuration.
	MaxIterations int `yaml:"max_iterations"`
	// Engines restricts the sweep to these display names. Empty means all.
	Engines []string `yaml:"engines"`
	// Parallelism is the number of configurations measured at once.
	Parallelism int `yaml:"parallelism"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MinDuration:   bench.DefaultMinDuration,
		MaxIterations: bench.DefaultMaxIterations,
		Parallelism:   1,
		LogLevel:      "warn",
		LogFormat:     FormatText,
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", errs.ErrInvalidOption, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %w", errs.ErrInvalidOption, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field. All errors wrap errs.ErrConfiguration.
func (c Config) Validate() error {
	var problems []error

	if c.MinDuration <= 0 {
		problems = append(problems, fmt.Errorf("min_duration must be positive, got %s", c.MinDuration))
	}
	if c.MaxIterations < 1 {
		problems = append(problems, fmt.Errorf("max_iterations must be at least 1, got %d", c.MaxIterations))
	}
	if c.Parallelism < 1 {
		problems = append(problems, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err)
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		problems = append(problems, fmt.Errorf("log_format must be %q or %q, got %q", FormatText, FormatJSON, c.LogFormat))
	}

	seen := make(map[string]struct{}, len(c.Engines))
	for _, name := range c.Engines {
		if name == "" {
			problems = append(problems, errors.New("engines contains an empty name"))
			continue
		}
		if _, dup := seen[name]; dup {
			problems = append(problems, fmt.Errorf("engines lists %q twice", name))
		}
		seen[name] = struct{}{}
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", errs.ErrInvalidOption, errors.Join(problems...))
}

// RunnerOptions returns the bench options implied by c.
func (c Config) RunnerOptions() []bench.RunnerOption {
	return []bench.RunnerOption{
		bench.WithMinDuration(c.MinDuration),
		bench.WithMaxIterations(c.MaxIterations),
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", name)
	}
}

// NewLogger builds the logger described by c, writing to w.
//
// c is expected to be valid; an unknown level falls back to warn.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
