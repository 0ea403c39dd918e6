// Package config loads the robo CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when a parsed value is out of range
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the CLI settings. Command-line flags override these values.
type Config struct {
	LogLevel    string        `env:"ROBO_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string        `env:"ROBO_LOG_FORMAT" envDefault:"text"`
	Strict      bool          `env:"ROBO_STRICT" envDefault:"false"`
	TaskTimeout time.Duration `env:"ROBO_TASK_TIMEOUT" envDefault:"5s"`
}

// Load reads the given .env files, or ./.env when none are given, then
// parses the environment. A missing default .env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("%w: task timeout must be positive, got %s", ErrInvalidConfig, c.TaskTimeout)
	}
	return nil
}

// Level returns the slog level of LogLevel, Warn when it is invalid.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

// ParseLevel converts debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return l, nil
}
