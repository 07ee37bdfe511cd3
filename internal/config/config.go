// Package config loads client settings from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. NIHONGO_SERVER_URL.
const Prefix = "NIHONGO"

// Storage backends for the durable session.
const (
	StoreBolt   = "bolt"
	StoreSQLite = "sqlite"
)

// Config holds runtime configuration of the client.
type Config struct {
	ServerURL   string        `envconfig:"SERVER_URL" default:"http://localhost:8080/api" validate:"required,url"`
	DBPath      string        `envconfig:"DB_PATH" default:"nihongo-client.db" validate:"required"`
	Store       string        `envconfig:"STORE" default:"bolt" validate:"oneof=bolt sqlite"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"warn" validate:"oneof=debug info warn error"`
	LogFormat   string        `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment after applying the given .env files. Missing files are
// skipped; variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	c.Store = strings.ToLower(c.Store)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
}

// Validate checks the values after flags have been applied.
func (c *Config) Validate() error {
	c.normalize()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %q (value %v)", verrs[0].Field(), verrs[0].Tag(), verrs[0].Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds the client logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
