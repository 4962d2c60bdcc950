package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	AppName    string `env:"APP_NAME" envDefault:"Admin Shell" validate:"required"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`

	// Backend the dashboard talks to. Empty disables the API client.
	APIURL     string        `env:"API_URL" validate:"omitempty,url"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	LoginRateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"30" validate:"min=1,max=10000"`
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"5" validate:"min=1,max=1000"`
}

// Load reads an optional .env file, then parses and validates the environment.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		// Existing environment variables win over the file.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
