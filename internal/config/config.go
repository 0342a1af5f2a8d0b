package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	SlackToken    string        `env:"SLACK_BOT_TOKEN"`
	StorePath     string        `env:"STORE_PATH" default:"good_names.json"`
	BindingsPath  string        `env:"BINDINGS_PATH" default:"bindings.yaml"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" default:"1s"`
	CurrentSeason string        `env:"CURRENT_SEASON" default:"11"`
	LogLevel      string        `env:"LOG_LEVEL" default:"info"`
	LogFormat     string        `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SlackToken == "" {
		return errors.New("SLACK_BOT_TOKEN is required")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	return nil
}
