package modeltx

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings shared by the CLI and the
// server. Flags override these where both exist.
type Config struct {
	LogLevel   string `env:"MODELTX_LOG_LEVEL" envDefault:"warn"`
	ModelPath  string `env:"MODELTX_MODEL_PATH"`
	ServerName string `env:"MODELTX_SERVER_NAME" envDefault:"modeltx"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}
