// Package chat orchestrates conversation turns against the recommendation
// backend: it owns the message log and session handle, stages attachments,
// and drives one request per submission through the transport.
package chat

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the client configuration.
type Config struct {
	// Base URL of the recommendation backend (e.g. "http://localhost:8000")
	ServerURL string `toml:"server_url" env:"STYLIST_SERVER_URL"`

	// TimeoutSeconds bounds one request round trip. Recommendation turns can
	// run retrieval and try-on rendering server-side, so the default is long.
	TimeoutSeconds int `toml:"timeout_seconds" env:"STYLIST_TIMEOUT_SECONDS"`

	// Debug enables debug logging.
	Debug bool `toml:"debug" env:"STYLIST_DEBUG"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		ServerURL:      "http://localhost:8000",
		TimeoutSeconds: 300,
	}
}

// LoadConfig builds the configuration from defaults, an optional TOML file,
// and environment overrides, in that order. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config environment: %w", err)
	}

	if cfg.ServerURL == "" {
		return Config{}, fmt.Errorf("server_url must not be empty")
	}
	if cfg.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds)
	}

	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
