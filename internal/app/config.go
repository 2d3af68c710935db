// Package app holds configuration and logging shared by the binaries.
package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	// APIBaseURL points at the remote banking API, including the /api prefix.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`

	// HTTPTimeout bounds every remote call. Zero keeps the transport default.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// NoticeTTL is how long success/error messages stay on screen.
	NoticeTTL time.Duration `envconfig:"NOTICE_TTL" default:"3s"`

	// RecentLimit caps the overview's recent-transaction list.
	RecentLimit int `envconfig:"RECENT_TRANSACTIONS" default:"5"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	return &cfg, nil
}
