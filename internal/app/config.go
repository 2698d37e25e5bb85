package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/workspace"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// CacheSize bounds the number of cached manifest analyses.
	CacheSize      int    `validate:"min=1"`
	CredentialsDir string `validate:"required"`
	// DotenvFiles overlay the process environment for env credentials.
	DotenvFiles []string `validate:"dive,required"`
	// EventsURL, when set, forwards debug events to a socket.io server.
	EventsURL string `validate:"omitempty,url"`
}

var configValidate = validator.New()

// NewConfig fills defaults for unset fields and validates the result.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = workspace.DefaultCacheSize
	}
	if cfg.CredentialsDir == "" {
		cfg.CredentialsDir = credentials.DefaultDir()
	}
	if cfg.DotenvFiles == nil {
		cfg.DotenvFiles = []string{".env"}
	}

	if err := configValidate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
