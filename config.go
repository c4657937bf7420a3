package store

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-statestore/pkg/activity"
)

// Config is the static store configuration.
type Config struct {
	// DevelopmentMode guards state writes when the build carries no mode hint
	// or when a development build runs under tests.
	DevelopmentMode bool `env:"STATESTORE_DEVELOPMENT_MODE" envDefault:"false"`
	Activity        activity.Config
}

// LoadConfigFromEnv reads the configuration from the process environment.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseConfig reads the configuration from the supplied variables only.
func ParseConfig(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
