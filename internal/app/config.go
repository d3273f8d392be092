package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Scheduler overrides. Nil means the value from the configuration file,
	// or the scheduler's default when the file does not set it either.
	Threads        *int
	MaxGroups      *int
	StartProcessor *int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.Threads != nil && *cfg.Threads <= 0 {
		return nil, fmt.Errorf("threads must be positive, got %d", *cfg.Threads)
	}
	if cfg.MaxGroups != nil && *cfg.MaxGroups <= 0 {
		return nil, fmt.Errorf("max-groups must be positive, got %d", *cfg.MaxGroups)
	}
	return &cfg, nil
}
