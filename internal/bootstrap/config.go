package bootstrap

import (
	"fmt"

	"c2_console/internal/config"
)

// Config is an alias for the project's main configuration struct
type Config = config.Config

// LoadConfig delegates to the project's config loader
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := checkPreFlight(cfg); err != nil {
		return nil, fmt.Errorf("pre-flight checks failed: %w", err)
	}

	return cfg, nil
}

// checkPreFlight performs environment checks beyond schema validation
func checkPreFlight(cfg *Config) error {
	// Binding below 1024 needs elevated privileges; refuse early instead
	// of failing when the listener starts.
	if cfg.Telemetry.EnableMetrics && cfg.Telemetry.MetricsPort < 1024 {
		return fmt.Errorf("telemetry.metrics_port %d is privileged, use 1024 or above", cfg.Telemetry.MetricsPort)
	}

	return nil
}
