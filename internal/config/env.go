package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envOverrides holds credential settings taken from the environment. These
// take precedence over the YAML file so keys never have to live on disk.
type envOverrides struct {
	APIKey     string `envconfig:"API_KEY"`
	StrategyID int64  `envconfig:"STRATEGY_ID"`
	BaseURL    string `envconfig:"BASE_URL"`
}

// ApplyEnvOverrides loads a .env file if one is present and overlays
// C2_API_KEY, C2_STRATEGY_ID and C2_BASE_URL onto the configuration.
func (c *Config) ApplyEnvOverrides() error {
	// A missing .env file is fine; the variables may be set directly.
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process("c2", &env); err != nil {
		return fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if env.APIKey != "" {
		c.Collective2.APIKey = Secret(env.APIKey)
	}
	if env.StrategyID != 0 {
		c.Collective2.StrategyID = env.StrategyID
	}
	if env.BaseURL != "" {
		c.Collective2.BaseURL = env.BaseURL
	}

	return nil
}
