// Package config handles configuration management with validation
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure
type Config struct {
	Collective2 Collective2Config `yaml:"collective2"`
	Quotes      QuotesConfig      `yaml:"quotes"`
	Orders      OrdersConfig      `yaml:"orders"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Valuation   ValuationConfig   `yaml:"valuation"`
	System      SystemConfig      `yaml:"system"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// Collective2Config contains platform API settings
type Collective2Config struct {
	APIKey     Secret `yaml:"api_key"`
	StrategyID int64  `yaml:"strategy_id"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// QuotesConfig contains market data settings
type QuotesConfig struct {
	Provider       string `yaml:"provider"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	StaleTTLSec    int    `yaml:"stale_ttl_sec"`
	FallbackChains bool   `yaml:"fallback_chains"`
}

// OrdersConfig contains order submission settings
type OrdersConfig struct {
	SubmitRatePerMin    int  `yaml:"submit_rate_per_min"`
	AssumeAtomicReplace bool `yaml:"assume_atomic_replace"`
}

// MonitorConfig contains the periodic position monitor settings
type MonitorConfig struct {
	IntervalSec  int    `yaml:"interval_sec"`
	SecurityType string `yaml:"security_type"`
}

// ValuationConfig contains quote fan-out settings
type ValuationConfig struct {
	PoolSize   int `yaml:"pool_size"`
	PoolBuffer int `yaml:"pool_buffer"`
}

// SystemConfig contains system settings
type SystemConfig struct {
	LogLevel string `yaml:"log_level" validate:"required,oneof=DEBUG INFO WARN ERROR FATAL"`
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	MetricsPort   int  `yaml:"metrics_port"`
	EnableMetrics bool `yaml:"enable_metrics"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfig loads configuration from a YAML file with environment variable
// expansion, then applies environment overrides for credentials.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	var errs []string

	if err := c.validateCollective2(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.validateQuotes(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.validateOrders(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.validateMonitor(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.validateSystem(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

func (c *Config) validateCollective2() error {
	if c.Collective2.APIKey == "" {
		return ValidationError{
			Field:   "collective2.api_key",
			Message: "API key is required (set C2_API_KEY or collective2.api_key)",
		}
	}
	// Zero means unset; the discover command runs without one, everything
	// else checks for it at startup.
	if c.Collective2.StrategyID < 0 {
		return ValidationError{
			Field:   "collective2.strategy_id",
			Value:   c.Collective2.StrategyID,
			Message: "strategy id must be positive (set C2_STRATEGY_ID or collective2.strategy_id)",
		}
	}
	if !strings.HasPrefix(c.Collective2.BaseURL, "http") {
		return ValidationError{
			Field:   "collective2.base_url",
			Value:   c.Collective2.BaseURL,
			Message: "must be an http(s) URL",
		}
	}
	return nil
}

func (c *Config) validateQuotes() error {
	validProviders := []string{"yahoo", "mock"}
	if !contains(validProviders, c.Quotes.Provider) {
		return ValidationError{
			Field:   "quotes.provider",
			Value:   c.Quotes.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validProviders, ", ")),
		}
	}
	return nil
}

func (c *Config) validateOrders() error {
	if c.Orders.SubmitRatePerMin < 1 || c.Orders.SubmitRatePerMin > 600 {
		return ValidationError{
			Field:   "orders.submit_rate_per_min",
			Value:   c.Orders.SubmitRatePerMin,
			Message: "must be between 1 and 600",
		}
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.IntervalSec < 5 || c.Monitor.IntervalSec > 3600 {
		return ValidationError{
			Field:   "monitor.interval_sec",
			Value:   c.Monitor.IntervalSec,
			Message: "must be between 5 and 3600 seconds",
		}
	}
	if c.Monitor.SecurityType != "" && !contains([]string{"CS", "OPT", "FUT", "FOR"}, c.Monitor.SecurityType) {
		return ValidationError{
			Field:   "monitor.security_type",
			Value:   c.Monitor.SecurityType,
			Message: "must be one of: CS, OPT, FUT, FOR (or empty for all)",
		}
	}
	return nil
}

func (c *Config) validateSystem() error {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if !contains(validLevels, strings.ToUpper(c.System.LogLevel)) {
		return ValidationError{
			Field:   "system.log_level",
			Value:   c.System.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		}
	}
	return nil
}

// APITimeout returns the platform request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.Collective2.TimeoutSec) * time.Second
}

// QuoteTimeout returns the quote fetch timeout as a duration.
func (c *Config) QuoteTimeout() time.Duration {
	return time.Duration(c.Quotes.TimeoutSec) * time.Second
}

// StaleTTL returns how long a cached quote may serve as a fallback.
func (c *Config) StaleTTL() time.Duration {
	return time.Duration(c.Quotes.StaleTTLSec) * time.Second
}

// MonitorInterval returns the monitor refresh interval as a duration.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSec) * time.Second
}

// String returns a string representation of the configuration. The Secret
// type redacts the API key during marshaling.
func (c *Config) String() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}

// Helper functions

func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// DefaultConfig returns the configuration defaults applied before the YAML
// file and environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Collective2: Collective2Config{
			BaseURL:    "https://api4-general.collective2.com",
			TimeoutSec: 30,
		},
		Quotes: QuotesConfig{
			Provider:       "yahoo",
			TimeoutSec:     10,
			StaleTTLSec:    300,
			FallbackChains: true,
		},
		Orders: OrdersConfig{
			SubmitRatePerMin: 30,
		},
		Monitor: MonitorConfig{
			IntervalSec: 30,
		},
		Valuation: ValuationConfig{
			PoolSize:   8,
			PoolBuffer: 64,
		},
		System: SystemConfig{
			LogLevel: "INFO",
		},
		Telemetry: TelemetryConfig{
			MetricsPort: 9090,
		},
	}
}
