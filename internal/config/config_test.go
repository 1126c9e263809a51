package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const validYAML = `
collective2:
  api_key: "test-key"
  strategy_id: 153075915
quotes:
  provider: yahoo
monitor:
  interval_sec: 30
system:
  log_level: INFO
`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Collective2.APIKey.Reveal() != "test-key" {
		t.Errorf("unexpected api key: %q", cfg.Collective2.APIKey.Reveal())
	}
	if cfg.Collective2.StrategyID != 153075915 {
		t.Errorf("unexpected strategy id: %d", cfg.Collective2.StrategyID)
	}
	// Defaults fill in what the file omits.
	if cfg.Collective2.BaseURL != "https://api4-general.collective2.com" {
		t.Errorf("default base url not applied: %q", cfg.Collective2.BaseURL)
	}
	if cfg.Orders.SubmitRatePerMin != 30 {
		t.Errorf("default submit rate not applied: %d", cfg.Orders.SubmitRatePerMin)
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_C2_KEY", "expanded-key")

	yaml := `
collective2:
  api_key: "${TEST_C2_KEY}"
  strategy_id: 1
`
	cfg, err := LoadConfig(writeTempConfig(t, yaml))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Collective2.APIKey.Reveal() != "expanded-key" {
		t.Errorf("env var not expanded: %q", cfg.Collective2.APIKey.Reveal())
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("C2_API_KEY", "env-key")
	t.Setenv("C2_STRATEGY_ID", "99")

	cfg, err := LoadConfig(writeTempConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Collective2.APIKey.Reveal() != "env-key" {
		t.Errorf("C2_API_KEY override not applied: %q", cfg.Collective2.APIKey.Reveal())
	}
	if cfg.Collective2.StrategyID != 99 {
		t.Errorf("C2_STRATEGY_ID override not applied: %d", cfg.Collective2.StrategyID)
	}
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	yaml := `
collective2:
  strategy_id: 1
`
	_, err := LoadConfig(writeTempConfig(t, yaml))
	if err == nil {
		t.Fatal("expected validation error for missing api key")
	}
	if !strings.Contains(err.Error(), "collective2.api_key") {
		t.Errorf("error should name the missing field: %v", err)
	}
}

func TestValidate_BadMonitorInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collective2.APIKey = "k"
	cfg.Collective2.StrategyID = 1
	cfg.Monitor.IntervalSec = 1

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for interval below minimum")
	}
}

func TestValidate_BadSecurityType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collective2.APIKey = "k"
	cfg.Collective2.StrategyID = 1
	cfg.Monitor.SecurityType = "BOND"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown security type")
	}
}

func TestConfigString_RedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collective2.APIKey = "super-secret-key"
	cfg.Collective2.StrategyID = 1

	s := cfg.String()
	if strings.Contains(s, "super-secret-key") {
		t.Error("config string leaked the API key")
	}
	if !strings.Contains(s, "[REDACTED]") {
		t.Error("config string should contain the redaction marker")
	}
}
