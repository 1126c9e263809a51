package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
collective2:
  api_key: "test-key"
  strategy_id: 153075915
quotes:
  provider: "mock"
system:
  log_level: "ERROR"
`

func TestNewApp_WiresFullGraph(t *testing.T) {
	app, err := NewApp(writeConfig(t, validConfig))
	require.NoError(t, err)
	defer app.Shutdown()

	require.NotNil(t, app.Session)
	require.NotNil(t, app.Gateway)
	assert.Equal(t, int64(153075915), app.Session.StrategyID())
	assert.NoError(t, app.RequireStrategy())
}

func TestNewApp_MissingConfigFile(t *testing.T) {
	_, err := NewApp(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRequireStrategy_UnsetID(t *testing.T) {
	app, err := NewApp(writeConfig(t, `
collective2:
  api_key: "test-key"
  strategy_id: 0
quotes:
  provider: "mock"
system:
  log_level: "ERROR"
`))
	require.NoError(t, err)
	defer app.Shutdown()

	assert.ErrorContains(t, app.RequireStrategy(), "discover")
}

func TestCheckPreFlight_PrivilegedMetricsPort(t *testing.T) {
	_, err := NewApp(writeConfig(t, `
collective2:
  api_key: "test-key"
  strategy_id: 1
quotes:
  provider: "mock"
system:
  log_level: "ERROR"
telemetry:
  metrics_port: 80
  enable_metrics: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "privileged")
}
