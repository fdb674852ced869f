package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simulator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATSURL)
	assert.Equal(t, time.Second, cfg.TickInterval())
	assert.Equal(t, 0.01, cfg.VehicleSpeed)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.NetworkFile)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
nats_url: nats://broker:4222
tick_interval_ms: 250
vehicle_speed: 0.05
metrics_addr: ":9102"
network_file: networks/night-tube.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 0.05, cfg.VehicleSpeed)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, "networks/night-tube.yaml", cfg.NetworkFile)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
nats_url: nats://broker:4222
tick_interval_ms: 250
`)
	t.Setenv("NATS_URL", "nats://other:4222")
	t.Setenv("VEHICLE_SPEED", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://other:4222", cfg.NATSURL)
	assert.Equal(t, 250, cfg.TickIntervalMS)
	assert.Equal(t, 0.2, cfg.VehicleSpeed)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero speed", "vehicle_speed: 0\n"},
		{"speed above full route per second", "vehicle_speed: 2\n"},
		{"tick below floor", "tick_interval_ms: 10\n"},
		{"bad metrics addr", "metrics_addr: not-an-addr\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "TICK_INTERVAL_MS")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
