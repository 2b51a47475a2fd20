package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "info", settings.LogLevel)
	assert.InDelta(t, 0.095, settings.AffordabilityPercent, 1e-9)
	assert.Equal(t, runtime.NumCPU(), settings.WorkerCount)
	assert.Equal(t, 50, settings.DebounceMS)
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	t.Setenv("ICHRA_LOG_LEVEL", "debug")
	t.Setenv("ICHRA_WORKER_COUNT", "3")
	t.Setenv("ICHRA_DEBOUNCE_MS", "100")

	settings, err := LoadSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 3, settings.WorkerCount)
	assert.Equal(t, 100, settings.DebounceMS)
	assert.InDelta(t, 0.095, settings.AffordabilityPercent, 1e-9, "untouched keys keep defaults")
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\naffordability_percent: 0.0912\n"), 0o644))
	t.Setenv("ICHRA_CONFIG", path)

	settings, err := LoadSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "warn", settings.LogLevel)
	assert.InDelta(t, 0.0912, settings.AffordabilityPercent, 1e-9)
}

func TestLoadSettingsEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))
	t.Setenv("ICHRA_CONFIG", path)
	t.Setenv("ICHRA_LOG_LEVEL", "error")

	settings, err := LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "error", settings.LogLevel)
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "percent above one", key: "ICHRA_AFFORDABILITY_PERCENT", value: "9.5"},
		{name: "percent zero", key: "ICHRA_AFFORDABILITY_PERCENT", value: "0"},
		{name: "negative debounce", key: "ICHRA_DEBOUNCE_MS", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadSettings(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLoadSettingsMissingConfigFile(t *testing.T) {
	t.Setenv("ICHRA_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadSettings(context.Background())
	assert.Error(t, err)
}
