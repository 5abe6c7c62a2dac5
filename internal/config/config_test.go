package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LEAKWATCH_CONFIG", "APP_ENV", "LISTEN_ADDR", "LOG_LEVEL", "REPORT_SOURCE", "GEMINI_API_KEY", "API_KEY",
	"GEMINI_MODEL", "GEMINI_BASE_URL", "MIN_SCAN_DURATION", "ACQUIRE_TIMEOUT", "SCAN_WORKERS", "SCAN_QUEUE_SIZE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWarnOnMissingKey(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 3*time.Second, cfg.MinScanDuration)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("MIN_SCAN_DURATION", "250ms")
	t.Setenv("SCAN_WORKERS", "5")
	t.Setenv("ACQUIRE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.MinScanDuration)
	assert.Equal(t, 5, cfg.ScanWorkers)
	assert.Zero(t, cfg.AcquireTimeout)

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.GeminiAPIKey)
}

func TestLoadStubNeedsNoKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORT_SOURCE", "stub")
	_, err := Load()
	assert.NoError(t, err)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORT_SOURCE", "openai")
	_, err := Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "leakwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7000"
report_source: stub
min_scan_duration: 1500ms
scan_workers: 3
gemini_model: gemini-custom
`), 0o600))
	t.Setenv("LEAKWATCH_CONFIG", path)
	t.Setenv("SCAN_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "stub", cfg.ReportSource)
	assert.Equal(t, 1500*time.Millisecond, cfg.MinScanDuration)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, "gemini-custom", cfg.GeminiModel)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEAKWATCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
