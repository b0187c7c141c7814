package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"design-exporter/internal/exporter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3003", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.Inference.Model)
	assert.Equal(t, "gpt-4o", cfg.Codegen.Model)
	assert.InDelta(t, 0.2, cfg.Codegen.Temperature, 1e-9)
	assert.Equal(t, 2, cfg.Capture.Supersample)
	assert.Equal(t, time.Hour, cfg.Runs.Retention)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EXPORTER_CODEGEN_MODEL", "gpt-4.1")
	t.Setenv("EXPORTER_CAPTURE_SUPERSAMPLE", "1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gpt-4.1", cfg.Codegen.Model)
	assert.Equal(t, 2, cfg.Capture.Supersample, "supersampling never drops below 2x")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/x.db\nlog:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3003", cfg.Port)
}

func TestCredential(t *testing.T) {
	t.Setenv(GeminiAPIKey, "")
	_, err := Credential(GeminiAPIKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingCredential))

	t.Setenv(GeminiAPIKey, "  key-123 ")
	key, err := Credential(GeminiAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "key-123", key)
}
