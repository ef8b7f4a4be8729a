package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("TUTOR_ADDR", "")
	t.Setenv("TUTOR_WEB_DIR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8100", cfg.Addr)
	assert.Equal(t, "web", cfg.WebDir)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.ImageModel)
	assert.Equal(t, Duration(60*time.Second), cfg.Gemini.Timeout)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
web_dir: static
gemini:
  api_key: file-key
  model: gemini-2.5-pro
  timeout: 30s
`)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "static", cfg.WebDir)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, Duration(30*time.Second), cfg.Gemini.Timeout)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.ImageModel, "unset fields keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key: file-key
  model: gemini-2.5-pro
`)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("TUTOR_ADDR", ":7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, ":7777", cfg.Addr)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "addr: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}
