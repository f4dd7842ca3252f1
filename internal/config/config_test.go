package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sec-js/attack-flow/internal/attack"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, attack.DefaultURLs, cfg.Attack.URLs)
	assert.Equal(t, 60*time.Second, cfg.Attack.Timeout)
	assert.Equal(t, "templates", cfg.Templates.Dir)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flowbuilder.yaml"), []byte(`
log:
  level: debug
attack:
  urls: [https://example.com/a.json]
  timeout: 5s
templates:
  dir: ./tpl
theme:
  file: dark.yaml
`), 0o644))
	t.Setenv("FLOWBUILDER_LOG_DEVELOPMENT", "true")
	t.Setenv("FLOWBUILDER_ATTACK_OUTPUT", "out/catalog.json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, []string{"https://example.com/a.json"}, cfg.Attack.URLs)
	assert.Equal(t, 5*time.Second, cfg.Attack.Timeout)
	assert.Equal(t, "out/catalog.json", cfg.Attack.Output)
	assert.Equal(t, "./tpl", cfg.Templates.Dir)
	assert.Equal(t, "dark.yaml", cfg.Theme.File)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"negative timeout", "attack:\n  timeout: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flowbuilder.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
