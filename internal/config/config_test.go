package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so a developer's .env does not
// leak into the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, "INNKEEP_API_BASE", "INNKEEP_SESSION_FILE", "INNKEEP_REQUEST_TIMEOUT",
		"INNKEEP_LOG_FILE", "LOG_LEVEL", "LOG_FORMAT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9080", cfg.APIBase)
	assert.Equal(t, filepath.Join(home, ".config", "innkeep", "session.toml"), cfg.SessionFile)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.LogFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("INNKEEP_API_BASE", "https://api.example.com/")
	t.Setenv("INNKEEP_SESSION_FILE", "/tmp/innkeep/session.toml")
	t.Setenv("INNKEEP_REQUEST_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBase, "trailing slash trimmed")
	assert.Equal(t, "/tmp/innkeep/session.toml", cfg.SessionFile)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	unsetEnv(t, "INNKEEP_API_BASE")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INNKEEP_API_BASE=http://10.0.0.5:9080\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9080", cfg.APIBase)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad scheme", "INNKEEP_API_BASE", "ftp://example.com", "INNKEEP_API_BASE must use http or https"},
		{"no host", "INNKEEP_API_BASE", "http://", "INNKEEP_API_BASE must include a host"},
		{"zero timeout", "INNKEEP_REQUEST_TIMEOUT", "0s", "INNKEEP_REQUEST_TIMEOUT must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/.config/innkeep/session.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/innkeep/session.toml"), got)

	_, err = ExpandPath("  ")
	assert.Error(t, err)
}
