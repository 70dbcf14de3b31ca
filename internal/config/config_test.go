package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"GITHUB_TOKEN", "TESTDOC_GITHUB_TOKEN", "TESTDOC_WORKBOOK", "TESTDOC_TIMEZONE", "TESTDOC_ADDR"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
workbook: results/tracker.xlsx
timezone: UTC
server:
  addr: ":9090"
remote:
  enabled: true
  owner: acme
  repo: qa
  path: data/tracker.xlsx
  conflict: retry
  max_attempts: 5
  timeout: 10s
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "results/tracker.xlsx", cfg.Workbook)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, int64(32), cfg.Server.MaxUploadMB)
	assert.Equal(t, "main", cfg.Remote.Branch)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	opts := cfg.Options()
	assert.Equal(t, testdoc.ConflictRetry, opts.Conflict)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, "UTC", opts.Location.String())
	assert.NotNil(t, cfg.RemoteClient())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-github")
	t.Setenv("TESTDOC_GITHUB_TOKEN", "from-testdoc")
	t.Setenv("TESTDOC_WORKBOOK", "/tmp/wb.xlsx")
	t.Setenv("TESTDOC_TIMEZONE", "Europe/Berlin")
	t.Setenv("TESTDOC_ADDR", "127.0.0.1:7000")

	cfg, err := LoadConfig(writeConfig(t, "remote:\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-testdoc", cfg.Remote.Token)
	assert.Equal(t, "/tmp/wb.xlsx", cfg.Workbook)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad conflict", func(c *Config) { c.Remote.Conflict = "merge" }, "unknown policy"},
		{"bad attempts", func(c *Config) { c.Remote.MaxAttempts = 0 }, "max_attempts"},
		{"bad zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }, "timezone"},
		{"remote incomplete", func(c *Config) {
			c.Remote.Enabled = true
			c.Remote.Owner = "acme"
		}, "remote.path, remote.repo not set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "remote: [unterminated"))
	assert.Error(t, err)
}

func TestRemoteClientDisabled(t *testing.T) {
	assert.Nil(t, Default().RemoteClient())
}
