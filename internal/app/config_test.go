package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(f, []byte(body), 0644))
	return f
}

func TestLoadConfig_DefaultsAndExplicitFalse(t *testing.T) {
	f := writeConfig(t, `
server:
  http-port: ":9200"
mcp:
  enabled: false
limiter:
  rules:
    - key: /api/statuses
    - key: ""
`)
	cfg, path, err := LoadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, f, path)

	assert.Equal(t, ":9200", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/mcp", cfg.MCP.Path)
	assert.False(t, cfg.MCP.Enabled)
	assert.True(t, cfg.Feed.Enabled)
	assert.True(t, cfg.IsDefaultAuthTokenKey())

	rules := cfg.GetLimiterRules()
	require.Len(t, rules, 1)
	assert.Equal(t, "/api/statuses", rules[0].Key)
	assert.Equal(t, time.Second, rules[0].FillInterval)
	assert.Equal(t, int64(10), rules[0].Capacity)
	assert.Equal(t, int64(10), rules[0].Quantum)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LOCKET_AUTH_TOKEN_KEY", "from-env")
	t.Setenv("LOCKET_DATABASE_TYPE", "postgres")
	t.Setenv("LOCKET_HTTP_PORT", ":9300")

	cfg, _, err := LoadConfig(writeConfig(t, "security:\n  auth-token-key: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Security.AuthTokenKey)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, ":9300", cfg.Server.HttpPort)
	assert.False(t, cfg.IsDefaultAuthTokenKey())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file failed")

	_, _, err = LoadConfig(writeConfig(t, "server: [oops"))
	assert.ErrorContains(t, err, "parse config file failed")
}

func TestAppConfig_Save(t *testing.T) {
	f := writeConfig(t, "log:\n  level: debug\n")
	cfg, _, err := LoadConfig(f)
	require.NoError(t, err)

	cfg.Fetcher.Timeout = "3s"
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(f)
	require.NoError(t, err)
	var saved AppConfig
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "3s", saved.Fetcher.Timeout)
	assert.Equal(t, "debug", saved.Log.Level)
}

func TestAppConfig_Getters(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, `
fetcher:
  timeout: nonsense
app:
  token-retention: 7d
  write-queue-timeout: 5s
security:
  token-expiry: 24h
`))
	require.NoError(t, err)

	svc := cfg.GetServiceConfig()
	assert.Equal(t, 10*time.Second, svc.Fetcher.Timeout)
	assert.Equal(t, 7*24*time.Hour, svc.Token.Retention)
	assert.Equal(t, 5*time.Second, cfg.GetWriteQueueConfig().WriteTimeout)
	assert.Equal(t, 24*time.Hour, cfg.GetTokenConfig().Expiry)
	assert.Equal(t, 30*time.Second, cfg.GetContextTimeout())

	feed := cfg.GetFeedConfig()
	assert.Equal(t, 25*time.Second, feed.PingInterval)
	assert.Equal(t, 37500*time.Millisecond, feed.PingWait)
}
