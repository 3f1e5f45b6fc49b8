package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
backend:
  base_url: https://api.passpay.test
  timeout: 5s
session:
  secret: file-secret
  ttl: 2h
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.passpay.test", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "passpay_sid", cfg.Session.CookieName)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 5, cfg.Backend.BreakerFailures)
	assert.Equal(t, "/health/metrics", cfg.Monitoring.MetricsPath)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://api.passpay.test
session:
  secret: file-secret
`)
	t.Setenv("PASSPAY_BACKEND_BASE_URL", "https://staging.passpay.test")
	t.Setenv("PASSPAY_SESSION_SECRET", "env-secret")
	t.Setenv("PASSPAY_SESSION_COOKIE_SECURE", "true")
	t.Setenv("PASSPAY_RATE_LIMIT_LOGIN_BURST", "9")
	t.Setenv("PASSPAY_SERVER_READ_TIMEOUT", "3s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.passpay.test", cfg.Backend.BaseURL)
	assert.Equal(t, "env-secret", cfg.Session.Secret)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 9, cfg.RateLimit.LoginBurst)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "backend:\n  base_url: https://x.test\n"},
		{"bad base url", "backend:\n  base_url: x.test\nsession:\n  secret: s\n"},
		{"redis without url", "backend:\n  base_url: https://x.test\nsession:\n  secret: s\n  store: redis\n"},
		{"unknown store", "backend:\n  base_url: https://x.test\nsession:\n  secret: s\n  store: disk\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
