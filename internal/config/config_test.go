package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CDN_PORT", "CDN_SECRET", "UPLOAD_DIR", "CDN_BASE_URL", "CDN_MAX_UPLOAD_BYTES",
	"CDN_STRICT_CONTENT", "CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS",
	"CORS_ALLOWED_HEADERS", "CORS_ALLOW_CREDENTIALS", "CORS_MAX_AGE",
	"LOG_LEVEL", "LOG_FORMAT", "GIN_MODE", "SHUTDOWN_TIMEOUT_SECONDS", "TRUSTED_PROXIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3001", cfg.Server.BaseURL)
	assert.Equal(t, "your-secret-token", cfg.Auth.Secret)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(100*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.False(t, cfg.Storage.StrictContent)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, ":3001", cfg.Server.Addr())
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_BaseURLFollowsPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("CDN_PORT", "8088")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8088", cfg.Server.BaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CDN_SECRET", "s3cr3t-value")
	t.Setenv("UPLOAD_DIR", "/srv/cdn")
	t.Setenv("CDN_BASE_URL", "https://cdn.example.com/")
	t.Setenv("CDN_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CDN_STRICT_CONTENT", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t-value", cfg.Auth.Secret)
	assert.Equal(t, "/srv/cdn", cfg.Storage.UploadDir)
	assert.Equal(t, "https://cdn.example.com", cfg.Server.BaseURL, "trailing slash should be trimmed")
	assert.Equal(t, int64(1024), cfg.Storage.MaxUploadBytes)
	assert.True(t, cfg.Storage.StrictContent)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non-numeric port", env: map[string]string{"CDN_PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"CDN_PORT": "70000"}},
		{name: "zero size limit", env: map[string]string{"CDN_MAX_UPLOAD_BYTES": "0"}},
		{name: "non-numeric size limit", env: map[string]string{"CDN_MAX_UPLOAD_BYTES": "lots"}},
		{name: "relative base url", env: map[string]string{"CDN_BASE_URL": "cdn.example.com"}},
		{name: "unknown gin mode", env: map[string]string{"GIN_MODE": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMaskedSecret(t *testing.T) {
	assert.Equal(t, "your...", (&AuthConfig{Secret: "your-secret-token"}).MaskedSecret())
	assert.Equal(t, "...", (&AuthConfig{Secret: "abc"}).MaskedSecret())
}

func TestParseCommaSeparated(t *testing.T) {
	assert.Equal(t, []string{}, parseCommaSeparated(""))
	assert.Equal(t, []string{"GET", "POST"}, parseCommaSeparated(" GET, ,POST "))
}
