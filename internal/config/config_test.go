package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("GOOGLE_CLIENT_ID", "google-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "google-secret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://accounts.google.com", cfg.GoogleIssuer)
	assert.Empty(t, cfg.RedisAddr)

	assert.True(t, cfg.Google.Enabled())
	assert.Equal(t, "http://localhost:3000/auth/google/redirect", cfg.Google.RedirectURL)
	assert.False(t, cfg.Facebook.Enabled())
	assert.False(t, cfg.GitHub.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_PORT", "8080")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "gh-secret")
	t.Setenv("GITHUB_REDIRECT_URL", "https://example.com/auth/github/redirect")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "http://localhost:8080/auth/google/redirect", cfg.Google.RedirectURL)
	assert.Equal(t, "https://example.com/auth/github/redirect", cfg.GitHub.RedirectURL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "short secret",
			env:  map[string]string{"SESSION_SECRET": "short"},
			want: "SESSION_SECRET",
		},
		{
			name: "partial provider",
			env:  map[string]string{"FACEBOOK_CLIENT_ID": "fb-id"},
			want: "facebook: client secret is required",
		},
		{
			name: "secret without id",
			env:  map[string]string{"GITHUB_CLIENT_SECRET": "gh-secret"},
			want: "github: client secret set without client id",
		},
		{
			name: "no providers",
			env:  map[string]string{"GOOGLE_CLIENT_ID": "", "GOOGLE_CLIENT_SECRET": ""},
			want: "at least one identity provider",
		},
		{
			name: "bad ttl",
			env:  map[string]string{"SESSION_TTL": "-1h"},
			want: "SESSION_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	setBaseEnv(t)
	t.Chdir(t.TempDir())

	_, err := Load()
	require.NoError(t, err)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	setBaseEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}
