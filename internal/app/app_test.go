package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-login/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		AppPort:         "0",
		SessionSecret:   "0123456789abcdef0123",
		SessionTTL:      time.Hour,
		ProviderTimeout: time.Second,
		GitHub: config.ProviderConfig{
			ClientID:     "gh-id",
			ClientSecret: "gh-secret",
			RedirectURL:  "http://localhost:3000/auth/github/redirect",
		},
	}
}

func serve(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouterWithMemoryStore(t *testing.T) {
	router, cleanup, err := setupHTTP(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	rec := serve(t, router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/auth/github"`)
	assert.NotContains(t, rec.Body.String(), `href="/auth/google"`)

	rec = serve(t, router, "/auth/github")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", loc.Host)
	assert.Equal(t, "S256", loc.Query().Get("code_challenge_method"))

	rec = serve(t, router, "/auth/google")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "social_login_login_attempts_total")
	assert.Contains(t, rec.Body.String(), "http_server_requests_total")
}

func TestSetupInfraUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	infra, err := setupInfra(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, infra.Redis)
	t.Cleanup(func() { _ = infra.Close() })

	_, err = infra.Sessions.Get(context.Background(), "missing")
	require.NoError(t, err)
}

func TestSetupHTTPFailures(t *testing.T) {
	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig()
		cfg.RedisAddr = addr
		_, _, err := setupHTTP(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("google discovery fails", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)

		cfg := testConfig()
		cfg.GoogleIssuer = srv.URL
		cfg.Google = config.ProviderConfig{
			ClientID:     "g-id",
			ClientSecret: "g-secret",
			RedirectURL:  "http://localhost:3000/auth/google/redirect",
		}
		_, _, err := setupHTTP(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestAppShutdown(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
}
