package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
)

const (
	testClientID     = "google-client"
	testClientSecret = "google-secret"
	testRedirectURL  = "http://localhost:3000/auth/google/redirect"
	testKID          = "test-key-1"
	goodCode         = "good-code"
)

// mockGoogle serves discovery, token and JWKS endpoints for a fake issuer.
type mockGoogle struct {
	*httptest.Server
	key *rsa.PrivateKey

	mu           sync.Mutex
	claims       map[string]any
	omitIDToken  bool
	lastVerifier string
}

func (m *mockGoogle) setClaim(k string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v == nil {
		delete(m.claims, k)
		return
	}
	m.claims[k] = v
}

func (m *mockGoogle) setOmitIDToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.omitIDToken = true
}

func (m *mockGoogle) verifier() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastVerifier
}

func newMockGoogle(t *testing.T) *mockGoogle {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	m := &mockGoogle{key: key}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", m.handleDiscovery)
	mux.HandleFunc("/token", m.handleToken)
	mux.HandleFunc("/jwks", m.handleJWKS)

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)

	m.claims = map[string]any{
		"iss":            m.URL,
		"aud":            testClientID,
		"sub":            "123",
		"name":           "Alice",
		"email":          "alice@example.com",
		"email_verified": true,
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	return m
}

func (m *mockGoogle) handleDiscovery(w http.ResponseWriter, _ *http.Request) {
	doc := map[string]any{
		"issuer":                                m.URL,
		"authorization_endpoint":                m.URL + "/authorize",
		"token_endpoint":                        m.URL + "/token",
		"jwks_uri":                              m.URL + "/jwks",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

func (m *mockGoogle) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &m.key.PublicKey,
		KeyID:     testKID,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(jwks)
}

func (m *mockGoogle) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastVerifier = r.PostForm.Get("code_verifier")

	w.Header().Set("Content-Type", "application/json")
	if r.PostForm.Get("code") != goodCode {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
		return
	}

	resp := map[string]any{
		"access_token": "access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
	if !m.omitIDToken {
		resp["id_token"] = m.signIDToken()
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (m *mockGoogle) signIDToken() string {
	opts := (&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", testKID)
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: m.key}, opts)
	if err != nil {
		panic(err)
	}
	payload, err := json.Marshal(m.claims) // caller holds m.mu
	if err != nil {
		panic(err)
	}
	obj, err := signer.Sign(payload)
	if err != nil {
		panic(err)
	}
	token, err := obj.CompactSerialize()
	if err != nil {
		panic(err)
	}
	return token
}

func newTestProvider(t *testing.T, m *mockGoogle) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  testRedirectURL,
		Issuer:       m.URL,
		HTTPClient:   m.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: testClientID})
	assert.Error(t, err)
}

func TestNewFailsOnUnreachableIssuer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := New(context.Background(), Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  testRedirectURL,
		Issuer:       srv.URL,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to init google oidc provider")
}

func TestAuthCodeURL(t *testing.T) {
	m := newMockGoogle(t)
	p := newTestProvider(t, m)

	assert.Equal(t, auth.ProviderGoogle, p.Provider())

	verifier := oauth2.GenerateVerifier()
	u, err := url.Parse(p.AuthCodeURL("state-1", verifier))
	require.NoError(t, err)

	assert.Equal(t, "/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, testRedirectURL, q.Get("redirect_uri"))
}

func TestExchangeCode(t *testing.T) {
	m := newMockGoogle(t)
	p := newTestProvider(t, m)

	id, err := p.ExchangeCode(context.Background(), goodCode, "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "verifier-1", m.verifier())
	assert.Equal(t, &auth.Identity{
		Provider:       auth.ProviderGoogle,
		ProviderUserID: "123",
		DisplayName:    "Alice",
		Email:          "alice@example.com",
		EmailVerified:  true,
	}, id)
}

func TestExchangeCodeFailures(t *testing.T) {
	t.Run("invalid code", func(t *testing.T) {
		m := newMockGoogle(t)
		p := newTestProvider(t, m)

		_, err := p.ExchangeCode(context.Background(), "expired", "v")
		require.Error(t, err)
		assert.Equal(t, auth.ReasonInvalidCode, provider.Classify(err))
	})

	t.Run("missing id token", func(t *testing.T) {
		m := newMockGoogle(t)
		m.setOmitIDToken()
		p := newTestProvider(t, m)

		_, err := p.ExchangeCode(context.Background(), goodCode, "v")
		require.ErrorIs(t, err, provider.ErrMissingClaims)
		assert.Equal(t, auth.ReasonProviderError, provider.Classify(err))
	})

	t.Run("wrong audience", func(t *testing.T) {
		m := newMockGoogle(t)
		m.setClaim("aud", "someone-else")
		p := newTestProvider(t, m)

		_, err := p.ExchangeCode(context.Background(), goodCode, "v")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verification failed")
	})

	t.Run("name falls back to email", func(t *testing.T) {
		m := newMockGoogle(t)
		m.setClaim("name", nil)
		p := newTestProvider(t, m)

		id, err := p.ExchangeCode(context.Background(), goodCode, "v")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", id.DisplayName)
	})

	t.Run("deadline", func(t *testing.T) {
		m := newMockGoogle(t)
		p := newTestProvider(t, m)

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := p.ExchangeCode(ctx, goodCode, "v")
		require.Error(t, err)
		assert.Equal(t, auth.ReasonTimeout, provider.Classify(err))
	})
}
