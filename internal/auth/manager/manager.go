// Package manager owns the authentication session lifecycle: mapping the
// browser's session cookie to a server-side identity, starting and completing
// provider logins, and ending sessions.
package manager

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
	"social-login/internal/logger"
	"social-login/internal/metrics"
	"social-login/internal/session"
	"social-login/internal/utils"
)

const (
	DefaultSessionTTL      = 24 * time.Hour
	DefaultProviderTimeout = 10 * time.Second

	stateSize = 32
)

type Options struct {
	Registry *provider.Registry
	Store    session.Store
	Signer   *session.Signer
	Cookie   session.CookieOptions

	SessionTTL      time.Duration
	ProviderTimeout time.Duration
}

type Manager struct {
	registry *provider.Registry
	store    session.Store
	signer   *session.Signer
	cookie   session.CookieOptions

	sessionTTL      time.Duration
	providerTimeout time.Duration

	now func() time.Time
}

func New(opts Options) (*Manager, error) {
	if opts.Registry == nil {
		return nil, errors.New("manager: provider registry is required")
	}
	if opts.Store == nil {
		return nil, errors.New("manager: session store is required")
	}
	if opts.Signer == nil {
		return nil, errors.New("manager: cookie signer is required")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultProviderTimeout
	}

	return &Manager{
		registry:        opts.Registry,
		store:           opts.Store,
		signer:          opts.Signer,
		cookie:          opts.Cookie,
		sessionTTL:      opts.SessionTTL,
		providerTimeout: opts.ProviderTimeout,
		now:             time.Now,
	}, nil
}

// Providers lists the providers a user can log in with.
func (m *Manager) Providers() []auth.Provider {
	return m.registry.Configured()
}

// SessionID returns the verified session id carried by r, or "" when the
// cookie is absent or its signature does not match.
func (m *Manager) SessionID(r *http.Request) string {
	raw := session.ReadCookie(r, m.cookie)
	if raw == "" {
		return ""
	}
	id, err := m.signer.Verify(raw)
	if err != nil {
		logger.Debug("rejected session cookie", map[string]any{
			"error": err,
		})
		return ""
	}
	return id
}

// Current resolves the authenticated session for r. A missing, forged,
// unknown or expired session yields (nil, nil). It has no side effects.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*session.Session, error) {
	id := m.SessionID(r)
	if id == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, &auth.SessionStoreError{Op: "get", Err: err}
	}
	if !s.Authenticated(m.now()) {
		return nil, nil
	}
	return s, nil
}

// IsAuthenticated reports whether r carries a valid session with an identity.
func (m *Manager) IsAuthenticated(ctx context.Context, r *http.Request) (bool, error) {
	s, err := m.Current(ctx, r)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Redirect is where the browser goes to start a login, together with the
// values that must come back on the callback.
type Redirect struct {
	Provider     auth.Provider
	URL          string
	State        string
	CodeVerifier string
}

// BeginLogin prepares the authorization request for the named provider.
func (m *Manager) BeginLogin(name string) (*Redirect, error) {
	p, err := auth.ParseProvider(name)
	if err != nil {
		return nil, err
	}
	client, err := m.registry.Get(p)
	if err != nil {
		return nil, err
	}

	state, err := utils.RandomString(stateSize)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	metrics.LoginAttempts.WithLabelValues(p.String()).Inc()

	return &Redirect{
		Provider:     p,
		URL:          client.AuthCodeURL(state, verifier),
		State:        state,
		CodeVerifier: verifier,
	}, nil
}

// Callback carries what the provider sent back plus what the browser kept
// from BeginLogin.
type Callback struct {
	Code             string
	State            string
	ExpectedState    string
	CodeVerifier     string
	Error            string
	ErrorDescription string

	// RequireState makes a missing ExpectedState a failure. Browser
	// callbacks always set it since they follow a BeginLogin round trip.
	RequireState bool

	// PreviousSessionID is destroyed once the new session is stored.
	PreviousSessionID string
}

// Login is a completed login.
type Login struct {
	Identity *auth.Identity
	Session  *session.Session
}

// CompleteLogin exchanges the callback for an identity and stores a fresh
// session. Provider side failures come back as *auth.AuthFailure and leave
// existing sessions untouched.
func (m *Manager) CompleteLogin(ctx context.Context, name string, cb Callback) (*Login, error) {
	p, err := auth.ParseProvider(name)
	if err != nil {
		return nil, err
	}
	client, err := m.registry.Get(p)
	if err != nil {
		return nil, err
	}

	if cb.Error != "" {
		return nil, m.fail(p, provider.CallbackErrorReason(cb.Error),
			fmt.Errorf("provider returned %s: %s", cb.Error, cb.ErrorDescription))
	}

	if cb.RequireState || cb.State != "" || cb.ExpectedState != "" {
		if cb.ExpectedState == "" ||
			subtle.ConstantTimeCompare([]byte(cb.State), []byte(cb.ExpectedState)) != 1 {
			return nil, m.fail(p, auth.ReasonInvalidState, errors.New("state mismatch"))
		}
	}

	if cb.Code == "" {
		return nil, m.fail(p, auth.ReasonInvalidCode, errors.New("missing authorization code"))
	}

	identity, err := m.exchange(ctx, client, cb)
	if err != nil {
		return nil, m.fail(p, provider.Classify(err), err)
	}
	if identity.Provider != p {
		return nil, m.fail(p, auth.ReasonProviderError,
			fmt.Errorf("client returned %s identity", identity.Provider))
	}

	s, err := m.createSession(ctx, identity)
	if err != nil {
		metrics.LoginOutcomes.WithLabelValues(p.String(), "store_error").Inc()
		return nil, err
	}

	if cb.PreviousSessionID != "" && cb.PreviousSessionID != s.SessionID {
		if err := m.store.Delete(ctx, cb.PreviousSessionID); err != nil {
			// The new session is already valid; the old one expires on its own.
			logger.Warn("failed to delete previous session", map[string]any{
				"provider": p.String(),
				"error":    err,
			})
		}
	}

	metrics.LoginOutcomes.WithLabelValues(p.String(), "success").Inc()
	logger.Info("login succeeded", map[string]any{
		"provider":         p.String(),
		"provider_user_id": identity.ProviderUserID,
	})

	return &Login{Identity: identity, Session: s}, nil
}

func (m *Manager) exchange(ctx context.Context, client provider.Client, cb Callback) (*auth.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, m.providerTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ProviderExchangeDuration.
			WithLabelValues(client.Provider().String()).
			Observe(time.Since(start).Seconds())
	}()

	identity, err := client.ExchangeCode(ctx, cb.Code, cb.CodeVerifier)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, provider.ErrMissingClaims
	}
	return identity, nil
}

func (m *Manager) createSession(ctx context.Context, identity *auth.Identity) (*session.Session, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, &auth.SessionStoreError{Op: "create", Err: err}
	}

	now := m.now()
	s := session.Session{
		SessionID: id,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, &auth.SessionStoreError{Op: "create", Err: err}
	}
	return &s, nil
}

func (m *Manager) fail(p auth.Provider, reason auth.FailureReason, err error) error {
	metrics.LoginOutcomes.WithLabelValues(p.String(), string(reason)).Inc()
	logger.Warn("login failed", map[string]any{
		"provider": p.String(),
		"reason":   string(reason),
		"error":    err,
	})
	return &auth.AuthFailure{Provider: p, Reason: reason, Err: err}
}

// Logout destroys the session. Unknown or empty ids are not an error.
// Callers clear the cookie whatever the outcome.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	metrics.Logouts.Inc()
	if sessionID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return &auth.SessionStoreError{Op: "delete", Err: err}
	}
	logger.Info("session ended", nil)
	return nil
}

// SetSessionCookie issues the signed cookie for s.
func (m *Manager) SetSessionCookie(w http.ResponseWriter, s *session.Session) {
	session.SetCookie(w, m.signer.Sign(s.SessionID), s.ExpiresAt, m.cookie)
}

func (m *Manager) ClearSessionCookie(w http.ResponseWriter) {
	session.ClearCookie(w, m.cookie)
}
