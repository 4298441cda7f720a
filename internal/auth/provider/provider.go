package provider

import (
	"context"

	"golang.org/x/oauth2"

	"social-login/internal/auth"
)

// Client defines the contract every external identity provider
// must implement. Implementations return identity facts only and
// must not perform session management.
type Client interface {
	// Provider returns the provider this client talks to.
	Provider() auth.Provider

	// AuthCodeURL returns the authorization URL.
	// State and the PKCE verifier are provided by the caller; only the
	// S256 challenge derived from the verifier leaves the server.
	AuthCodeURL(state string, codeVerifier string) string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}

// AuthCodeURL builds an authorization URL carrying the S256 challenge of codeVerifier.
func AuthCodeURL(cfg *oauth2.Config, state, codeVerifier string) string {
	return cfg.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(codeVerifier),
	)
}

// Exchange trades the code for a token, sending the PKCE verifier.
func Exchange(ctx context.Context, cfg *oauth2.Config, code, codeVerifier string) (*oauth2.Token, error) {
	return cfg.Exchange(
		ctx,
		code,
		oauth2.VerifierOption(codeVerifier),
	)
}
