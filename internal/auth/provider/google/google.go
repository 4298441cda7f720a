package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
	"social-login/internal/logger"
)

// DefaultIssuer is Google's OpenID Connect issuer.
const DefaultIssuer = "https://accounts.google.com"

var _ provider.Client = (*Provider)(nil)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string // defaults to DefaultIssuer
	HTTPClient   *http.Client
}

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	httpClient  *http.Client
}

// New discovers Google's endpoints and signing keys.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	if cfg.HTTPClient != nil {
		ctx = oidc.ClientContext(ctx, cfg.HTTPClient)
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
		httpClient:  cfg.HTTPClient,
	}, nil
}

func (p *Provider) Provider() auth.Provider {
	return auth.ProviderGoogle
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeVerifier string) string {
	return provider.AuthCodeURL(p.oauthConfig, state, codeVerifier)
}

// ExchangeCode redeems the code and verifies the returned ID token.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {
	ctx = provider.WithHTTPClient(ctx, p.httpClient)

	token, err := provider.Exchange(ctx, p.oauthConfig, code, codeVerifier)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("google did not return id_token: %w", provider.ErrMissingClaims)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Picture       string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("google id_token has no sub: %w", provider.ErrMissingClaims)
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.Email
	}

	logger.Debug("google oidc verified", map[string]any{
		"issuer":         idToken.Issuer,
		"email_present":  claims.Email != "",
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       auth.ProviderGoogle,
		ProviderUserID: claims.Subject,
		DisplayName:    displayName,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		AvatarURL:      claims.Picture,
	}, nil
}
