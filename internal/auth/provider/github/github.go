package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	ghendpoint "golang.org/x/oauth2/github"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
	"social-login/internal/logger"
)

const DefaultAPIURL = "https://api.github.com"

var _ provider.Client = (*Provider)(nil)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and APIURL are overridable for tests.
	Endpoint   oauth2.Endpoint
	APIURL     string
	HTTPClient *http.Client
}

// Provider implements GitHub OAuth apps. The identity is read from the REST
// API; the email comes from /user/emails when the profile hides it.
type Provider struct {
	oauthConfig *oauth2.Config
	apiURL      string
	httpClient  *http.Client
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = ghendpoint.Endpoint
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: cfg.HTTPClient,
	}, nil
}

func (p *Provider) Provider() auth.Provider {
	return auth.ProviderGitHub
}

func (p *Provider) AuthCodeURL(state string, codeVerifier string) string {
	return provider.AuthCodeURL(p.oauthConfig, state, codeVerifier)
}

type user struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {
	ctx = provider.WithHTTPClient(ctx, p.httpClient)

	token, err := provider.Exchange(ctx, p.oauthConfig, code, codeVerifier)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)

	var u user
	if err := provider.FetchJSON(ctx, client, p.apiURL+"/user", &u); err != nil {
		return nil, fmt.Errorf("github user lookup failed: %w", err)
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("github user has no id: %w", provider.ErrMissingClaims)
	}

	identity := &auth.Identity{
		Provider:       auth.ProviderGitHub,
		ProviderUserID: strconv.FormatInt(u.ID, 10),
		DisplayName:    u.Name,
		Email:          u.Email,
		AvatarURL:      u.AvatarURL,
	}
	if identity.DisplayName == "" {
		identity.DisplayName = u.Login
	}

	// The emails endpoint is the only place GitHub reports verification.
	var emails []email
	if err := provider.FetchJSON(ctx, client, p.apiURL+"/user/emails", &emails); err != nil {
		if !emailsUnavailable(err) {
			return nil, fmt.Errorf("github email lookup failed: %w", err)
		}
		// The user:email scope was not granted; keep the profile email.
		logger.Warn("github email list unavailable", map[string]any{
			"error": err,
		})
		return identity, nil
	}

	if primary, ok := primaryEmail(emails); ok {
		identity.Email = primary.Email
		identity.EmailVerified = primary.Verified
	}

	return identity, nil
}

func emailsUnavailable(err error) bool {
	var httpErr *provider.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusNotFound
}

func primaryEmail(list []email) (email, bool) {
	for _, e := range list {
		if e.Primary && e.Verified {
			return e, true
		}
	}
	for _, e := range list {
		if e.Primary {
			return e, true
		}
	}
	return email{}, false
}
