package facebook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	fbendpoint "golang.org/x/oauth2/facebook"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
	"social-login/internal/logger"
)

// DefaultGraphURL is the versioned Graph API root used for profile lookups.
const DefaultGraphURL = "https://graph.facebook.com/v19.0"

const profileFields = "id,name,email,picture.type(large)"

var _ provider.Client = (*Provider)(nil)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and GraphURL are overridable for tests.
	Endpoint   oauth2.Endpoint
	GraphURL   string
	HTTPClient *http.Client
}

// Provider implements Facebook Login. Facebook does not issue ID tokens for
// this flow, so the identity comes from the Graph API /me object.
type Provider struct {
	oauthConfig *oauth2.Config
	graphURL    string
	httpClient  *http.Client
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = fbendpoint.Endpoint
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = DefaultGraphURL
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       []string{"public_profile", "email"},
		},
		graphURL:   strings.TrimSuffix(cfg.GraphURL, "/"),
		httpClient: cfg.HTTPClient,
	}, nil
}

func (p *Provider) Provider() auth.Provider {
	return auth.ProviderFacebook
}

func (p *Provider) AuthCodeURL(state string, codeVerifier string) string {
	return provider.AuthCodeURL(p.oauthConfig, state, codeVerifier)
}

type graphProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {
	ctx = provider.WithHTTPClient(ctx, p.httpClient)

	token, err := provider.Exchange(ctx, p.oauthConfig, code, codeVerifier)
	if err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)

	var profile graphProfile
	endpoint := p.graphURL + "/me?fields=" + url.QueryEscape(profileFields)
	if err := provider.FetchJSON(ctx, client, endpoint, &profile); err != nil {
		return nil, fmt.Errorf("facebook profile lookup failed: %w", err)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("facebook profile has no id: %w", provider.ErrMissingClaims)
	}

	logger.Debug("facebook profile fetched", map[string]any{
		"email_present": profile.Email != "",
	})

	return &auth.Identity{
		Provider:       auth.ProviderFacebook,
		ProviderUserID: profile.ID,
		DisplayName:    profile.Name,
		Email:          profile.Email,
		// Graph only returns addresses Facebook has confirmed.
		EmailVerified: profile.Email != "",
		AvatarURL:     profile.Picture.Data.URL,
	}, nil
}
