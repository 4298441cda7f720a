package app

import (
	"context"

	"social-login/internal/auth/provider"
	"social-login/internal/auth/provider/facebook"
	"social-login/internal/auth/provider/github"
	"social-login/internal/auth/provider/google"
	"social-login/internal/config"
	"social-login/internal/logger"
)

// setupProviders builds a client for every provider with a client id.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var clients []provider.Client

	if cfg.Google.Enabled() {
		p, err := google.New(ctx, google.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Issuer:       cfg.GoogleIssuer,
		})
		if err != nil {
			return nil, err
		}
		clients = append(clients, p)
	}

	if cfg.Facebook.Enabled() {
		p, err := facebook.New(facebook.Config{
			ClientID:     cfg.Facebook.ClientID,
			ClientSecret: cfg.Facebook.ClientSecret,
			RedirectURL:  cfg.Facebook.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
		clients = append(clients, p)
	}

	if cfg.GitHub.Enabled() {
		p, err := github.New(github.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
		clients = append(clients, p)
	}

	registry := provider.NewRegistry(clients...)

	names := make([]string, 0, len(clients))
	for _, p := range registry.Configured() {
		names = append(names, p.String())
	}
	logger.Info("identity providers configured", map[string]any{
		"providers": names,
	})

	return registry, nil
}
