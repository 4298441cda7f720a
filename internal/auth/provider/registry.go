package provider

import "social-login/internal/auth"

// Registry holds all configured identity provider clients and allows
// lookup by provider. It performs no auth logic itself.
type Registry struct {
	clients map[auth.Provider]Client
}

// NewRegistry registers the given clients by provider.
// A later client for the same provider replaces an earlier one.
func NewRegistry(list ...Client) *Registry {
	m := make(map[auth.Provider]Client, len(list))
	for _, c := range list {
		m[c.Provider()] = c
	}
	return &Registry{clients: m}
}

// Get returns the client for p or an UnsupportedProviderError wrapping
// auth.ErrProviderNotConfigured.
func (r *Registry) Get(p auth.Provider) (Client, error) {
	c, ok := r.clients[p]
	if !ok {
		return nil, &auth.UnsupportedProviderError{
			Name: p.String(),
			Err:  auth.ErrProviderNotConfigured,
		}
	}
	return c, nil
}

// Configured lists registered providers in display order.
func (r *Registry) Configured() []auth.Provider {
	out := make([]auth.Provider, 0, len(r.clients))
	for _, p := range auth.Providers {
		if _, ok := r.clients[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
