package auth

// Provider identifies one of the supported external identity providers.
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderGoogle
	ProviderFacebook
	ProviderGitHub
)

// Providers lists every supported provider in a stable order.
var Providers = []Provider{ProviderGoogle, ProviderFacebook, ProviderGitHub}

func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderFacebook:
		return "facebook"
	case ProviderGitHub:
		return "github"
	default:
		return "unknown"
	}
}

// ParseProvider maps a route or config name to a Provider. Names are
// lowercase and matched exactly, like the registered redirect URLs.
func ParseProvider(name string) (Provider, error) {
	for _, p := range Providers {
		if name == p.String() {
			return p, nil
		}
	}
	return ProviderUnknown, &UnsupportedProviderError{Name: name}
}

// MarshalText encodes the provider by name so stored sessions stay readable.
func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Provider) UnmarshalText(text []byte) error {
	parsed, err := ParseProvider(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Identity represents a normalized external authentication identity
// returned by an identity provider. It contains facts only, no decisions.
type Identity struct {
	Provider       Provider `json:"provider"`
	ProviderUserID string   `json:"provider_user_id"` // provider-scoped unique user identifier
	DisplayName    string   `json:"display_name"`
	Email          string   `json:"email,omitempty"`
	EmailVerified  bool     `json:"email_verified,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
}
