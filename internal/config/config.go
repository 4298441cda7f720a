package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minSecretLength = 16

// ProviderConfig is the OAuth client registration for one identity provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether the provider has been configured at all.
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != ""
}

func (p ProviderConfig) validate(name string) error {
	if !p.Enabled() {
		if p.ClientSecret != "" {
			return fmt.Errorf("%s: client secret set without client id", name)
		}
		return nil
	}
	if p.ClientSecret == "" {
		return fmt.Errorf("%s: client secret is required", name)
	}
	if p.RedirectURL == "" {
		return fmt.Errorf("%s: redirect url is required", name)
	}
	return nil
}

type Config struct {
	AppPort string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	ProviderTimeout time.Duration

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GoogleIssuer string
	Google       ProviderConfig
	Facebook     ProviderConfig
	GitHub       ProviderConfig
}

// Load reads configuration from the environment, after applying an optional
// .env file in the working directory.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: failed to read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GOOGLE_ISSUER", "https://accounts.google.com")

	cfg := Config{
		AppPort: v.GetString("APP_PORT"),

		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),

		ProviderTimeout: v.GetDuration("PROVIDER_TIMEOUT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		GoogleIssuer: v.GetString("GOOGLE_ISSUER"),
	}

	cfg.Google = providerFromEnv(v, "GOOGLE", "google", cfg.AppPort)
	cfg.Facebook = providerFromEnv(v, "FACEBOOK", "facebook", cfg.AppPort)
	cfg.GitHub = providerFromEnv(v, "GITHUB", "github", cfg.AppPort)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func providerFromEnv(v *viper.Viper, prefix, name, port string) ProviderConfig {
	p := ProviderConfig{
		ClientID:     strings.TrimSpace(v.GetString(prefix + "_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(v.GetString(prefix + "_CLIENT_SECRET")),
		RedirectURL:  strings.TrimSpace(v.GetString(prefix + "_REDIRECT_URL")),
	}
	if p.Enabled() && p.RedirectURL == "" {
		p.RedirectURL = fmt.Sprintf("http://localhost:%s/auth/%s/redirect", port, name)
	}
	return p
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("config: APP_PORT is required")
	}
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("config: PROVIDER_TIMEOUT must be positive")
	}

	for name, p := range map[string]ProviderConfig{
		"google":   c.Google,
		"facebook": c.Facebook,
		"github":   c.GitHub,
	} {
		if err := p.validate(name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	if !c.Google.Enabled() && !c.Facebook.Enabled() && !c.GitHub.Enabled() {
		return errors.New("config: at least one identity provider must be configured")
	}
	return nil
}
