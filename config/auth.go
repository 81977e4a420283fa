package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeGoogle uses Google OAuth/OIDC for authentication.
	AuthModeGoogle AuthMode = "google"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "google", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: google, mock)", v)
	}
}

// GoogleConfig contains Google OAuth/OIDC configuration.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:""`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/google/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid email profile"`
	// IssuerURL overrides the OIDC issuer; only useful for pointing tests
	// at a fake discovery endpoint.
	IssuerURL string `env:"ISSUER_URL" envDefault:""`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	ProviderID  string `env:"PROVIDER_ID"  envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
	AvatarURL   string `env:"AVATAR_URL"   envDefault:""`
}

// defaultSessionSecret is the well-known placeholder secret. Deployments
// outside dev mode get a startup warning when it is still in use.
const defaultSessionSecret = "keyboard cat"

// SessionConfig controls server-side session lifetime.
type SessionConfig struct {
	// TTL is how long an issued session stays valid.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// Secret is consumed by deployments that sign cookies at the proxy
	// layer; the application itself uses opaque random tokens. Leaving it
	// at the default is flagged at startup outside dev mode.
	Secret string `env:"SESSION_SECRET" envDefault:"keyboard cat"`
}

// UsingDefaultSecret reports whether the session secret was left unset or at
// its well-known default.
func (s SessionConfig) UsingDefaultSecret() bool {
	return s.Secret == "" || s.Secret == defaultSessionSecret
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"google"`

	// Google configuration (used when Mode=google).
	Google GoogleConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Session configuration.
	Session SessionConfig
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Session.TTL <= 0 {
		a.Session.TTL = 12 * time.Hour
	}
}
