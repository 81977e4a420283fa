package devauth

// Package devauth provides a simple, config-driven AuthProvider for local
// development. It short-circuits the OAuth flow by redirecting straight back
// to our own callback with locally generated state and nonce.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/ports"
)

// Config controls the dev auth provider identity.
type Config struct {
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Provider implements ports.AuthProvider for local development.
// Exchange ignores the code and returns the configured claims.
type Provider struct {
	claims domainauth.ProviderClaims
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ProviderID == "" {
		return nil, errors.New("dev auth: ProviderID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	return &Provider{
		claims: domainauth.ProviderClaims{
			ProviderID:  cfg.ProviderID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			AvatarURL:   cfg.AvatarURL,
		},
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The standard handler expects GET /auth/google/callback?code=...&state=...
	authURL := "/auth/google/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation is handled by
// the callback handler) and returns the configured dev claims.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.ProviderClaims, error) {
	return p.claims, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
