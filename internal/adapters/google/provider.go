package google

// Package google provides the Google OIDC/OAuth2 authentication adapter.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/ports"
)

// DefaultIssuerURL is the Google OIDC issuer used for endpoint discovery.
const DefaultIssuerURL = "https://accounts.google.com"

// Provider implements ports.AuthProvider against Google.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the Google provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string       // space-separated; defaults to "openid email profile"
	IssuerURL    string       // defaults to DefaultIssuerURL
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// NewProvider creates a new Google provider. It performs a single discovery
// fetch against the issuer.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	issuer := config.IssuerURL
	if issuer == "" {
		issuer = DefaultIssuerURL
	}
	scope := config.Scope
	if scope == "" {
		scope = "openid email profile"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, strings.TrimSuffix(issuer, "/"))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Begin starts the authorization-code flow and returns the Google auth URL
// together with cryptographically secure state and nonce values.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

// Exchange completes the flow: code for token, ID-token verification
// (including the nonce), and a userinfo fallback for missing claims.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.ProviderClaims, error) {
	if in.Code == "" {
		return domainauth.ProviderClaims{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.ProviderClaims{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.ProviderClaims{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.ProviderClaims{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.ProviderClaims{}, fmt.Errorf("extract id_token: %w", err)
	}

	if claims.ProviderID == "" || claims.Email == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &claims); fillErr != nil {
			return domainauth.ProviderClaims{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}

	if claims.ProviderID == "" {
		return domainauth.ProviderClaims{}, errors.New("provider returned no subject claim")
	}
	if claims.Email == "" {
		return domainauth.ProviderClaims{}, errors.New("provider returned no email claim")
	}

	return claims, nil
}

// idTokenClaims is the Google ID-token claim shape we consume.
type idTokenClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Nonce   string `json:"nonce"`
}

// userInfoClaims is the Google userinfo endpoint claim shape.
type userInfoClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *Provider) extractFromIDToken(
	ctx context.Context,
	tok *oauth2.Token,
	expectedNonce string,
) (domainauth.ProviderClaims, error) {
	rawID, err := idTokenFromToken(tok)
	if err != nil {
		return domainauth.ProviderClaims{}, err
	}

	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.ProviderClaims{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.ProviderClaims{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return domainauth.ProviderClaims{}, errors.New("invalid nonce")
	}

	return mapIDTokenClaims(claims), nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, claims *domainauth.ProviderClaims) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info userInfoClaims
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	fillFromUserInfoClaims(claims, info)
	return nil
}

// mapIDTokenClaims maps raw Google ID-token claims into domain claims.
func mapIDTokenClaims(c idTokenClaims) domainauth.ProviderClaims {
	return domainauth.ProviderClaims{
		ProviderID:  c.Sub,
		Email:       c.Email,
		DisplayName: c.Name,
		AvatarURL:   c.Picture,
	}
}

// fillFromUserInfoClaims fills missing claim fields from a userinfo payload.
func fillFromUserInfoClaims(claims *domainauth.ProviderClaims, ui userInfoClaims) {
	if claims.ProviderID == "" {
		claims.ProviderID = ui.Sub
	}
	if claims.Email == "" {
		claims.Email = ui.Email
	}
	if claims.DisplayName == "" {
		claims.DisplayName = ui.Name
	}
	if claims.AvatarURL == "" {
		claims.AvatarURL = ui.Picture
	}
}

// idTokenFromToken extracts the raw id_token from the token response.
func idTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
