package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
	"github.com/RobinWillson/authsite/internal/ports"
)

// DefaultSessionTTL applies when no session TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

// ErrNotAuthenticated is returned by CurrentUser when the token does not
// resolve to a live user: missing, expired, or dangling session.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Users      ports.UserRepository
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// AuthService orchestrates authentication flows: provider exchange, user
// directory upsert, and session lifecycle.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	users      ports.UserRepository
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		users:      opts.Users,
		sessionTTL: ttl,
		logger:     logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthProvider, "begin auth flow")
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// CompleteLogin exchanges the authorization grant for identity claims,
// upserts the user record, and issues a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	claims, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthProvider, "exchange authorization code")
	}

	user, err := s.users.UpsertFromClaims(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("upsert user from claims: %w", err)
	}

	session := domainauth.Session{
		Token:     generateSessionToken(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session, User: user}, nil
}

// CurrentUser resolves a session token to a live user record.
// It returns ErrNotAuthenticated for unknown, expired, and dangling
// sessions; dangling sessions (user record gone) are destroyed on sight.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired() {
		if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
			s.logger.WarnContext(ctx, "delete expired session failed", "error", deleteErr)
		}
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Dangling session: the user record is gone.
			if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
				s.logger.WarnContext(ctx, "delete dangling session failed", "error", deleteErr)
			}
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("find session user: %w", err)
	}

	return user, nil
}

// Logout removes a session. Logging out an unknown or empty token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionToken creates a cryptographically secure random session token.
func generateSessionToken() string {
	// UUIDv4 is URL-safe and has sufficient entropy for a session credential.
	return uuid.New().String()
}
