package ports

// Package ports defines interfaces (hexagonal ports) for auth and user
// directory behavior. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired
// tokens. Callers treat it as "unauthenticated" rather than a store failure.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the asserted claims.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.ProviderClaims, error)
}

// SessionStore persists and retrieves user sessions keyed by opaque token.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, token string) (domainauth.Session, error)
	// Delete is idempotent; deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// UserRepository is the user directory: persistent identity records keyed by
// provider identity and email, each carrying a role.
type UserRepository interface {
	FindByProviderID(ctx context.Context, providerID string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)

	// UpsertFromClaims creates the user on first login or refreshes the
	// display fields on subsequent logins. Concurrent calls for the same
	// provider identity must resolve to a single record.
	UpsertFromClaims(ctx context.Context, claims domainauth.ProviderClaims) (*model.User, error)

	List(ctx context.Context) ([]*model.User, error)
	UpdateRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error)
}
