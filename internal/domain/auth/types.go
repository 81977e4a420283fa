package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"time"
)

// Role represents an application's authorization role.
// Kept in string form for easy persistence and JSON encoding.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates and converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q (valid roles: user, admin)", s)
	}
}

// IsAdmin reports whether the role grants admin access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// ProviderClaims represents the identity attributes asserted by the IdP
// after a completed login. Adapters map provider-specific claim names into
// this shape.
type ProviderClaims struct {
	ProviderID  string // stable provider identifier (Google "sub")
	Email       string
	DisplayName string
	AvatarURL   string
}

// Session is the server-side record persisted for an authenticated user.
// Token is an opaque session identifier presented by the client.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session expiry has passed.
func (s Session) Expired() bool { return time.Now().After(s.ExpiresAt) }
