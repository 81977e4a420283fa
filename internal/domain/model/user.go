package model

import (
	"time"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
)

// User is the persistent identity record for an account that has completed
// at least one OAuth login. ProviderID and Email are both unique; the
// database enforces this.
type User struct {
	ID          string          `db:"id"           json:"id"`
	ProviderID  string          `db:"provider_id"  json:"-"`
	Email       string          `db:"email"        json:"email"`
	DisplayName string          `db:"display_name" json:"displayName"`
	AvatarURL   string          `db:"avatar_url"   json:"avatar"`
	Role        domainauth.Role `db:"role"         json:"role"`
	CreatedAt   time.Time       `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at"   json:"updatedAt"`
}

// PublicUser is the client-facing projection returned by the current-user
// endpoint. ProviderID and timestamps stay server-side.
type PublicUser struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	AvatarURL   string          `json:"avatar"`
	Role        domainauth.Role `json:"role"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
	}
}

// UpdateRoleRequest is the payload for the role-update endpoint.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
