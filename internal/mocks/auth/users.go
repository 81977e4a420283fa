package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
	"github.com/RobinWillson/authsite/internal/ports"
)

var _ ports.UserRepository = (*MemoryUserRepo)(nil)

// MemoryUserRepo is an in-memory user directory for unit tests. It mirrors
// the database semantics the real repository relies on: uniqueness of
// provider_id and email under concurrency, display-field refresh on upsert,
// and role/created_at preservation.
type MemoryUserRepo struct {
	mu         sync.Mutex
	byID       map[string]*model.User
	byProvider map[string]string // provider_id -> id
	byEmail    map[string]string // email -> id
}

// NewMemoryUserRepo creates a new in-memory user repository.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:       make(map[string]*model.User),
		byProvider: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (m *MemoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.NotFoundf("user %s not found", id)
}

func (m *MemoryUserRepo) FindByProviderID(_ context.Context, providerID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byProvider[providerID]; ok {
		cp := *m.byID[id]
		return &cp, nil
	}
	return nil, apperrors.NotFoundf("user with provider id %s not found", providerID)
}

func (m *MemoryUserRepo) UpsertFromClaims(_ context.Context, claims domainauth.ProviderClaims) (*model.User, error) {
	if claims.ProviderID == "" {
		return nil, apperrors.ValidationField("providerId", "provider id is required")
	}
	if claims.Email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byProvider[claims.ProviderID]; ok {
		u := m.byID[id]
		u.DisplayName = claims.DisplayName
		u.AvatarURL = claims.AvatarURL
		u.UpdatedAt = time.Now()
		cp := *u
		return &cp, nil
	}

	if _, taken := m.byEmail[claims.Email]; taken {
		return nil, apperrors.Conflict("This value already exists. Please choose a different one.")
	}

	now := time.Now()
	u := &model.User{
		ID:          uuid.New().String(),
		ProviderID:  claims.ProviderID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
		Role:        domainauth.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.byID[u.ID] = u
	m.byProvider[u.ProviderID] = u.ID
	m.byEmail[u.Email] = u.ID

	cp := *u
	return &cp, nil
}

func (m *MemoryUserRepo) List(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.User, 0, len(m.byID))
	for _, u := range m.byID {
		cp := *u
		out = append(out, &cp)
	}
	// Stable order matching the SQL repository.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && earlier(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func earlier(a, b *model.User) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (m *MemoryUserRepo) UpdateRole(_ context.Context, id string, role domainauth.Role) (*model.User, error) {
	if _, err := domainauth.ParseRole(string(role)); err != nil {
		return nil, apperrors.ValidationField("role", err.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %s not found", id)
	}
	u.Role = role
	u.UpdatedAt = time.Now()

	cp := *u
	return &cp, nil
}

// Delete removes a user record. Test helper for dangling-session scenarios.
func (m *MemoryUserRepo) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		delete(m.byProvider, u.ProviderID)
		delete(m.byEmail, u.Email)
		delete(m.byID, id)
	}
}

// Len reports the number of stored users. Test helper.
func (m *MemoryUserRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
