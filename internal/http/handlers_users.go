package httpx

import (
	"context"
	"net/http"

	"github.com/RobinWillson/authsite/internal/domain/model"
)

// UserServiceInterface defines the interface for user directory operations.
type UserServiceInterface interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	UpdateRole(ctx context.Context, id, rawRole string) (*model.User, error)
}

// UserHandlers provides HTTP handlers for the admin user directory API.
type UserHandlers struct {
	Svc UserServiceInterface
}

// List returns all user records.
// GET /api/admin/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, users)
}

// Get returns a single user record by ID.
// GET /api/admin/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// UpdateRole changes a user's role.
// PUT /api/admin/users/{id}/role.
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.UpdateRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
