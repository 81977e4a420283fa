package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
)

func seedUser(t *testing.T, env *testEnv, providerID, email string) *model.User {
	t.Helper()
	user, err := env.Repo.UpsertFromClaims(context.Background(), domainauth.ProviderClaims{
		ProviderID:  providerID,
		Email:       email,
		DisplayName: strings.Split(email, "@")[0],
	})
	require.NoError(t, err)
	return user
}

func TestUserHandlers_List(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "p-1", "a@example.com")
	seedUser(t, env, "p-2", "b@example.com")
	h := &UserHandlers{Svc: env.Users}

	w := doRequest(http.HandlerFunc(h.List), httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var users []model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestUserHandlers_List_RecordShape(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "p-1", "a@example.com")
	h := &UserHandlers{Svc: env.Users}

	w := doRequest(http.HandlerFunc(h.List), httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)

	for _, field := range []string{"id", "email", "displayName", "avatar", "role", "createdAt", "updatedAt"} {
		assert.Contains(t, records[0], field)
	}
	// Provider identity stays server-side.
	for key := range records[0] {
		assert.NotContains(t, strings.ToLower(key), "provider")
	}
}

func TestUserHandlers_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &UserHandlers{Svc: env.Users}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/nope", nil)
	req.SetPathValue("id", "nope")
	w := doRequest(http.HandlerFunc(h.Get), req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUserHandlers_UpdateRole_Success(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "p-1", "a@example.com")
	h := &UserHandlers{Svc: env.Users}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+user.ID+"/role",
		strings.NewReader(`{"role":"admin"}`))
	req.SetPathValue("id", user.ID)
	w := doRequest(http.HandlerFunc(h.UpdateRole), req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, domainauth.RoleAdmin, updated.Role)
}

func TestUserHandlers_UpdateRole_InvalidRole(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "p-1", "a@example.com")
	h := &UserHandlers{Svc: env.Users}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+user.ID+"/role",
		strings.NewReader(`{"role":"superuser"}`))
	req.SetPathValue("id", user.ID)
	w := doRequest(http.HandlerFunc(h.UpdateRole), req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "validation")
}

func TestUserHandlers_UpdateRole_UnknownID(t *testing.T) {
	env := newTestEnv(t)
	h := &UserHandlers{Svc: env.Users}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/nope/role",
		strings.NewReader(`{"role":"admin"}`))
	req.SetPathValue("id", "nope")
	w := doRequest(http.HandlerFunc(h.UpdateRole), req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlers_UpdateRole_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	h := &UserHandlers{Svc: env.Users}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/x/role",
		strings.NewReader(`{"role":`))
	req.SetPathValue("id", "x")
	w := doRequest(http.HandlerFunc(h.UpdateRole), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_json")
}
