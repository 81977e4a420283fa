package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
)

func TestUserFromContext_Empty(t *testing.T) {
	user, ok := UserFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestSetUserInContext_RoundTrip(t *testing.T) {
	u := &model.User{ID: "u-1", Email: "a@example.com", Role: domainauth.RoleAdmin}

	ctx := SetUserInContext(context.Background(), u)
	got, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, u, got)
}

func TestSetUserInContext_NilUser_ReturnsSameContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetUserInContext(ctx, nil))
}
