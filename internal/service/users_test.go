package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/domain/model"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
	"github.com/RobinWillson/authsite/internal/mocks"
)

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	want := []*model.User{
		{ID: "u-1", Email: "a@example.com", Role: domainauth.RoleAdmin},
		{ID: "u-2", Email: "b@example.com", Role: domainauth.RoleUser},
	}
	mockRepo.EXPECT().List(ctx).Return(want, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	mockRepo.EXPECT().FindByID(ctx, "missing").Return(nil, apperrors.NotFound("user not found"))

	_, err := svc.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserService_UpdateRole_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	updated := &model.User{ID: "u-1", Email: "a@example.com", Role: domainauth.RoleAdmin}
	mockRepo.EXPECT().UpdateRole(ctx, "u-1", domainauth.RoleAdmin).Return(updated, nil)

	got, err := svc.UpdateRole(ctx, "u-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUserService_UpdateRole_InvalidRole_SkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	// No repository expectation: validation must fail before the store is touched.
	_, err := svc.UpdateRole(ctx, "u-1", "superuser")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "role", apperrors.GetField(err))
}

func TestUserService_UpdateRole_UnknownID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	mockRepo.EXPECT().
		UpdateRole(ctx, "missing", domainauth.RoleUser).
		Return(nil, apperrors.NotFound("user not found"))

	_, err := svc.UpdateRole(ctx, "missing", "user")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
