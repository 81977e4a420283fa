// Package mocks provides mock implementations for testing the authsite services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository interfaces in internal/ports. The mocks are generated with go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/ports.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// FindByID, FindByProviderID, UpsertFromClaims, List, UpdateRole
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/RobinWillson/authsite/internal/ports UserRepository
