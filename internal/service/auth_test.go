package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	apperrors "github.com/RobinWillson/authsite/internal/errors"
	mocksauth "github.com/RobinWillson/authsite/internal/mocks/auth"
	"github.com/RobinWillson/authsite/internal/ports"
)

func newTestAuthService(t *testing.T) (*AuthService, *mocksauth.MockAuthProvider, *mocksauth.MemorySessionStore, *mocksauth.MemoryUserRepo) {
	t.Helper()
	provider := mocksauth.NewMockAuthProvider()
	sessions := mocksauth.NewMemorySessionStore()
	users := mocksauth.NewMemoryUserRepo()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Users:    users,
	})
	return svc, provider, sessions, users
}

func TestAuthService_BeginLogin_ReturnsAuthURLStateNonce(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	res, err := svc.BeginLogin(context.Background(), "http://localhost:8080/auth/google/callback")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
	assert.Equal(t, "state-1", res.State)
	assert.Equal(t, "nonce-1", res.Nonce)
}

func TestAuthService_BeginLogin_RequiresRedirectURL(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_BeginLogin_WrapsProviderError(t *testing.T) {
	svc, provider, _, _ := newTestAuthService(t)
	provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("discovery failed")
	}

	_, err := svc.BeginLogin(context.Background(), "http://localhost:8080/cb")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthProvider(err))
}

func TestAuthService_CompleteLogin_CreatesUserAndSession(t *testing.T) {
	svc, _, sessions, users := newTestAuthService(t)

	res, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code-1",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "mock.user@example.com", res.User.Email)
	assert.Equal(t, domainauth.RoleUser, res.User.Role)
	assert.Equal(t, 1, users.Len())

	assert.NotEmpty(t, res.Session.Token)
	assert.Equal(t, res.User.ID, res.Session.UserID)
	assert.Equal(t, res.User.Email, res.Session.Email)
	assert.Equal(t, res.User.Role, res.Session.Role)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), res.Session.ExpiresAt, time.Minute)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_CompleteLogin_RepeatLogin_ReusesUserRecord(t *testing.T) {
	svc, _, sessions, users := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c1", State: "s1", Nonce: "n1"})
	require.NoError(t, err)
	second, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c2", State: "s2", Nonce: "n2"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.Session.Token, second.Session.Token)
	assert.Equal(t, 1, users.Len())
	assert.Equal(t, 2, sessions.Len())
}

func TestAuthService_CompleteLogin_ValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.CompleteLogin(ctx, CompleteLoginInput{State: "s", Nonce: "n"})
	require.Error(t, err)
	_, err = svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", Nonce: "n"})
	require.Error(t, err)
	_, err = svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s"})
	require.Error(t, err)
}

func TestAuthService_CompleteLogin_WrapsExchangeError(t *testing.T) {
	svc, provider, sessions, users := newTestAuthService(t)
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.ProviderClaims, error) {
		return domainauth.ProviderClaims{}, errors.New("nonce mismatch")
	}

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthProvider(err))
	assert.Equal(t, 0, users.Len())
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_CompleteLogin_ConcurrentFirstLogins_SingleUser(t *testing.T) {
	svc, _, sessions, users := newTestAuthService(t)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	ids := make([]string, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
			errs[i] = err
			if err == nil {
				ids[i] = res.User.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, users.Len())
	assert.Equal(t, racers, sessions.Len())
}

func TestAuthService_CurrentUser_ReturnsLiveUser(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, res.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, res.User.Email, user.Email)
}

func TestAuthService_CurrentUser_SeesRoleChangeImmediately(t *testing.T) {
	svc, _, _, users := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, res.User.Role)

	_, err = users.UpdateRole(ctx, res.User.ID, domainauth.RoleAdmin)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, res.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, user.Role)
}

func TestAuthService_CurrentUser_EmptyToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_CurrentUser_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.CurrentUser(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_CurrentUser_ExpiredSession(t *testing.T) {
	svc, _, sessions, users := newTestAuthService(t)
	ctx := context.Background()

	user, err := users.UpsertFromClaims(ctx, domainauth.ProviderClaims{
		ProviderID: "p-1",
		Email:      "p1@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, sessions.Save(ctx, domainauth.Session{
		Token:     "stale-token",
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err = svc.CurrentUser(ctx, "stale-token")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_CurrentUser_DanglingSessionDestroyed(t *testing.T) {
	svc, _, sessions, users := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)

	users.Delete(res.User.ID)

	_, err = svc.CurrentUser(ctx, res.Session.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout_DestroysSession(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Len())

	require.NoError(t, svc.Logout(ctx, res.Session.Token))
	assert.Equal(t, 0, sessions.Len())

	_, err = svc.CurrentUser(ctx, res.Session.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_Logout_IsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "never-existed"))
	require.NoError(t, svc.Logout(ctx, "never-existed"))
	require.NoError(t, svc.Logout(ctx, ""))
}
