package devauth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobinWillson/authsite/internal/ports"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	assert.ErrorContains(t, err, "ProviderID is required")

	_, err = NewProvider(Config{ProviderID: "dev-1"})
	assert.ErrorContains(t, err, "Email is required")
}

func TestProvider_BeginAndExchange(t *testing.T) {
	provider, err := NewProvider(Config{
		ProviderID:  "dev-1",
		Email:       "dev@example.com",
		DisplayName: "Dev User",
	})
	require.NoError(t, err)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authURL, "/auth/google/callback?code=dev&state="), "got %q", authURL)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)

	claims, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", claims.ProviderID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "Dev User", claims.DisplayName)
}
