package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	mocksauth "github.com/RobinWillson/authsite/internal/mocks/auth"
	"github.com/RobinWillson/authsite/internal/service"
)

// testEnv bundles the in-memory services used by handler and routing tests.
type testEnv struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Provider *mocksauth.MockAuthProvider
	Sessions *mocksauth.MemorySessionStore
	Repo     *mocksauth.MemoryUserRepo
}

// newTestEnv builds the service stack on in-memory dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	provider := mocksauth.NewMockAuthProvider()
	sessions := mocksauth.NewMemorySessionStore()
	repo := mocksauth.NewMemoryUserRepo()

	return &testEnv{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: provider,
			Sessions: sessions,
			Users:    repo,
		}),
		Users:    service.NewUserService(repo),
		Provider: provider,
		Sessions: sessions,
		Repo:     repo,
	}
}

// loginAs completes a login for the given provider claims and returns the
// session token, ready to be sent as a session cookie.
func (e *testEnv) loginAs(t *testing.T, providerID, email string) string {
	t.Helper()
	e.Provider.DefaultClaims.ProviderID = providerID
	e.Provider.DefaultClaims.Email = email

	res, err := e.Auth.CompleteLogin(context.Background(), service.CompleteLoginInput{
		Code:  "code",
		State: "state",
		Nonce: "nonce",
	})
	require.NoError(t, err)
	return res.Session.Token
}

// withSessionCookie attaches a session cookie to the request.
func withSessionCookie(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return r
}

// doRequest runs the handler and returns the recorder.
func doRequest(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
