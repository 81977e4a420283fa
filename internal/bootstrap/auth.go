package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/RobinWillson/authsite/config"
	"github.com/RobinWillson/authsite/internal/adapters/devauth"
	"github.com/RobinWillson/authsite/internal/adapters/google"
	redisadapter "github.com/RobinWillson/authsite/internal/adapters/redis"
	"github.com/RobinWillson/authsite/internal/data"
	"github.com/RobinWillson/authsite/internal/ports"
	"github.com/RobinWillson/authsite/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	IsDev       bool
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service based on the configured auth mode.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	warnInsecureSessionSecret(deps)

	if deps.RedisClient == nil {
		return nil, fmt.Errorf("auth service requires a redis client")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("auth service requires a database")
	}

	provider, err := buildAuthProvider(deps)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:"),
		Users:      data.NewUserRepo(deps.DB),
		SessionTTL: deps.Auth.Session.TTL,
		Logger:     deps.Logger,
	}), nil
}

// warnInsecureSessionSecret flags the well-known placeholder secret outside
// dev mode.
func warnInsecureSessionSecret(deps AuthDeps) {
	if deps.Logger == nil || deps.IsDev {
		return
	}
	if deps.Auth.Session.UsingDefaultSecret() {
		deps.Logger.Warn("SESSION_SECRET is unset or left at its default; set a unique value in production")
	}
}

//nolint:ireturn // the provider kind is decided by configuration.
func buildAuthProvider(deps AuthDeps) (ports.AuthProvider, error) {
	switch deps.Auth.Mode {
	case config.AuthModeMock:
		if deps.Logger != nil {
			deps.Logger.Warn("using mock auth provider; do not use in production",
				"email", deps.Auth.DevAuth.Email)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			ProviderID:  deps.Auth.DevAuth.ProviderID,
			Email:       deps.Auth.DevAuth.Email,
			DisplayName: deps.Auth.DevAuth.DisplayName,
			AvatarURL:   deps.Auth.DevAuth.AvatarURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeGoogle:
		prov, err := google.NewProvider(google.ProviderConfig{
			ClientID:     deps.Auth.Google.ClientID,
			ClientSecret: deps.Auth.Google.ClientSecret,
			RedirectURL:  deps.Auth.Google.RedirectURL,
			Scope:        deps.Auth.Google.Scope,
			IssuerURL:    deps.Auth.Google.IssuerURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create google auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode: %q", deps.Auth.Mode)
	}
}
