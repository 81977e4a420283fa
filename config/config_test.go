package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Postgres.Host != "localhost" || cfg.Postgres.Port != 5432 {
		t.Errorf("unexpected Postgres defaults: %+v", cfg.Postgres)
	}
	if cfg.Redis.URI != "localhost:6379" {
		t.Errorf("Redis.URI = %q, want localhost:6379", cfg.Redis.URI)
	}
	if cfg.Auth.Mode != AuthModeGoogle {
		t.Errorf("Auth.Mode = %q, want google", cfg.Auth.Mode)
	}
	if cfg.Auth.Session.TTL != 12*time.Hour {
		t.Errorf("Session.TTL = %v, want 12h", cfg.Auth.Session.TTL)
	}
	if cfg.Auth.Google.Scope != "openid email profile" {
		t.Errorf("Google.Scope = %q", cfg.Auth.Google.Scope)
	}
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DEV_AUTH_EMAIL", "someone@example.com")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %q, want :9999", cfg.HTTP.Addr)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want db.internal", cfg.Postgres.Host)
	}
	if cfg.Auth.Mode != AuthModeMock {
		t.Errorf("Auth.Mode = %q, want mock", cfg.Auth.Mode)
	}
	if cfg.Auth.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want 30m", cfg.Auth.Session.TTL)
	}
	if cfg.Auth.DevAuth.Email != "someone@example.com" {
		t.Errorf("DevAuth.Email = %q", cfg.Auth.DevAuth.Email)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "google", expected: AuthModeGoogle},
		{input: "GOOGLE", expected: AuthModeGoogle},
		{input: "mock", expected: AuthModeMock},
		{input: "oauth", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		var m AuthMode
		err := m.UnmarshalText([]byte(tt.input))
		if tt.expectError {
			if err == nil {
				t.Errorf("UnmarshalText(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q): %v", tt.input, err)
			continue
		}
		if m != tt.expected {
			t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, m, tt.expected)
		}
	}
}

func TestSessionConfig_UsingDefaultSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected bool
	}{
		{name: "unset", secret: "", expected: true},
		{name: "well-known default", secret: "keyboard cat", expected: true},
		{name: "configured", secret: "s3kr1t-from-env", expected: false},
	}

	for _, tt := range tests {
		s := SessionConfig{Secret: tt.secret}
		if got := s.UsingDefaultSecret(); got != tt.expected {
			t.Errorf("%s: UsingDefaultSecret() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestSessionConfig_DefaultSecretFromEnvParse(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Auth.Session.UsingDefaultSecret() {
		t.Error("expected the env default secret to count as the discouraged default")
	}
}

func TestAuthConfig_Sanitize_RestoresTTL(t *testing.T) {
	cfg := AuthConfig{}
	cfg.Sanitize()
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("Session.TTL = %v, want 12h", cfg.Session.TTL)
	}
}

func TestAppConfig_DetectDevMode_NodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("expected IsDev=true with NODE_ENV=development")
	}
}
