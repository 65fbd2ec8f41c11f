package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("ADDR", "")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.Store)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Addr)
	}
	if cfg.ReminderInterval != time.Minute {
		t.Errorf("expected 1m interval, got %v", cfg.ReminderInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.OIDC.Enabled() {
		t.Error("expected SSO disabled without issuer")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE", StorePostgres)
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/weights?sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL == "" {
		t.Error("expected DATABASE_URL to be kept")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"unknown store":   {"STORE", "mongo"},
		"bad interval":    {"REMINDER_INTERVAL", "soon"},
		"bad login limit": {"LOGIN_RATE_PER_MINUTE", "0"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORE", "")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
