package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		t.Error("expected local default secrets to be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		t.Error("access and refresh secrets must be independent")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("JWT_REFRESH_SECRET", "s2")

	cfg := Load()

	if cfg.Addr != ":3000" {
		t.Errorf("expected :3000, got %q", cfg.Addr)
	}
	if cfg.DatabaseURL != "postgres://example/db" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.AccessSecret != "s1" || cfg.RefreshSecret != "s2" {
		t.Error("secrets not read from environment")
	}
}
