package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, expected 5000", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL.Std() != 24*time.Hour {
		t.Errorf("default token ttl = %v, expected 24h", cfg.Auth.TokenTTL)
	}
	if !cfg.UsingInsecureSecret() {
		t.Error("expected insecure default secret to be flagged")
	}
	if cfg.Redis.URL != "" {
		t.Errorf("expected empty redis url, got %q", cfg.Redis.URL)
	}
}

func TestLoaderYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9001
  mode: release
auth:
  secret: file-secret
  token_ttl: 1h
redis:
  url: redis://localhost:6379/2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader(path).WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, expected 9001", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("secret = %q, expected file-secret", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL.Std() != time.Hour {
		t.Errorf("token ttl = %v, expected 1h", cfg.Auth.TokenTTL)
	}
	if cfg.UsingInsecureSecret() {
		t.Error("configured secret should not be flagged insecure")
	}
	if cfg.IsDevelopment() {
		t.Error("release mode should not report development")
	}
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRE", "30m")
	t.Setenv("REDIS_URL", "redis://example:6379")

	cfg, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, expected 7777", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("secret = %q, expected env-secret", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL.Std() != 30*time.Minute {
		t.Errorf("token ttl = %v, expected 30m", cfg.Auth.TokenTTL)
	}
	if cfg.Redis.URL != "redis://example:6379" {
		t.Errorf("redis url = %q", cfg.Redis.URL)
	}
}

func TestLoaderMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewLoader(path).WithDotEnv(false).Load(); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}
