package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Addr != ":8000" {
		t.Errorf("expected addr :8000, got %q", cfg.Addr)
	}
	if cfg.Auth.Mode != AuthRemote {
		t.Errorf("expected remote auth, got %q", cfg.Auth.Mode)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("unexpected api url %q", cfg.APIURL)
	}
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `addr: ":9090"
log_level: debug
allowed_origins:
  - https://focus.example.com
auth:
  mode: jwt
  jwt_secret: s3cret
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://focus.example.com" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.Auth.Mode != AuthJWT || cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("unexpected auth %+v", cfg.Auth)
	}
	// untouched keys keep defaults
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("expected default api url, got %q", cfg.APIURL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o644)

	t.Setenv("FOCUSOS_ADDR", ":7070")
	t.Setenv("FOCUSOS_AUTH_PROVIDER_URL", "https://abc.supabase.co")
	t.Setenv("FOCUSOS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("env should override file, got %q", cfg.Addr)
	}
	if cfg.Auth.ProviderURL != "https://abc.supabase.co" {
		t.Errorf("nested env key not applied: %q", cfg.Auth.ProviderURL)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected comma-separated origins to split, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FOCUSOS_TOKEN", "")
	os.Unsetenv("FOCUSOS_TOKEN")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FOCUSOS_TOKEN=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "missing-is-not-read.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-dotenv" {
		t.Errorf("expected token from .env, got %q", cfg.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"remote without provider", func(c *Config) {}, true},
		{"remote with provider", func(c *Config) { c.Auth.ProviderURL = "https://x.supabase.co" }, false},
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthJWT }, true},
		{"jwt with secret", func(c *Config) { c.Auth.Mode = AuthJWT; c.Auth.JWTSecret = "s" }, false},
		{"unknown mode", func(c *Config) { c.Auth.Mode = "ldap" }, true},
		{"empty addr", func(c *Config) { c.Auth.ProviderURL = "x"; c.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Token = "tok"
	cfg.Auth.JWTSecret = "secret"

	r := cfg.Redacted()
	if r.Token == "tok" || r.Auth.JWTSecret == "secret" {
		t.Fatal("secrets should be masked")
	}
	if r.Auth.APIKey != "" {
		t.Fatal("empty secrets should stay empty")
	}
	if cfg.Token != "tok" {
		t.Fatal("Redacted must not modify the original")
	}
}
