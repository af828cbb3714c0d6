package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8000")
	}
	if cfg.JWTAccessTTL != "1h" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "1h")
	}
	if cfg.JWTRefreshTTL != "48h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "48h")
	}
	if cfg.ActionTokenMaxAge != "24h" {
		t.Errorf("ActionTokenMaxAge = %q, want %q", cfg.ActionTokenMaxAge, "24h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q, want default", cfg.RedisURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("HTTP_ADDR", ":9000")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("DOMAIN", "books.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9000")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.Domain != "books.example.com" {
		t.Errorf("Domain = %q, want %q", cfg.Domain, "books.example.com")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load without JWT_SECRET should fail")
	}
}

func TestLoad_ShortSecretInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load with short JWT_SECRET in production should fail")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load with out-of-range BCRYPT_COST should fail")
	}
}

func TestTTLHelpers(t *testing.T) {
	cfg := &Config{JWTAccessTTL: "30m", JWTRefreshTTL: "72h", ActionTokenMaxAge: "1h"}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
	if got := cfg.RefreshTTL(); got != 72*time.Hour {
		t.Errorf("RefreshTTL = %v, want 72h", got)
	}
	if got := cfg.ActionMaxAge(); got != time.Hour {
		t.Errorf("ActionMaxAge = %v, want 1h", got)
	}

	bad := &Config{JWTAccessTTL: "nope", JWTRefreshTTL: "", ActionTokenMaxAge: "-5m"}
	if got := bad.AccessTTL(); got != time.Hour {
		t.Errorf("AccessTTL fallback = %v, want 1h", got)
	}
	if got := bad.RefreshTTL(); got != 48*time.Hour {
		t.Errorf("RefreshTTL fallback = %v, want 48h", got)
	}
	if got := bad.ActionMaxAge(); got != 24*time.Hour {
		t.Errorf("ActionMaxAge fallback = %v, want 24h", got)
	}
}
