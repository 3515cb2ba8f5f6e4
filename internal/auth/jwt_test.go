package auth

import (
	"errors"
	"testing"
	"time"

	"calabash/config"

	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.AdminConfig {
	return &config.AdminConfig{
		Password:    "secret2024",
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "calabash",
	}
}

func TestCheckPasswordPlaintext(t *testing.T) {
	cfg := testConfig()
	if err := CheckPassword(cfg, "secret2024"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(cfg, "nope"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestCheckPasswordHashWins(t *testing.T) {
	cfg := testConfig()
	hash, err := bcrypt.GenerateFromPassword([]byte("other-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg.PasswordHash = string(hash)

	if err := CheckPassword(cfg, "other-pass"); err != nil {
		t.Errorf("hash match rejected: %v", err)
	}
	if err := CheckPassword(cfg, "secret2024"); !errors.Is(err, ErrInvalidPassword) {
		t.Error("plaintext must be ignored when a hash is configured")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateAdminToken(cfg)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	claims, err := ParseAdminToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAdminToken: %v", err)
	}
	if claims.Role != "admin" || claims.Issuer != "calabash" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateAdminToken(cfg)
	if err != nil {
		t.Fatal(err)
	}
	other := testConfig()
	other.TokenSecret = "different"
	if _, err := ParseAdminToken(other, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.TokenExpiry = -time.Minute
	token, err := GenerateAdminToken(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAdminToken(cfg, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseAdminToken(testConfig(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
