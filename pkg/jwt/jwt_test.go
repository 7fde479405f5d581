package jwt

import (
	"errors"
	"testing"
	"time"

	"sawit-ops/backend/config"
)

func testManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestGenerateAndParse(t *testing.T) {
	mgr := testManager(15 * time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "SATPAM", "co-1", "dev-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "SATPAM" || claims.CompanyID != "co-1" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.DeviceID != "dev-1" {
		t.Errorf("device id = %q", claims.DeviceID)
	}
	if claims.TokenType != "access" {
		t.Errorf("token type = %q, want access", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("jti not assigned")
	}
}

func TestRefreshTokenType(t *testing.T) {
	mgr := testManager(15 * time.Minute)

	token, err := mgr.GenerateRefreshToken("user-1", "SATPAM", "co-1", "")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("token type = %q, want refresh", claims.TokenType)
	}
}

func TestParseExpiredToken(t *testing.T) {
	mgr := testManager(-time.Minute) // already expired at issue

	token, err := mgr.GenerateAccessToken("user-1", "SATPAM", "co-1", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	mgr := testManager(15 * time.Minute)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := other.GenerateAccessToken("user-1", "SATPAM", "co-1", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}

	if _, err := mgr.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage got %v, want ErrTokenInvalid", err)
	}
}
