package auth

import (
	"testing"
	"time"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret-do-not-use",
		Expiry: expiry,
		Issuer: "placements-api-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := testManager(time.Hour)

	token, err := manager.GenerateToken(42, "23ucs001", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.LoginID != "23ucs001" || claims.Role != "STUDENT" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "placements-api-test" {
		t.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected a jti on every token")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := testManager(-time.Minute)

	token, err := manager.GenerateToken(1, "23ucs001", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := testManager(time.Hour).GenerateToken(1, "23ucs001", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour, Issuer: "x"})
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := other.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
