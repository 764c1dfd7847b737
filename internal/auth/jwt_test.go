package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewJWTService("test-secret")

	userID := uuid.New()
	tenantID := uuid.New()

	token, expiresAt, err := service.GenerateToken(Claims{
		UserID:   userID,
		TenantID: tenantID,
		Email:    "user@example.com",
		Role:     "user",
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}
	if expiresAt.IsZero() {
		t.Fatal("Expected non-zero expiry")
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.UserID)
	}
	if claims.TenantID != tenantID {
		t.Errorf("Expected tenant ID %s, got %s", tenantID, claims.TenantID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Expected email to round-trip, got %q", claims.Email)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a").GenerateToken(Claims{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewJWTService("test-secret")
	if _, err := service.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected validation to fail for malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("Expected password to match its hash")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("Expected wrong password to be rejected")
	}
}
