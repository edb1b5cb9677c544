package gateway

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthenticatorUserID(t *testing.T) {
	auth := NewAuthenticator("test-secret")

	userID, err := auth.UserID(signToken(t, "test-secret", "42"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user id = %d, want 42", userID)
	}
}

func TestAuthenticatorRejectsWrongSecret(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	if _, err := auth.UserID(signToken(t, "other-secret", "42")); err == nil {
		t.Fatal("expected error for token signed with wrong secret")
	}
}

func TestAuthenticatorRejectsNonNumericSubject(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	if _, err := auth.UserID(signToken(t, "test-secret", "not-a-number")); err == nil {
		t.Fatal("expected error for non-numeric subject")
	}
}
