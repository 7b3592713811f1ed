package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	claims, err := Parse(token, testSecret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
}

func TestParseRejectsBadSignature(t *testing.T) {
	token, err := NewSessionToken("user-123", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	if _, err := Parse(token, testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse("not-a-jwt", testSecret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse malformed: err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := NewSessionToken("user-123", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	if _, err := Parse(token, testSecret); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Parse expired: err = %v, want ErrExpiredToken", err)
	}
}
