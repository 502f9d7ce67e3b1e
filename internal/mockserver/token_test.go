// ABOUTME: Tests for JWT generation and validation
// ABOUTME: Covers round trips, expiry, and forged tokens

package mockserver

import (
	"testing"
	"time"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("demo@medquery.com", "doctor", "secret", time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "demo@medquery.com" {
		t.Errorf("expected subject demo@medquery.com, got %s", claims.Subject)
	}
	if claims.Role != "doctor" {
		t.Errorf("expected role doctor, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("demo@medquery.com", "doctor", "secret", time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestToken_Expired(t *testing.T) {
	token, err := GenerateToken("demo@medquery.com", "doctor", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Error("expected validation to fail for expired token")
	}
}

func TestToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", "secret"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}
