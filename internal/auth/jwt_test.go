package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("ABC123", "Alice", RoleAdmin)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.RoomCode != "ABC123" {
		t.Errorf("room code = %s, want ABC123", claims.RoomCode)
	}
	if claims.PlayerName != "Alice" {
		t.Errorf("player name = %s, want Alice", claims.PlayerName)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %s, want %s", claims.Role, RoleAdmin)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.Generate("ABC123", "Alice", RolePlayer)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate("ABC123", "Bob", RolePlayer)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
