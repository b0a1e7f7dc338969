package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	pair, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := issuer.Parse(pair.Access, TokenAccess)
	if err != nil {
		t.Fatalf("Parse access: %v", err)
	}
	if got != userID {
		t.Errorf("Parse returned %s, want %s", got, userID)
	}

	got, err = issuer.Parse(pair.Refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("Parse refresh: %v", err)
	}
	if got != userID {
		t.Errorf("Parse returned %s, want %s", got, userID)
	}
}

func TestTokenWrongPurpose(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	pair, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Parse(pair.Refresh, TokenAccess); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("refresh token accepted as access token, err = %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issued := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(DefaultAccessTTL + time.Minute) }
	if _, err := issuer.Parse(pair.Access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted, err = %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	pair, err := NewTokenIssuer("secret-a").Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("secret-b").Parse(pair.Access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with wrong signature accepted, err = %v", err)
	}
}
