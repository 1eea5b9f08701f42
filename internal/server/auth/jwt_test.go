package auth

import (
	"errors"
	"testing"
	"time"

	"lockbox/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "a@x.com", "Alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "a@x.com" || claims.Name != "Alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", "a@x.com", "A", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "b@x.com", "B", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

// Expired and tampered tokens must be indistinguishable to the caller.
func TestParseToken_UniformFailure(t *testing.T) {
	t.Parallel()

	secret := []byte("k")

	expired, err := GenerateToken("u", "e@x.com", "E", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	forged, err := GenerateToken("u", "e@x.com", "E", []byte("other"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, errExpired := ParseToken(expired, secret)
	_, errForged := ParseToken(forged, secret)

	if !errors.Is(errExpired, common.ErrInvalidToken) || !errors.Is(errForged, common.ErrInvalidToken) {
		t.Fatalf("want uniform ErrInvalidToken, got %v / %v", errExpired, errForged)
	}
	if errExpired.Error() != errForged.Error() {
		t.Fatalf("error text differs: %q vs %q", errExpired, errForged)
	}
}
