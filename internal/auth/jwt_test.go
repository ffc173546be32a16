package auth_test

import (
	"testing"
	"time"

	"github.com/coursehub/coursehub/internal/auth"
)

func newManager(accessTTL, refreshTTL time.Duration) *auth.Manager {
	return auth.NewManager("test-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newManager(time.Minute, time.Hour)

	raw, err := m.GenerateAccessToken("user-1", "ada@example.com", "Admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("got userID %q, want user-1", claims.UserID)
	}

	if claims.AccountType != "Admin" {
		t.Fatalf("got accountType %q, want Admin", claims.AccountType)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newManager(time.Minute, time.Hour)

	raw, jti, expiresAt, err := m.GenerateRefreshToken("user-1", "ada@example.com", "Student")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if jti == "" {
		t.Fatalf("expected non-empty jti")
	}

	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt should be in the future, got %v", expiresAt)
	}

	claims, err := m.VerifyRefreshToken(raw)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.JTI != jti {
		t.Fatalf("got jti %q, want %q", claims.JTI, jti)
	}
}

func TestTokenTypeIsEnforced(t *testing.T) {
	m := newManager(time.Minute, time.Hour)

	access, err := m.GenerateAccessToken("user-1", "ada@example.com", "Admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.VerifyRefreshToken(access); err == nil {
		t.Fatalf("access token must not verify as refresh token")
	}

	refresh, _, _, err := m.GenerateRefreshToken("user-1", "ada@example.com", "Admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(refresh); err == nil {
		t.Fatalf("refresh token must not verify as access token")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := newManager(-time.Minute, time.Hour)

	raw, err := m.GenerateAccessToken("user-1", "ada@example.com", "Admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretIsRejected(t *testing.T) {
	m := newManager(time.Minute, time.Hour)
	other := auth.NewManager("other-secret", time.Minute, time.Hour)

	raw, err := m.GenerateAccessToken("user-1", "ada@example.com", "Admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := other.VerifyAccessToken(raw); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestHashRefreshTokenIsDeterministic(t *testing.T) {
	m := newManager(time.Minute, time.Hour)
	other := auth.NewManager("other-secret", time.Minute, time.Hour)

	h1 := m.HashRefreshToken("some-raw-token")
	h2 := m.HashRefreshToken("some-raw-token")

	if h1 != h2 {
		t.Fatalf("hash should be deterministic")
	}

	if h1 == m.HashRefreshToken("another-raw-token") {
		t.Fatalf("different tokens should hash differently")
	}

	if h1 == other.HashRefreshToken("some-raw-token") {
		t.Fatalf("hash should depend on the secret")
	}
}
