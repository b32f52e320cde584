// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/core"
)

func TestKeyIDStableAcrossReloads(t *testing.T) {
	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: time.Minute,
		Issuer:            "crm-test",
		Audience:          "crm-test-api",
	}
	if err := GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath); err != nil {
		t.Fatalf("generate: %v", err)
	}

	first, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if first.KeyID() == "" || first.KeyID() != second.KeyID() {
		t.Fatalf("kid %q != %q", first.KeyID(), second.KeyID())
	}

	token, _, err := first.CreateAccessToken(AccessTokenClaims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := second.VerifyAccessToken(context.Background(), token); err != nil {
		t.Fatalf("replica should verify: %v", err)
	}
}

func TestVerifyExpiredAccessToken(t *testing.T) {
	m := newTestJWT(t)
	m.cfg.AccessTokenExpire = -time.Minute

	token, _, err := m.CreateAccessToken(AccessTokenClaims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = m.VerifyAccessToken(context.Background(), token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	m := newTestJWT(t)

	_, err := m.VerifyAccessToken(context.Background(), "not.a.jwt")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWKSHandler(t *testing.T) {
	m := newTestJWT(t)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, m.KeyID()) || !strings.Contains(body, `"use":"sig"`) {
		t.Fatalf("jwks = %s", body)
	}
	if strings.Contains(body, `"d":`) {
		t.Fatal("jwks leaks the private scalar")
	}
}

func TestRefreshTokenFamily(t *testing.T) {
	m := newTestJWT(t)

	fresh, err := m.CreateRefreshToken("u1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if fresh.FamilyID == "" || fresh.Hash != core.HashToken(fresh.Token) {
		t.Fatalf("refresh = %+v", fresh)
	}

	rotated, err := m.CreateRefreshToken("u1", fresh.FamilyID)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.FamilyID != fresh.FamilyID || rotated.Token == fresh.Token {
		t.Fatalf("rotated = %+v", rotated)
	}
}
