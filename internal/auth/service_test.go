// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/core"
)

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "crm-test",
		Audience:           "crm-test-api",
	})
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	return m
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: make(map[string]*RefreshToken)}
}

func (m *memTokens) Create(_ context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *token
	m.tokens[token.ID] = &cp
	return nil
}

func (m *memTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tok := range m.tokens {
		if tok.TokenHash == hash {
			cp := *tok
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
}

func (m *memTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[id]
	if !ok || tok.IsUsed {
		return fmt.Errorf("mark used: %w", core.ErrNotFound)
	}
	now := time.Now()
	tok.IsUsed = true
	tok.UsedAt = &now
	tok.ReplacedByID = &replacedByID
	return nil
}

func (m *memTokens) RevokeByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[id]
	if !ok {
		return fmt.Errorf("revoke: %w", core.ErrNotFound)
	}
	now := time.Now()
	tok.RevokedAt = &now
	return nil
}

func (m *memTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, tok := range m.tokens {
		if tok.FamilyID == familyID && tok.RevokedAt == nil {
			tok.RevokedAt = &now
		}
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, tok := range m.tokens {
		if tok.UserID == userID && tok.RevokedAt == nil {
			tok.RevokedAt = &now
		}
	}
	return nil
}

func (m *memTokens) familyRevoked(familyID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tok := range m.tokens {
		if tok.FamilyID == familyID && tok.RevokedAt == nil {
			return false
		}
	}
	return true
}

type memUsers struct {
	users map[string]*UserInfo
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (*UserInfo, error) {
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, req NewUser) (*UserInfo, error) {
	for _, u := range m.users {
		if u.Username == req.Username || u.Email == req.Email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u := &UserInfo{
		ID:           fmt.Sprintf("user-%d", len(m.users)+1),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: req.PasswordHash,
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, id string) error {
	m.users[id].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.users[id].PasswordHash = hash
	return nil
}

type memDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func (m *memDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

type fixture struct {
	svc      *Service
	tokens   *memTokens
	users    *memUsers
	denylist *memDenylist
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens:   newMemTokens(),
		users:    &memUsers{users: make(map[string]*UserInfo)},
		denylist: &memDenylist{revoked: make(map[string]time.Duration)},
	}
	f.svc = NewService(f.tokens, newTestJWT(t), f.users, f.denylist)
	return f
}

func (f *fixture) register(t *testing.T) *AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Username:  "jane",
		Email:     "jane@example.test",
		Password:  "s3cret-password",
		FirstName: "Jane",
		LastName:  "Doe",
	}, Client{UserAgent: "test-agent", IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	if reg.User.Username != "jane" || reg.User.OrganizationID != nil {
		t.Fatalf("unexpected user %+v", reg.User)
	}
	if reg.Tokens.AccessToken == "" || reg.Tokens.RefreshToken == "" {
		t.Fatal("tokens missing")
	}

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "jane",
		Email:    "other@example.test",
		Password: "s3cret-password",
	}, Client{})
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("duplicate register: expected ErrAccountExists, got %v", err)
	}

	for _, login := range []string{"jane", "jane@example.test"} {
		if _, err := f.svc.Login(context.Background(), LoginRequest{
			Login:    login,
			Password: "s3cret-password",
		}, Client{}); err != nil {
			t.Fatalf("login as %q: %v", login, err)
		}
	}

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Login:    "jane",
		Password: "wrong-password",
	}, Client{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Login:    "nobody",
		Password: "whatever-password",
	}, Client{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)

	claims, err := f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != reg.User.ID || claims.JTI == "" || claims.TokenVersion != 0 {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other := newTestJWT(t)
	if _, err := other.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("foreign key: expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshRotationAndReuse(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)
	original := reg.Tokens.RefreshToken

	rotated, err := f.svc.Refresh(context.Background(), original, Client{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.Tokens.RefreshToken == original {
		t.Fatal("refresh token was not rotated")
	}

	_, err = f.svc.Refresh(context.Background(), original, Client{})
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("reuse: expected ErrTokenReuse, got %v", err)
	}

	stored, err := f.tokens.FindByHash(context.Background(), core.HashToken(original))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !f.tokens.familyRevoked(stored.FamilyID) {
		t.Fatal("reuse must revoke the whole family")
	}

	_, err = f.svc.Refresh(context.Background(), rotated.Tokens.RefreshToken, Client{})
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("revoked family: expected ErrTokenRevoked, got %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Refresh(context.Background(), "does-not-exist", Client{})
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestLogoutDenylistsAccessToken(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)
	ctx := context.Background()

	claims, err := f.svc.VerifyAccessToken(ctx, reg.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := f.svc.Logout(ctx, reg.Tokens.RefreshToken, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	ttl, ok := f.denylist.revoked[claims.JTI]
	if !ok || ttl <= 0 || ttl > 15*time.Minute {
		t.Fatalf("jti not denylisted with a bounded ttl: %v", ttl)
	}

	_, err = f.svc.VerifyAccessToken(ctx, reg.Tokens.AccessToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}

	_, err = f.svc.Refresh(ctx, reg.Tokens.RefreshToken, Client{})
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("refresh after logout: expected ErrTokenRevoked, got %v", err)
	}
}

func TestVerifyFailsOpenWhenDenylistDown(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)
	f.denylist.err = errors.New("redis down")

	if _, err := f.svc.VerifyAccessToken(context.Background(), reg.Tokens.AccessToken); err != nil {
		t.Fatalf("expected fail-open, got %v", err)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t)
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, reg.User.ID, "wrong-password", "new-password-1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := f.svc.ChangePassword(ctx, reg.User.ID, "s3cret-password", "new-password-1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if f.users.users[reg.User.ID].TokenVersion != 1 {
		t.Fatal("token version was not incremented")
	}

	if _, err := f.svc.Login(ctx, LoginRequest{
		Login:    "jane",
		Password: "new-password-1",
	}, Client{}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
