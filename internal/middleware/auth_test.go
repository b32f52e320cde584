// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if token != "good" {
		return nil, fmt.Errorf("parse: %w", core.ErrTokenInvalid)
	}
	return s.claims, s.err
}

type stubLoader struct {
	identities map[string]*Identity
	calls      int
}

func (s *stubLoader) LoadPrincipal(
	_ context.Context,
	userID string,
) (*Identity, error) {
	s.calls++
	id, ok := s.identities[userID]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return id, nil
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestAuthenticator(t *testing.T) {
	member := &Identity{
		Principal: scope.Principal{
			UserID:     "u1",
			IsAdmin:    true,
			Membership: scope.OrganizationMember{OrganizationID: "org-1"},
		},
		TokenVersion: 2,
	}

	tests := []struct {
		name     string
		header   string
		claims   *AccessTokenClaims
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing header",
			wantCode: http.StatusUnauthorized,
			wantErr:  "UNAUTHORIZED",
		},
		{
			name:     "bad token",
			header:   "Bearer bad",
			wantCode: http.StatusUnauthorized,
			wantErr:  "TOKEN_INVALID",
		},
		{
			name:     "unknown user",
			header:   "Bearer good",
			claims:   &AccessTokenClaims{UserID: "ghost"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "TOKEN_INVALID",
		},
		{
			name:     "stale token version",
			header:   "Bearer good",
			claims:   &AccessTokenClaims{UserID: "u1", TokenVersion: 1},
			wantCode: http.StatusUnauthorized,
			wantErr:  "TOKEN_REVOKED",
		},
		{
			name:     "valid",
			header:   "bearer good",
			claims:   &AccessTokenClaims{UserID: "u1", TokenVersion: 2},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &stubLoader{identities: map[string]*Identity{"u1": member}}
			mw := Authenticator(stubVerifier{claims: tt.claims}, loader, nil)

			var got scope.Principal
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = scope.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantErr != "" {
				if code := errorCode(t, rec); code != tt.wantErr {
					t.Fatalf("error code = %q, want %q", code, tt.wantErr)
				}
				return
			}

			if got.UserID != "u1" || !got.IsAdmin {
				t.Fatalf("unexpected principal %+v", got)
			}
			if orgID, ok := got.OrganizationID(); !ok || orgID != "org-1" {
				t.Fatalf("membership = %#v", got.Membership)
			}
		})
	}
}

func TestAuthenticatorUsesCache(t *testing.T) {
	cache, err := NewPrincipalCache(100, time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer cache.Close()

	loader := &stubLoader{identities: map[string]*Identity{
		"u1": {Principal: scope.Principal{UserID: "u1", Membership: scope.Solo{}}},
	}}
	mw := Authenticator(
		stubVerifier{claims: &AccessTokenClaims{UserID: "u1"}},
		loader,
		cache,
	)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	do()
	do()
	if loader.calls != 1 {
		t.Fatalf("expected one load, got %d", loader.calls)
	}

	cache.Invalidate("u1")
	do()
	if loader.calls != 2 {
		t.Fatalf("expected a reload after invalidation, got %d loads", loader.calls)
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name      string
		principal *scope.Principal
		want      int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"not admin", &scope.Principal{UserID: "u1"}, http.StatusForbidden},
		{"admin", &scope.Principal{UserID: "u1", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(scope.WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			RequireAdmin(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"BEARER x.y.z": "x.y.z",
	}

	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := ExtractToken(req); got != want {
			t.Errorf("ExtractToken(%q) = %q, want %q", header, got, want)
		}
	}
}
