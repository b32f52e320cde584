// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID       string
	TokenVersion int
	JTI          string
	ExpiresAt    time.Time
}

// Identity is the stored view of a caller: the principal used for tenant
// filtering plus the token version that invalidates older access tokens.
type Identity struct {
	Principal    scope.Principal
	TokenVersion int
}

type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID string) (*Identity, error)
}

const claimsKey contextKey = "jwt_claims"

// Authenticator verifies the bearer token and resolves the caller's current
// membership. Membership is never read from the token.
func Authenticator(
	verifier TokenVerifier,
	loader PrincipalLoader,
	cache *PrincipalCache,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, verifier, loader, cache)
			if err != nil {
				core.JSONError(w, authError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(
	r *http.Request,
	verifier TokenVerifier,
	loader PrincipalLoader,
	cache *PrincipalCache,
) (context.Context, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, core.UnauthorizedError("missing authorization token")
	}

	ctx := r.Context()
	claims, err := verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	identity, err := resolveIdentity(ctx, loader, cache, claims.UserID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil, core.TokenInvalidError()
	case err != nil:
		return nil, err
	}

	if claims.TokenVersion < identity.TokenVersion {
		return nil, core.TokenRevokedError()
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	return scope.WithPrincipal(ctx, identity.Principal), nil
}

// authError maps verification failures onto the token error envelopes.
// Anything else, such as a store outage while loading the principal, keeps
// its own classification.
func authError(err error) error {
	if core.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	case errors.Is(err, core.ErrTokenInvalid):
		return core.TokenInvalidError()
	}
	if appErr := core.ClassifyError(err, "user"); appErr != nil {
		return appErr
	}
	return err
}

func resolveIdentity(
	ctx context.Context,
	loader PrincipalLoader,
	cache *PrincipalCache,
	userID string,
) (*Identity, error) {
	if identity, ok := cache.Get(userID); ok {
		return identity, nil
	}

	identity, err := loader.LoadPrincipal(ctx, userID)
	if err != nil {
		return nil, err
	}
	cache.Set(userID, identity)
	return identity, nil
}

// RequireAdmin rejects callers whose stored admin flag is off.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := CurrentPrincipal(w, r)
		if !ok {
			return
		}

		if !principal.IsAdmin {
			slog.DebugContext(r.Context(), "admin route denied", "user_id", principal.UserID)
			core.JSONError(w, core.ForbiddenError("admin privileges required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentPrincipal returns the authenticated principal, answering 401
// itself when the route was mounted without the authenticator.
func CurrentPrincipal(
	w http.ResponseWriter,
	r *http.Request,
) (scope.Principal, bool) {
	p, ok := scope.FromContext(r.Context())
	if !ok {
		core.JSONError(w, core.UnauthorizedError("authentication required"))
	}
	return p, ok
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey).(*AccessTokenClaims)
	return claims
}
