// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
)

const (
	claimTokenVersion = "token_version"
	claimType         = "type"
	tokenTypeAccess   = "access"
)

// JWTManager signs ES256 access tokens and publishes the verification key
// as a JWKS. Refresh tokens are opaque and never pass through here except
// for minting.
type JWTManager struct {
	signer   jwk.Key
	verifier jwk.Key
	jwks     jwk.Set
	cfg      config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	signer, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	verifier, err := signer.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verifier.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(verifier); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		signer:   signer,
		verifier: verifier,
		jwks:     jwks,
		cfg:      cfg,
	}, nil
}

// loadSigningKey reads a PEM EC key and tags it with ES256 and a kid
// derived from its thumbprint, so every replica sharing the key file
// advertises the same kid.
func loadSigningKey(path string) (jwk.Key, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(pemBytes, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	kid, err := thumbprintKeyID(key)
	if err != nil {
		return nil, err
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	return key, nil
}

func thumbprintKeyID(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("key thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum)[:16], nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}
	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(private, privateKeyPath, 0o600); err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	//nolint:gosec // G306: public key is meant to be readable
	if err := writePEM(public, publicKeyPath, 0o644); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	return nil
}

func writePEM(key jwk.Key, path string, mode os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(path, encoded, mode); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

type AccessTokenClaims struct {
	UserID       string `json:"sub"`
	TokenVersion int    `json:"token_version"`
}

// CreateAccessToken signs a short-lived ES256 token. Membership and admin
// status are deliberately absent; they are resolved per request.
func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.cfg.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.cfg.Issuer).
		Audience([]string{m.cfg.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimTokenVersion, claims.TokenVersion).
		Claim(claimType, tokenTypeAccess).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signer))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// VerifyAccessToken checks signature, issuer, audience and expiry only.
// Denylist and token-version checks happen in the service and middleware.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), m.verifier),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if err != nil {
		if isExpired(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get(claimType, &tokenType); err != nil || tokenType != tokenTypeAccess {
		return nil, invalidClaim("type")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, invalidClaim("sub")
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, invalidClaim("jti")
	}

	// JSON numbers decode as float64.
	var version float64
	if err := token.Get(claimTokenVersion, &version); err != nil {
		return nil, invalidClaim(claimTokenVersion)
	}

	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       subject,
		TokenVersion: int(version),
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func invalidClaim(name string) error {
	return fmt.Errorf("verify token: bad %s claim: %w", name, core.ErrTokenInvalid)
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.jwks); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func (m *JWTManager) KeyID() string {
	kid, _ := m.signer.KeyID()
	return kid
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints an opaque token. An empty familyID starts a new
// rotation family.
func (m *JWTManager) CreateRefreshToken(
	userID, familyID string,
) (*RefreshTokenData, error) {
	token, hash, err := core.NewOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("refresh token for %s: %w", userID, err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      hash,
		ExpiresAt: time.Now().Add(m.cfg.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.cfg.AccessTokenExpire
}
