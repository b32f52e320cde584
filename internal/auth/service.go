// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrAccountExists      = errors.New("username or email already exists")
)

type UserProvider interface {
	GetByLogin(ctx context.Context, login string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, req NewUser) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	denylist     Denylist
	now          func() time.Time
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	denylist Denylist,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		denylist:     denylist,
		now:          time.Now,
	}
}

// VerifyAccessToken validates the token and rejects any whose jti was
// revoked at logout. A denylist outage fails open.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.denylist == nil {
		return claims, nil
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		slog.WarnContext(ctx, "denylist lookup failed, allowing token",
			"error", err,
			"user_id", claims.UserID,
		)
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

// Client identifies the device a refresh token family was issued to.
type Client struct {
	UserAgent string
	IP        string
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	client Client,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByLogin(ctx, req.Login)
	switch {
	case errors.Is(err, core.ErrNotFound):
		//nolint:errcheck // equalizes timing for unknown logins
		_, _ = core.CheckPasswordOrDummy(req.Password, "")
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPasswordOrDummy(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !check.Match {
		return nil, ErrInvalidCredentials
	}

	if check.Rehash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, check.Rehash); err != nil {
			slog.WarnContext(ctx, "password rehash failed", "error", err, "user_id", user.ID)
		}
	}

	return s.issue(ctx, user, client, nil)
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	client Client,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	switch {
	case errors.Is(err, core.ErrDuplicateKey):
		return nil, ErrAccountExists
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.issue(ctx, user, client, nil)
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated is treated as theft and burns the whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
	client Client,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	case err != nil:
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.IsUsed {
		s.burnFamily(ctx, stored)
		return nil, ErrTokenReuse
	}

	if !stored.IsValid(s.now()) {
		if stored.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.userProvider.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issue(ctx, user, client, stored)
}

func (s *Service) burnFamily(ctx context.Context, stored *RefreshToken) {
	slog.WarnContext(ctx, "refresh token reuse detected",
		"user_id", stored.UserID,
		"family_id", stored.FamilyID,
	)
	if err := s.repo.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
		slog.ErrorContext(ctx, "revoke token family failed",
			"error", err,
			"family_id", stored.FamilyID,
		)
	}
}

// Logout revokes the presented refresh token and denylists the access
// token used for the call until it would have expired anyway.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken string,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if refreshToken != "" {
		storedToken, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find token: %w", err)
		case storedToken.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
				!errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("revoke token: %w", err)
			}
		}
	}

	if s.denylist != nil {
		ttl := claims.ExpiresAt.Sub(s.now())
		if err := s.denylist.Revoke(ctx, claims.JTI, ttl); err != nil {
			slog.WarnContext(ctx, "denylist access token failed",
				"error", err,
				"user_id", claims.UserID,
			)
		}
	}

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !check.Match {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// issue mints an access token and the next refresh token. When rotating,
// the previous token is claimed first so two concurrent refreshes with the
// same token cannot both succeed.
func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	client Client,
	rotating *RefreshToken,
) (*AuthResponse, error) {
	accessToken, expiresAt, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	familyID := ""
	if rotating != nil {
		familyID = rotating.FamilyID
	}
	minted, err := s.jwt.CreateRefreshToken(user.ID, familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	next := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: minted.Hash,
		FamilyID:  minted.FamilyID,
		ExpiresAt: minted.ExpiresAt,
		UserAgent: client.UserAgent,
		IPAddress: client.IP,
	}

	if rotating != nil {
		err := s.repo.MarkAsUsed(ctx, rotating.ID, next.ID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			return nil, ErrTokenReuse
		case err != nil:
			return nil, fmt.Errorf("rotate refresh token: %w", err)
		}
	}

	if err := s.repo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: minted.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    expiresAt,
		},
	}, nil
}
