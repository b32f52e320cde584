// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/auth"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
)

// Invalidator drops cached principals after a write that changes what the
// authenticator must see.
type Invalidator interface {
	Invalidate(userIDs ...string)
}

type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService accepts a nil cache.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByLogin(
	ctx context.Context,
	login string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	req auth.NewUser,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: req.PasswordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	if err := s.repo.IncrementTokenVersion(ctx, userID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
	return nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// LoadPrincipal reads the caller's current membership and admin flag from
// storage rather than from token claims, so removals and admin toggles take
// effect without a new login.
func (s *Service) LoadPrincipal(
	ctx context.Context,
	userID string,
) (*middleware.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		Principal:    user.Principal(),
		TokenVersion: user.TokenVersion,
	}, nil
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PasswordHash:   u.PasswordHash,
		IsAdmin:        u.IsAdmin,
		OrganizationID: u.OrganizationID,
		TokenVersion:   u.TokenVersion,
	}
}

var (
	_ auth.UserProvider          = (*Service)(nil)
	_ middleware.PrincipalLoader = (*Service)(nil)
)
