// AngelaMos | 2026
// service.go

package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

// PrincipalInvalidator drops cached principals after membership changes.
type PrincipalInvalidator interface {
	Invalidate(userIDs ...string)
}

type Service struct {
	reads        Stores
	tx           Transactor
	cache        PrincipalInvalidator
	hashPassword func(string) (string, error)
}

func NewService(
	reads Stores,
	tx Transactor,
	cache PrincipalInvalidator,
) *Service {
	return &Service{
		reads:        reads,
		tx:           tx,
		cache:        cache,
		hashPassword: core.HashPassword,
	}
}

// Bootstrap turns a solo user into the admin of a new organization and
// moves every record they created into it, atomically. A user who already
// belongs to an organization gets a conflict and nothing changes.
func (s *Service) Bootstrap(
	ctx context.Context,
	p scope.Principal,
	req BootstrapRequest,
) (_ *BootstrapResult, err error) {
	ctx, span := core.StartSpan(ctx, "organization.Bootstrap",
		attribute.String("user.id", p.UserID),
	)
	defer span.End()
	defer func() { core.CountBootstrap(ctx, err) }()

	if _, ok := p.OrganizationID(); ok {
		return nil, fmt.Errorf("bootstrap organization: %w", alreadyMember())
	}

	org := &Organization{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: p.UserID,
	}

	var restamped int64
	err = s.tx.WithinTx(ctx, func(st Stores) error {
		u, err := st.Organizations.LockUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if u.OrganizationID != nil {
			return alreadyMember()
		}

		if err := st.Organizations.Create(ctx, org); err != nil {
			return err
		}

		if err := st.Organizations.AssignFounder(ctx, p.UserID, org.ID); err != nil {
			return err
		}

		restamped, err = st.Organizations.RestampRecords(ctx, p.UserID, org.ID)
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("bootstrap organization: %w", err)
	}

	s.invalidate(p.UserID)

	slog.InfoContext(ctx, "organization created",
		"organization_id", org.ID,
		"user_id", p.UserID,
		"restamped_records", restamped,
	)

	return &BootstrapResult{
		Organization:     ToOrganizationResponse(org),
		RestampedRecords: restamped,
	}, nil
}

func (s *Service) Get(
	ctx context.Context,
	p scope.Principal,
) (*Organization, error) {
	orgID, ok := p.OrganizationID()
	if !ok {
		return nil, fmt.Errorf("get organization: %w", core.ErrNotFound)
	}
	return s.reads.Organizations.GetByID(ctx, orgID)
}

func (s *Service) ListMembers(
	ctx context.Context,
	p scope.Principal,
) ([]user.User, error) {
	orgID, ok := p.OrganizationID()
	if !ok {
		return nil, fmt.Errorf("list members: %w",
			core.ForbiddenError("you are not part of an organization"))
	}
	return s.reads.Users.ListByOrganization(ctx, orgID)
}

// Invite creates a user directly inside the caller's organization,
// bypassing self-registration.
func (s *Service) Invite(
	ctx context.Context,
	p scope.Principal,
	req InviteRequest,
) (_ *user.User, err error) {
	defer func() { core.CountMembershipChange(ctx, "invite", err) }()

	orgID, err := requireAdmin(p)
	if err != nil {
		return nil, fmt.Errorf("invite member: %w", err)
	}

	passwordHash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &user.User{
		ID:             uuid.New().String(),
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   passwordHash,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		OrganizationID: &orgID,
		IsAdmin:        req.IsAdmin,
	}

	err = s.tx.WithinTx(ctx, func(st Stores) error {
		exists, err := st.Users.ExistsByUsernameOrEmail(ctx, member.Username, member.Email)
		if err != nil {
			return err
		}
		if exists {
			return core.ErrDuplicateKey
		}
		return st.Users.Create(ctx, member)
	})
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, fmt.Errorf("invite member: %w", core.DuplicateError("username or email"))
	}
	if err != nil {
		return nil, fmt.Errorf("invite member: %w", err)
	}

	slog.InfoContext(ctx, "member invited",
		"organization_id", orgID,
		"member_id", member.ID,
		"invited_by", p.UserID,
		"is_admin", member.IsAdmin,
	)

	return member, nil
}

// RemoveMember detaches a user from the organization. The user keeps their
// account; records they created stay with the organization.
func (s *Service) RemoveMember(
	ctx context.Context,
	p scope.Principal,
	memberID string,
) (err error) {
	defer func() { core.CountMembershipChange(ctx, "remove", err) }()

	orgID, err := s.checkManage(p, memberID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(st Stores) error {
		return st.Organizations.ClearMembership(ctx, orgID, memberID)
	})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.invalidate(memberID)

	slog.InfoContext(ctx, "member removed",
		"organization_id", orgID,
		"member_id", memberID,
		"removed_by", p.UserID,
	)

	return nil
}

func (s *Service) ToggleAdmin(
	ctx context.Context,
	p scope.Principal,
	memberID string,
) (_ bool, err error) {
	defer func() { core.CountMembershipChange(ctx, "toggle_admin", err) }()

	orgID, err := s.checkManage(p, memberID)
	if err != nil {
		return false, fmt.Errorf("toggle admin: %w", err)
	}

	var isAdmin bool
	err = s.tx.WithinTx(ctx, func(st Stores) error {
		var err error
		isAdmin, err = st.Organizations.ToggleAdmin(ctx, orgID, memberID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("toggle admin: %w", err)
	}

	s.invalidate(memberID)

	slog.InfoContext(ctx, "member admin status changed",
		"organization_id", orgID,
		"member_id", memberID,
		"is_admin", isAdmin,
		"changed_by", p.UserID,
	)

	return isAdmin, nil
}

func (s *Service) checkManage(p scope.Principal, memberID string) (string, error) {
	orgID, err := requireAdmin(p)
	if err != nil {
		return "", err
	}

	if memberID == p.UserID {
		return "", core.ForbiddenError(
			"you cannot change your own membership or admin status",
		)
	}

	if !core.IsValidID(memberID) {
		return "", core.NotFoundError("member")
	}

	return orgID, nil
}

func (s *Service) invalidate(userIDs ...string) {
	if s.cache != nil {
		s.cache.Invalidate(userIDs...)
	}
}

func requireAdmin(p scope.Principal) (string, error) {
	orgID, ok := p.OrganizationID()
	if !ok || !p.IsAdmin {
		return "", core.ForbiddenError("organization admin privileges required")
	}
	return orgID, nil
}

func alreadyMember() error {
	return core.ConflictError("you already belong to an organization")
}
