// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

// AccountLookup answers whether an account is visible under a filter.
type AccountLookup interface {
	Exists(ctx context.Context, f scope.Filter, id string) (bool, error)
}

type Service struct {
	repo     Repository
	accounts AccountLookup
}

func NewService(repo Repository, accounts AccountLookup) *Service {
	return &Service{repo: repo, accounts: accounts}
}

func (s *Service) List(
	ctx context.Context,
	p scope.Principal,
	params ListParams,
) ([]Contact, int, error) {
	params.Normalize()
	if params.AccountID != "" && !core.IsValidID(params.AccountID) {
		return []Contact{}, 0, nil
	}
	return s.repo.List(ctx, scope.ResolveFilter(p), params)
}

func (s *Service) Get(
	ctx context.Context,
	p scope.Principal,
	id string,
) (*Contact, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("get contact: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, scope.ResolveFilter(p), id)
}

func (s *Service) Create(
	ctx context.Context,
	p scope.Principal,
	req CreateContactRequest,
) (*Contact, error) {
	f := scope.ResolveFilter(p)

	if err := s.requireAccount(ctx, f, req.AccountID); err != nil {
		return nil, err
	}

	lastContact, err := core.ParseDate(req.LastContact)
	if err != nil {
		return nil, err
	}

	contact := &Contact{
		ID:               uuid.New().String(),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		Title:            strings.TrimSpace(req.Title),
		Notes:            req.Notes,
		AccountID:        req.AccountID,
		TrainingReceived: strings.TrimSpace(req.TrainingReceived),
		LastContact:      lastContact,
	}
	scope.Stamp(&contact.Ownership, p)

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *Service) Update(
	ctx context.Context,
	p scope.Principal,
	id string,
	req UpdateContactRequest,
) (*Contact, error) {
	contact, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	f := scope.ResolveFilter(p)

	if req.AccountID != nil && *req.AccountID != contact.AccountID {
		if err := s.requireAccount(ctx, f, *req.AccountID); err != nil {
			return nil, err
		}
		contact.AccountID = *req.AccountID
	}

	if req.LastContact != nil {
		lastContact, err := core.ParseDate(*req.LastContact)
		if err != nil {
			return nil, err
		}
		contact.LastContact = lastContact
	}

	applyTrimmed(&contact.FirstName, req.FirstName)
	applyTrimmed(&contact.LastName, req.LastName)
	applyTrimmed(&contact.Email, req.Email)
	applyTrimmed(&contact.Phone, req.Phone)
	applyTrimmed(&contact.Title, req.Title)
	applyTrimmed(&contact.TrainingReceived, req.TrainingReceived)
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, f, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *Service) requireAccount(
	ctx context.Context,
	f scope.Filter,
	accountID string,
) error {
	if !core.IsValidID(accountID) {
		return fmt.Errorf("check account: %w", core.NotFoundError("account"))
	}

	ok, err := s.accounts.Exists(ctx, f, accountID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("check account: %w", core.NotFoundError("account"))
	}
	return nil
}

func applyTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
