// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	p scope.Principal,
	params core.ListParams,
) ([]Account, int, error) {
	params.Normalize()
	return s.repo.List(ctx, scope.ResolveFilter(p), params)
}

func (s *Service) Get(
	ctx context.Context,
	p scope.Principal,
	id string,
) (*Account, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, scope.ResolveFilter(p), id)
}

func (s *Service) Create(
	ctx context.Context,
	p scope.Principal,
	req CreateAccountRequest,
) (*Account, error) {
	account := &Account{
		ID:                    uuid.New().String(),
		CompanyName:           strings.TrimSpace(req.CompanyName),
		AddressLine1:          strings.TrimSpace(req.AddressLine1),
		AddressLine2:          strings.TrimSpace(req.AddressLine2),
		City:                  strings.TrimSpace(req.City),
		ProvinceState:         strings.TrimSpace(req.ProvinceState),
		PostalZipCode:         strings.TrimSpace(req.PostalZipCode),
		Country:               strings.TrimSpace(req.Country),
		Description:           req.Description,
		Notes:                 req.Notes,
		AccountPlanningFields: req.AccountPlanningFields,
	}
	scope.Stamp(&account.Ownership, p)

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) Update(
	ctx context.Context,
	p scope.Principal,
	id string,
	req UpdateAccountRequest,
) (*Account, error) {
	account, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	applyTrimmed(&account.CompanyName, req.CompanyName)
	applyTrimmed(&account.AddressLine1, req.AddressLine1)
	applyTrimmed(&account.AddressLine2, req.AddressLine2)
	applyTrimmed(&account.City, req.City)
	applyTrimmed(&account.ProvinceState, req.ProvinceState)
	applyTrimmed(&account.PostalZipCode, req.PostalZipCode)
	applyTrimmed(&account.Country, req.Country)
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	if req.AccountPlanningFields != nil {
		account.AccountPlanningFields = *req.AccountPlanningFields
	}

	if err := s.repo.Update(ctx, scope.ResolveFilter(p), account); err != nil {
		return nil, err
	}

	return account, nil
}

func applyTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
