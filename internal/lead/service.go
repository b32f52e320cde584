// AngelaMos | 2026
// service.go

package lead

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
	params ListParams,
) ([]Lead, int, error) {
	params.Normalize()
	return s.repo.List(ctx, scope.ResolveFilter(p), params)
}

func (s *Service) Get(
	ctx context.Context,
	p scope.Principal,
	id string,
) (*Lead, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("get lead: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, scope.ResolveFilter(p), id)
}

func (s *Service) Create(
	ctx context.Context,
	p scope.Principal,
	req CreateLeadRequest,
) (*Lead, error) {
	stage := Stage(req.Stage)
	if stage == "" {
		stage = DefaultStage
	}

	lead := &Lead{
		ID:            uuid.New().String(),
		CompanyName:   strings.TrimSpace(req.CompanyName),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Source:        strings.TrimSpace(req.Source),
		Stage:         stage,
		Notes:         req.Notes,
	}
	scope.Stamp(&lead.Ownership, p)

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	return lead, nil
}

func (s *Service) Update(
	ctx context.Context,
	p scope.Principal,
	id string,
	req UpdateLeadRequest,
) (*Lead, error) {
	lead, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		lead.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.ContactPerson != nil {
		lead.ContactPerson = strings.TrimSpace(*req.ContactPerson)
	}
	if req.Email != nil {
		lead.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		lead.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Source != nil {
		lead.Source = strings.TrimSpace(*req.Source)
	}
	if req.Stage != nil {
		lead.Stage = Stage(*req.Stage)
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}

	lead.Stage = lead.Stage.Canonical()

	if err := s.repo.Update(ctx, scope.ResolveFilter(p), lead); err != nil {
		return nil, err
	}

	return lead, nil
}
