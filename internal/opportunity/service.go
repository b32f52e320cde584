// AngelaMos | 2026
// service.go

package opportunity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

// Lookup answers whether a referenced row is visible under a filter.
type Lookup interface {
	Exists(ctx context.Context, f scope.Filter, id string) (bool, error)
}

type Service struct {
	repo     Repository
	accounts Lookup
	contacts Lookup
}

func NewService(repo Repository, accounts, contacts Lookup) *Service {
	return &Service{repo: repo, accounts: accounts, contacts: contacts}
}

func (s *Service) List(
	ctx context.Context,
	p scope.Principal,
	params ListParams,
) ([]Opportunity, int, error) {
	params.Normalize()
	if params.CompanyID != "" && !core.IsValidID(params.CompanyID) {
		return []Opportunity{}, 0, nil
	}
	return s.repo.List(ctx, scope.ResolveFilter(p), params)
}

func (s *Service) Get(
	ctx context.Context,
	p scope.Principal,
	id string,
) (*Opportunity, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("get opportunity: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, scope.ResolveFilter(p), id)
}

func (s *Service) Create(
	ctx context.Context,
	p scope.Principal,
	req CreateOpportunityRequest,
) (*Opportunity, error) {
	f := scope.ResolveFilter(p)

	if err := s.require(ctx, s.accounts, f, "account", req.CompanyID); err != nil {
		return nil, err
	}
	if err := s.require(ctx, s.contacts, f, "contact", req.ContactID); err != nil {
		return nil, err
	}

	closeDate, err := core.ParseDate(req.CloseDate)
	if err != nil {
		return nil, err
	}
	contractDate, err := core.ParseDate(req.ContractDate)
	if err != nil {
		return nil, err
	}

	salesStage := req.SalesStage
	if salesStage == "" {
		salesStage = StageProspecting
	}

	opp := &Opportunity{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		SalesStage:   salesStage,
		Forecast:     NormalizeForecast(req.Forecast),
		CompanyID:    req.CompanyID,
		ContactID:    req.ContactID,
		NextSteps:    req.NextSteps,
		CloseDate:    closeDate,
		ContractDate: contractDate,
		Requirements: req.Requirements,
		Amount:       req.Amount,
	}
	scope.Stamp(&opp.Ownership, p)

	if err := s.repo.Create(ctx, opp); err != nil {
		return nil, err
	}

	return opp, nil
}

func (s *Service) Update(
	ctx context.Context,
	p scope.Principal,
	id string,
	req UpdateOpportunityRequest,
) (*Opportunity, error) {
	opp, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	f := scope.ResolveFilter(p)

	if req.CompanyID != nil && *req.CompanyID != opp.CompanyID {
		if err := s.require(ctx, s.accounts, f, "account", *req.CompanyID); err != nil {
			return nil, err
		}
		opp.CompanyID = *req.CompanyID
	}
	if req.ContactID != nil && *req.ContactID != opp.ContactID {
		if err := s.require(ctx, s.contacts, f, "contact", *req.ContactID); err != nil {
			return nil, err
		}
		opp.ContactID = *req.ContactID
	}

	if req.CloseDate != nil {
		if opp.CloseDate, err = core.ParseDate(*req.CloseDate); err != nil {
			return nil, err
		}
	}
	if req.ContractDate != nil {
		if opp.ContractDate, err = core.ParseDate(*req.ContractDate); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		opp.Name = strings.TrimSpace(*req.Name)
	}
	if req.SalesStage != nil {
		opp.SalesStage = *req.SalesStage
	}
	if req.Forecast != nil {
		opp.Forecast = NormalizeForecast(*req.Forecast)
	}
	if req.NextSteps != nil {
		opp.NextSteps = *req.NextSteps
	}
	if req.Requirements != nil {
		opp.Requirements = *req.Requirements
	}
	if req.Amount != nil {
		opp.Amount = req.Amount
	}

	if err := s.repo.Update(ctx, f, opp); err != nil {
		return nil, err
	}

	return opp, nil
}

func (s *Service) require(
	ctx context.Context,
	lookup Lookup,
	f scope.Filter,
	resource, id string,
) error {
	if !core.IsValidID(id) {
		return fmt.Errorf("check %s: %w", resource, core.NotFoundError(resource))
	}

	ok, err := lookup.Exists(ctx, f, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("check %s: %w", resource, core.NotFoundError(resource))
	}
	return nil
}

// NormalizeForecast stores forecasts as "<n>%"; empty becomes the default.
func NormalizeForecast(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultForecast
	}
	if !strings.HasSuffix(value, "%") {
		value += "%"
	}
	return value
}
