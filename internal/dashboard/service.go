// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Counter interface {
	Count(ctx context.Context, f scope.Filter) (int, error)
}

type LeadCounter interface {
	CountOpen(ctx context.Context, f scope.Filter) (int, error)
}

type Summary struct {
	Scope         string `json:"scope"`
	OpenLeads     int    `json:"open_leads"`
	Accounts      int    `json:"accounts"`
	Contacts      int    `json:"contacts"`
	Opportunities int    `json:"opportunities"`
}

type Service struct {
	leads         LeadCounter
	accounts      Counter
	contacts      Counter
	opportunities Counter
}

func NewService(
	leads LeadCounter,
	accounts, contacts, opportunities Counter,
) *Service {
	return &Service{
		leads:         leads,
		accounts:      accounts,
		contacts:      contacts,
		opportunities: opportunities,
	}
}

// Summary counts the caller's visible records, one query per table run
// concurrently on the pool. The first failure cancels the rest.
func (s *Service) Summary(
	ctx context.Context,
	p scope.Principal,
) (*Summary, error) {
	f := scope.ResolveFilter(p)

	summary := &Summary{Scope: "personal"}
	if _, ok := p.OrganizationID(); ok {
		summary.Scope = "organization"
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.leads.CountOpen(gctx, f)
		summary.OpenLeads = n
		return err
	})
	g.Go(func() error {
		n, err := s.accounts.Count(gctx, f)
		summary.Accounts = n
		return err
	})
	g.Go(func() error {
		n, err := s.contacts.Count(gctx, f)
		summary.Contacts = n
		return err
	})
	g.Go(func() error {
		n, err := s.opportunities.Count(gctx, f)
		summary.Opportunities = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	return summary, nil
}
