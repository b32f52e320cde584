// AngelaMos | 2026
// service.go

package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/crm-backend/internal/account"
	"github.com/carterperez-dev/crm-backend/internal/contact"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/lead"
	"github.com/carterperez-dev/crm-backend/internal/opportunity"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

const noRequirementsNoted = "No specific requirements noted yet."

type Result struct {
	AccountID     string `json:"account_id"`
	ContactID     string `json:"contact_id"`
	OpportunityID string `json:"opportunity_id"`
}

type Service struct {
	tx  Transactor
	now func() time.Time
}

func NewService(tx Transactor) *Service {
	return &Service{tx: tx, now: time.Now}
}

// Convert promotes an unconverted lead into an account, a contact at that
// account and an opportunity, then marks the lead converted. All four
// writes commit together or not at all. A lead outside the caller's scope
// is reported as not found; one already converted as a conflict.
func (s *Service) Convert(
	ctx context.Context,
	p scope.Principal,
	leadID string,
) (_ *Result, err error) {
	ctx, span := core.StartSpan(ctx, "conversion.Convert",
		attribute.String("lead.id", leadID),
		attribute.String("user.id", p.UserID),
	)
	defer span.End()
	defer func() { core.CountConversion(ctx, err) }()

	if !core.IsValidID(leadID) {
		return nil, fmt.Errorf("convert lead: %w", core.ErrNotFound)
	}

	f := scope.ResolveFilter(p)
	today := utcDate(s.now())

	var result Result
	err = s.tx.WithinTx(ctx, func(st Stores) error {
		l, err := st.Leads.GetForUpdate(ctx, f, leadID)
		if err != nil {
			return err
		}

		if l.IsConverted {
			return core.Conflict("lead has already been converted")
		}

		acct := newAccount(l, p)
		if err := st.Accounts.Create(ctx, acct); err != nil {
			return err
		}

		cont := newContact(l, acct.ID, today, p)
		if err := st.Contacts.Create(ctx, cont); err != nil {
			return err
		}

		opp := newOpportunity(l, acct.ID, cont.ID, p)
		if err := st.Opportunities.Create(ctx, opp); err != nil {
			return err
		}

		if err := st.Leads.MarkConverted(ctx, f, l.ID); err != nil {
			return err
		}

		result = Result{
			AccountID:     acct.ID,
			ContactID:     cont.ID,
			OpportunityID: opp.ID,
		}
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("convert lead: %w", err)
	}

	slog.InfoContext(ctx, "lead converted",
		"lead_id", leadID,
		"account_id", result.AccountID,
		"contact_id", result.ContactID,
		"opportunity_id", result.OpportunityID,
		"user_id", p.UserID,
	)

	return &result, nil
}

// SplitContactName splits a free-text name on its first space. Everything
// after that space becomes the last name, so "Mary Ann Smith" yields
// ("Mary", "Ann Smith") and a single word yields an empty last name.
// Honorifics and multi-word given names are not recognised.
func SplitContactName(full string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(full), " ")
	return first, last
}

func newAccount(l *lead.Lead, p scope.Principal) *account.Account {
	a := &account.Account{
		ID:          uuid.New().String(),
		CompanyName: l.CompanyName,
		Description: "Account created from lead: " + l.CompanyName,
		Notes:       l.Notes,
	}
	scope.Stamp(&a.Ownership, p)
	return a
}

func newContact(
	l *lead.Lead,
	accountID string,
	today time.Time,
	p scope.Principal,
) *contact.Contact {
	first, last := SplitContactName(l.ContactPerson)

	c := &contact.Contact{
		ID:          uuid.New().String(),
		FirstName:   first,
		LastName:    last,
		Email:       l.Email,
		Phone:       l.Phone,
		Notes:       "Contact created from lead: " + l.ContactPerson,
		AccountID:   accountID,
		LastContact: &today,
	}
	scope.Stamp(&c.Ownership, p)
	return c
}

func newOpportunity(
	l *lead.Lead,
	accountID, contactID string,
	p scope.Principal,
) *opportunity.Opportunity {
	requirements := l.Notes
	if strings.TrimSpace(requirements) == "" {
		requirements = noRequirementsNoted
	}

	o := &opportunity.Opportunity{
		ID:         uuid.New().String(),
		Name:       "Opportunity for " + l.CompanyName,
		SalesStage: opportunity.StageProspecting,
		Forecast:   opportunity.DefaultForecast,
		CompanyID:  accountID,
		ContactID:  contactID,
		NextSteps: fmt.Sprintf(
			"Initial outreach and discovery call (lead stage at conversion: %s)",
			l.Stage.Canonical(),
		),
		Requirements: "Initial requirements from lead: " + requirements,
	}
	scope.Stamp(&o.Ownership, p)
	return o
}

func utcDate(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
