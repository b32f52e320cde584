// AngelaMos | 2026
// store.go

package conversion

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/crm-backend/internal/account"
	"github.com/carterperez-dev/crm-backend/internal/contact"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/lead"
	"github.com/carterperez-dev/crm-backend/internal/opportunity"
)

// Stores are repositories bound to one open transaction.
type Stores struct {
	Leads         lead.Repository
	Accounts      account.Repository
	Contacts      contact.Repository
	Opportunities opportunity.Repository
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}

type sqlxTransactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &sqlxTransactor{db: db}
}

func (t *sqlxTransactor) WithinTx(
	ctx context.Context,
	fn func(Stores) error,
) error {
	return core.InTx(ctx, t.db, func(tx *sqlx.Tx) error {
		return fn(Stores{
			Leads:         lead.NewRepository(tx),
			Accounts:      account.NewRepository(tx),
			Contacts:      contact.NewRepository(tx),
			Opportunities: opportunity.NewRepository(tx),
		})
	})
}
