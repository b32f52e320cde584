// AngelaMos | 2026
// store.go

package organization

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

// Stores are repositories bound to one open transaction.
type Stores struct {
	Organizations Repository
	Users         user.Repository
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
			Organizations: NewRepository(tx),
			Users:         user.NewRepository(tx),
		})
	})
}
