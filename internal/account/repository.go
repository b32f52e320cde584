// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, f scope.Filter, id string) (*Account, error)
	Exists(ctx context.Context, f scope.Filter, id string) (bool, error)
	List(ctx context.Context, f scope.Filter, params core.ListParams) ([]Account, int, error)
	Update(ctx context.Context, f scope.Filter, account *Account) error
	Count(ctx context.Context, f scope.Filter) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const accountColumns = `
	id, company_name, address_line1, address_line2, city, province_state,
	postal_zip_code, country, description, notes, account_planning_fields,
	create_date, created_by, organization_id, updated_at`

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (
			id, company_name, address_line1, address_line2, city,
			province_state, postal_zip_code, country, description, notes,
			account_planning_fields, created_by, organization_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING create_date, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		account.ID,
		account.CompanyName,
		account.AddressLine1,
		account.AddressLine2,
		account.City,
		account.ProvinceState,
		account.PostalZipCode,
		account.Country,
		account.Description,
		account.Notes,
		account.AccountPlanningFields,
		account.CreatedBy,
		account.OrganizationID,
	).Scan(&account.CreateDate, &account.UpdatedAt)
	if err != nil {
		return core.StoreError("create account", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	f scope.Filter,
	id string,
) (*Account, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT %s FROM accounts WHERE id = $1 AND %s",
		accountColumns, cond,
	)

	var account Account
	if err := r.db.GetContext(ctx, &account, query, id, arg); err != nil {
		return nil, core.StoreError("get account", err)
	}

	return &account, nil
}

func (r *repository) Exists(
	ctx context.Context,
	f scope.Filter,
	id string,
) (bool, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND %s)",
		cond,
	)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id, arg); err != nil {
		return false, core.StoreError("check account exists", err)
	}

	return exists, nil
}

func (r *repository) List(
	ctx context.Context,
	f scope.Filter,
	params core.ListParams,
) ([]Account, int, error) {
	cond, arg := f.SQL(1)
	whereClause := cond
	args := []any{arg}
	argIdx := 2

	if params.Search != "" {
		whereClause += fmt.Sprintf(
			" AND (company_name ILIKE $%d OR city ILIKE $%d OR country ILIKE $%d)",
			argIdx, argIdx, argIdx)
		args = append(args, params.SearchPattern())
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM accounts WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, core.StoreError("count accounts", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE %s
		ORDER BY company_name ASC, id ASC
		LIMIT $%d OFFSET $%d`,
		accountColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, core.StoreError("list accounts", err)
	}

	return accounts, total, nil
}

func (r *repository) Update(
	ctx context.Context,
	f scope.Filter,
	account *Account,
) error {
	cond, arg := f.SQL(12)
	query := fmt.Sprintf(`
		UPDATE accounts
		SET company_name = $2, address_line1 = $3, address_line2 = $4,
		    city = $5, province_state = $6, postal_zip_code = $7,
		    country = $8, description = $9, notes = $10,
		    account_planning_fields = $11, updated_at = NOW()
		WHERE id = $1 AND %s
		RETURNING updated_at`, cond)

	err := r.db.GetContext(ctx, &account.UpdatedAt, query,
		account.ID,
		account.CompanyName,
		account.AddressLine1,
		account.AddressLine2,
		account.City,
		account.ProvinceState,
		account.PostalZipCode,
		account.Country,
		account.Description,
		account.Notes,
		account.AccountPlanningFields,
		arg,
	)
	if err != nil {
		return core.StoreError("update account", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, f scope.Filter) (int, error) {
	cond, arg := f.SQL(1)

	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM accounts WHERE "+cond, arg); err != nil {
		return 0, core.StoreError("count accounts", err)
	}
	return n, nil
}
