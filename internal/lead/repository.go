// AngelaMos | 2026
// repository.go

package lead

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, f scope.Filter, id string) (*Lead, error)
	GetForUpdate(ctx context.Context, f scope.Filter, id string) (*Lead, error)
	List(ctx context.Context, f scope.Filter, params ListParams) ([]Lead, int, error)
	Update(ctx context.Context, f scope.Filter, lead *Lead) error
	MarkConverted(ctx context.Context, f scope.Filter, id string) error
	CountOpen(ctx context.Context, f scope.Filter) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const leadColumns = `
	id, company_name, contact_person, email, phone, source, stage, notes,
	is_converted, created_date, created_by, organization_id, updated_at`

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (
			id, company_name, contact_person, email, phone, source, stage,
			notes, created_by, organization_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING is_converted, created_date, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.Source,
		string(lead.Stage),
		lead.Notes,
		lead.CreatedBy,
		lead.OrganizationID,
	).Scan(&lead.IsConverted, &lead.CreatedDate, &lead.UpdatedAt)
	if err != nil {
		return core.StoreError("create lead", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	f scope.Filter,
	id string,
) (*Lead, error) {
	return r.get(ctx, f, id, "")
}

// GetForUpdate locks the row until the enclosing transaction ends.
func (r *repository) GetForUpdate(
	ctx context.Context,
	f scope.Filter,
	id string,
) (*Lead, error) {
	return r.get(ctx, f, id, "FOR UPDATE")
}

func (r *repository) get(
	ctx context.Context,
	f scope.Filter,
	id, lock string,
) (*Lead, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT %s FROM leads WHERE id = $1 AND %s %s",
		leadColumns, cond, lock,
	)

	var lead Lead
	if err := r.db.GetContext(ctx, &lead, query, id, arg); err != nil {
		return nil, core.StoreError("get lead", err)
	}

	return &lead, nil
}

func (r *repository) List(
	ctx context.Context,
	f scope.Filter,
	params ListParams,
) ([]Lead, int, error) {
	cond, arg := f.SQL(1)
	conditions := []string{cond}
	args := []any{arg}
	argIdx := 2

	if !params.IncludeConverted {
		conditions = append(conditions, "is_converted = false")
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(company_name ILIKE $%d OR contact_person ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, params.SearchPattern())
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM leads WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, core.StoreError("count leads", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_date DESC, updated_at DESC
		LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var leads []Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, core.StoreError("list leads", err)
	}

	return leads, total, nil
}

func (r *repository) Update(
	ctx context.Context,
	f scope.Filter,
	lead *Lead,
) error {
	cond, arg := f.SQL(9)
	query := fmt.Sprintf(`
		UPDATE leads
		SET company_name = $2, contact_person = $3, email = $4, phone = $5,
		    source = $6, stage = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND %s
		RETURNING updated_at`, cond)

	err := r.db.GetContext(ctx, &lead.UpdatedAt, query,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.Source,
		string(lead.Stage),
		lead.Notes,
		arg,
	)
	if err != nil {
		return core.StoreError("update lead", err)
	}

	return nil
}

// MarkConverted flips is_converted only while it is still false, so a lost
// race surfaces as ErrConflict instead of a second conversion.
func (r *repository) MarkConverted(
	ctx context.Context,
	f scope.Filter,
	id string,
) error {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(`
		UPDATE leads
		SET is_converted = true, updated_at = NOW()
		WHERE id = $1 AND is_converted = false AND %s`, cond)

	result, err := r.db.ExecContext(ctx, query, id, arg)
	if err != nil {
		return core.StoreError("mark lead converted", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("mark lead converted", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark lead converted: %w",
			core.Conflict("lead has already been converted"))
	}

	return nil
}

func (r *repository) CountOpen(ctx context.Context, f scope.Filter) (int, error) {
	cond, arg := f.SQL(1)
	query := "SELECT COUNT(*) FROM leads WHERE is_converted = false AND " + cond

	var n int
	if err := r.db.GetContext(ctx, &n, query, arg); err != nil {
		return 0, core.StoreError("count open leads", err)
	}
	return n, nil
}
