// AngelaMos | 2026
// repository.go

package opportunity

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, opp *Opportunity) error
	GetByID(ctx context.Context, f scope.Filter, id string) (*Opportunity, error)
	List(ctx context.Context, f scope.Filter, params ListParams) ([]Opportunity, int, error)
	Update(ctx context.Context, f scope.Filter, opp *Opportunity) error
	Count(ctx context.Context, f scope.Filter) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const opportunityColumns = `
	id, name, sales_stage, forecast, company_id, contact_id, next_steps,
	close_date, contract_date, requirements, amount, created_date,
	created_by, organization_id, updated_at`

func (r *repository) Create(ctx context.Context, opp *Opportunity) error {
	query := `
		INSERT INTO opportunities (
			id, name, sales_stage, forecast, company_id, contact_id,
			next_steps, close_date, contract_date, requirements, amount,
			created_by, organization_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING created_date, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		opp.ID,
		opp.Name,
		opp.SalesStage,
		opp.Forecast,
		opp.CompanyID,
		opp.ContactID,
		opp.NextSteps,
		opp.CloseDate,
		opp.ContractDate,
		opp.Requirements,
		opp.Amount,
		opp.CreatedBy,
		opp.OrganizationID,
	).Scan(&opp.CreatedDate, &opp.UpdatedAt)
	if err != nil {
		return core.StoreError("create opportunity", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	f scope.Filter,
	id string,
) (*Opportunity, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT %s FROM opportunities WHERE id = $1 AND %s",
		opportunityColumns, cond,
	)

	var opp Opportunity
	if err := r.db.GetContext(ctx, &opp, query, id, arg); err != nil {
		return nil, core.StoreError("get opportunity", err)
	}

	return &opp, nil
}

func (r *repository) List(
	ctx context.Context,
	f scope.Filter,
	params ListParams,
) ([]Opportunity, int, error) {
	cond, arg := f.SQL(1)
	conditions := []string{cond}
	args := []any{arg}
	argIdx := 2

	if params.CompanyID != "" {
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", argIdx))
		args = append(args, params.CompanyID)
		argIdx++
	}

	if params.SalesStage != "" {
		conditions = append(conditions, fmt.Sprintf("sales_stage = $%d", argIdx))
		args = append(args, params.SalesStage)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR requirements ILIKE $%d)", argIdx, argIdx))
		args = append(args, params.SearchPattern())
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM opportunities WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, core.StoreError("count opportunities", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM opportunities
		WHERE %s
		ORDER BY created_date DESC, updated_at DESC
		LIMIT $%d OFFSET $%d`,
		opportunityColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var opps []Opportunity
	if err := r.db.SelectContext(ctx, &opps, query, args...); err != nil {
		return nil, 0, core.StoreError("list opportunities", err)
	}

	return opps, total, nil
}

func (r *repository) Update(
	ctx context.Context,
	f scope.Filter,
	opp *Opportunity,
) error {
	cond, arg := f.SQL(12)
	query := fmt.Sprintf(`
		UPDATE opportunities
		SET name = $2, sales_stage = $3, forecast = $4, company_id = $5,
		    contact_id = $6, next_steps = $7, close_date = $8,
		    contract_date = $9, requirements = $10, amount = $11,
		    updated_at = NOW()
		WHERE id = $1 AND %s
		RETURNING updated_at`, cond)

	err := r.db.GetContext(ctx, &opp.UpdatedAt, query,
		opp.ID,
		opp.Name,
		opp.SalesStage,
		opp.Forecast,
		opp.CompanyID,
		opp.ContactID,
		opp.NextSteps,
		opp.CloseDate,
		opp.ContractDate,
		opp.Requirements,
		opp.Amount,
		arg,
	)
	if err != nil {
		return core.StoreError("update opportunity", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, f scope.Filter) (int, error) {
	cond, arg := f.SQL(1)

	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM opportunities WHERE "+cond, arg); err != nil {
		return 0, core.StoreError("count opportunities", err)
	}
	return n, nil
}
