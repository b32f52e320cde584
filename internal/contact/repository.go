// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, f scope.Filter, id string) (*Contact, error)
	Exists(ctx context.Context, f scope.Filter, id string) (bool, error)
	List(ctx context.Context, f scope.Filter, params ListParams) ([]Contact, int, error)
	Update(ctx context.Context, f scope.Filter, contact *Contact) error
	Count(ctx context.Context, f scope.Filter) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const contactColumns = `
	id, first_name, last_name, email, phone, title, notes, account_id,
	training_received, last_contact, create_date, created_by,
	organization_id, updated_at`

func (r *repository) Create(ctx context.Context, contact *Contact) error {
	query := `
		INSERT INTO contacts (
			id, first_name, last_name, email, phone, title, notes,
			account_id, training_received, last_contact, created_by,
			organization_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING create_date, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Title,
		contact.Notes,
		contact.AccountID,
		contact.TrainingReceived,
		contact.LastContact,
		contact.CreatedBy,
		contact.OrganizationID,
	).Scan(&contact.CreateDate, &contact.UpdatedAt)
	if err != nil {
		return core.StoreError("create contact", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	f scope.Filter,
	id string,
) (*Contact, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE id = $1 AND %s",
		contactColumns, cond,
	)

	var contact Contact
	if err := r.db.GetContext(ctx, &contact, query, id, arg); err != nil {
		return nil, core.StoreError("get contact", err)
	}

	return &contact, nil
}

func (r *repository) Exists(
	ctx context.Context,
	f scope.Filter,
	id string,
) (bool, error) {
	cond, arg := f.SQL(2)
	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND %s)",
		cond,
	)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id, arg); err != nil {
		return false, core.StoreError("check contact exists", err)
	}

	return exists, nil
}

func (r *repository) List(
	ctx context.Context,
	f scope.Filter,
	params ListParams,
) ([]Contact, int, error) {
	cond, arg := f.SQL(1)
	conditions := []string{cond}
	args := []any{arg}
	argIdx := 2

	if params.AccountID != "" {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argIdx))
		args = append(args, params.AccountID)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, params.SearchPattern())
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM contacts WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, core.StoreError("count contacts", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE %s
		ORDER BY last_name ASC, first_name ASC, id ASC
		LIMIT $%d OFFSET $%d`,
		contactColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var contacts []Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, core.StoreError("list contacts", err)
	}

	return contacts, total, nil
}

func (r *repository) Update(
	ctx context.Context,
	f scope.Filter,
	contact *Contact,
) error {
	cond, arg := f.SQL(11)
	query := fmt.Sprintf(`
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone = $5,
		    title = $6, notes = $7, account_id = $8,
		    training_received = $9, last_contact = $10, updated_at = NOW()
		WHERE id = $1 AND %s
		RETURNING updated_at`, cond)

	err := r.db.GetContext(ctx, &contact.UpdatedAt, query,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Title,
		contact.Notes,
		contact.AccountID,
		contact.TrainingReceived,
		contact.LastContact,
		arg,
	)
	if err != nil {
		return core.StoreError("update contact", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, f scope.Filter) (int, error) {
	cond, arg := f.SQL(1)

	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM contacts WHERE "+cond, arg); err != nil {
		return 0, core.StoreError("count contacts", err)
	}
	return n, nil
}
