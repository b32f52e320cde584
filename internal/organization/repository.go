// AngelaMos | 2026
// repository.go

package organization

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	LockUser(ctx context.Context, userID string) (*user.User, error)
	AssignFounder(ctx context.Context, userID, orgID string) error
	RestampRecords(ctx context.Context, userID, orgID string) (int64, error)
	ClearMembership(ctx context.Context, orgID, userID string) error
	ToggleAdmin(ctx context.Context, orgID, userID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, org *Organization) error {
	query := `
		INSERT INTO organizations (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &org.CreatedAt, query,
		org.ID,
		org.Name,
		org.CreatedBy,
	)
	if err != nil {
		return core.StoreError("create organization", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Organization, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM organizations
		WHERE id = $1`

	var org Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, core.StoreError("get organization", err)
	}

	return &org, nil
}

// LockUser reads the user row FOR UPDATE so concurrent bootstraps by the
// same user serialize.
func (r *repository) LockUser(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name,
		       is_active, organization_id, is_admin, token_version,
		       created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active
		FOR UPDATE`

	var u user.User
	if err := r.db.GetContext(ctx, &u, query, userID); err != nil {
		return nil, core.StoreError("lock user", err)
	}

	return &u, nil
}

func (r *repository) AssignFounder(
	ctx context.Context,
	userID, orgID string,
) error {
	query := `
		UPDATE users
		SET organization_id = $2, is_admin = true, updated_at = NOW()
		WHERE id = $1 AND organization_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID, orgID)
	if err != nil {
		return core.StoreError("assign organization founder", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("assign organization founder", err)
	}

	if rows == 0 {
		return fmt.Errorf("assign organization founder: %w",
			core.Conflict("user already belongs to an organization"))
	}

	return nil
}

// RestampRecords moves the user's unassigned records into the organization,
// one bulk UPDATE per table. Rows already stamped with an organization the
// user once belonged to are left there.
func (r *repository) RestampRecords(
	ctx context.Context,
	userID, orgID string,
) (int64, error) {
	var total int64

	for _, table := range scopedTables {
		query := fmt.Sprintf(`
			UPDATE %s
			SET organization_id = $2, updated_at = NOW()
			WHERE created_by = $1 AND organization_id IS NULL`, table)

		result, err := r.db.ExecContext(ctx, query, userID, orgID)
		if err != nil {
			return 0, core.StoreError("restamp "+table, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, core.StoreError("restamp "+table, err)
		}
		total += n
	}

	return total, nil
}

func (r *repository) ClearMembership(
	ctx context.Context,
	orgID, userID string,
) error {
	query := `
		UPDATE users
		SET organization_id = NULL, is_admin = false, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2`

	return core.ExecExpectOne(ctx, r.db, "clear membership", query, userID, orgID)
}

func (r *repository) ToggleAdmin(
	ctx context.Context,
	orgID, userID string,
) (bool, error) {
	query := `
		UPDATE users
		SET is_admin = NOT is_admin, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING is_admin`

	var isAdmin bool
	if err := r.db.GetContext(ctx, &isAdmin, query, userID, orgID); err != nil {
		return false, core.StoreError("toggle admin", err)
	}

	return isAdmin, nil
}
