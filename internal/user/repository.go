// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"strings"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	ListByOrganization(ctx context.Context, organizationID string) ([]User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, is_active,
	organization_id, is_admin, token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, first_name, last_name,
			organization_id, is_admin
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING is_active, token_version, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.OrganizationID,
		user.IsAdmin,
	)

	err := row.Scan(
		&user.IsActive,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return core.StoreError("create user", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1 AND is_active`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, core.StoreError("get user", err)
	}

	return &user, nil
}

// GetByLogin accepts either the username or the email address.
func (r *repository) GetByLogin(
	ctx context.Context,
	login string,
) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE (LOWER(username) = $1 OR LOWER(email) = $1) AND is_active
		LIMIT 1`

	var user User
	err := r.db.GetContext(ctx, &user, query, strings.ToLower(login))
	if err != nil {
		return nil, core.StoreError("get user by login", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
	)
	if err != nil {
		return core.StoreError("update user", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return core.ExecExpectOne(ctx, r.db, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return core.ExecExpectOne(ctx, r.db, "increment token version", query, id)
}

func (r *repository) ListByOrganization(
	ctx context.Context,
	organizationID string,
) ([]User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE organization_id = $1 AND is_active
		ORDER BY is_admin DESC, created_at ASC`

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, organizationID); err != nil {
		return nil, core.StoreError("list organization users", err)
	}

	return users, nil
}

func (r *repository) ExistsByUsernameOrEmail(
	ctx context.Context,
	username, email string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, email); err != nil {
		return false, core.StoreError("check user exists", err)
	}

	return exists, nil
}
