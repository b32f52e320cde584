// AngelaMos | 2026
// repository.go

package auth

import (
	"context"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

const refreshTokenColumns = `
	id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens
			(id, user_id, token_hash, family_id, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return core.StoreError("create refresh token", r.db.GetContext(
		ctx, &token.CreatedAt, query,
		token.ID, token.UserID, token.TokenHash, token.FamilyID,
		token.ExpiresAt, token.UserAgent, token.IPAddress,
	))
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	var token RefreshToken
	err := r.db.GetContext(ctx, &token,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	)
	if err != nil {
		return nil, core.StoreError("find refresh token", err)
	}
	return &token, nil
}

// MarkAsUsed reports ErrNotFound when the token was already rotated, which
// is how a concurrent refresh with the same token loses the race.
func (r *repository) MarkAsUsed(
	ctx context.Context,
	id, replacedByID string,
) error {
	return core.ExecExpectOne(ctx, r.db, "mark refresh token used", `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND NOT is_used`,
		id, replacedByID,
	)
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	return core.ExecExpectOne(ctx, r.db, "revoke refresh token", `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`,
		id,
	)
}

func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	return r.revokeWhere(ctx, "revoke token family", "family_id", familyID)
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.revokeWhere(ctx, "revoke user tokens", "user_id", userID)
}

// revokeWhere is idempotent: revoking an already revoked set is not an error.
// column is always a package constant, never caller input.
func (r *repository) revokeWhere(ctx context.Context, op, column, value string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE `+column+` = $1 AND revoked_at IS NULL`,
		value,
	)
	return core.StoreError(op, err)
}
