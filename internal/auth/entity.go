// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is one link in a rotation family. Presenting a token that
// was already rotated revokes the whole family.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsRevoked() && !t.IsUsed
}

// UserInfo is the slice of a stored user the auth flows need. It is
// produced by the user package through UserProvider.
type UserInfo struct {
	ID             string
	Username       string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string
	IsAdmin        bool
	OrganizationID *string
	TokenVersion   int
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}
