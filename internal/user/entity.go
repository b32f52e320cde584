// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type User struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	IsActive       bool      `db:"is_active"`
	OrganizationID *string   `db:"organization_id"`
	IsAdmin        bool      `db:"is_admin"`
	TokenVersion   int       `db:"token_version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) Membership() scope.Membership {
	return scope.MembershipOf(u.OrganizationID)
}

func (u *User) Principal() scope.Principal {
	return scope.Principal{
		UserID:     u.ID,
		IsAdmin:    u.IsAdmin,
		Membership: u.Membership(),
	}
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
