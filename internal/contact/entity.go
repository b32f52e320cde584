// AngelaMos | 2026
// entity.go

package contact

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Contact struct {
	ID               string     `db:"id"`
	FirstName        string     `db:"first_name"`
	LastName         string     `db:"last_name"`
	Email            string     `db:"email"`
	Phone            string     `db:"phone"`
	Title            string     `db:"title"`
	Notes            string     `db:"notes"`
	AccountID        string     `db:"account_id"`
	TrainingReceived string     `db:"training_received"`
	LastContact      *time.Time `db:"last_contact"`
	CreateDate       time.Time  `db:"create_date"`
	UpdatedAt        time.Time  `db:"updated_at"`
	scope.Ownership
}

func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
