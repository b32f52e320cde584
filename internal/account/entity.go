// AngelaMos | 2026
// entity.go

package account

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Account struct {
	ID                    string    `db:"id"`
	CompanyName           string    `db:"company_name"`
	AddressLine1          string    `db:"address_line1"`
	AddressLine2          string    `db:"address_line2"`
	City                  string    `db:"city"`
	ProvinceState         string    `db:"province_state"`
	PostalZipCode         string    `db:"postal_zip_code"`
	Country               string    `db:"country"`
	Description           string    `db:"description"`
	Notes                 string    `db:"notes"`
	AccountPlanningFields string    `db:"account_planning_fields"`
	CreateDate            time.Time `db:"create_date"`
	UpdatedAt             time.Time `db:"updated_at"`
	scope.Ownership
}
