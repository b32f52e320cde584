// AngelaMos | 2026
// entity.go

package organization

import (
	"time"
)

type Organization struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

// scopedTables are re-stamped when a solo user founds an organization.
var scopedTables = []string{"leads", "accounts", "contacts", "opportunities"}
