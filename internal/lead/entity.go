// AngelaMos | 2026
// entity.go

package lead

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Stage string

const (
	StageMQL Stage = "MQL"
	StageSAL Stage = "SAL"
	StageSQL Stage = "SQL"

	// stageLegacyMAL was written as a default by older clients. It is read
	// back as MQL and never accepted on input.
	stageLegacyMAL Stage = "MAL"

	DefaultStage = StageMQL
)

func (s Stage) Valid() bool {
	switch s {
	case StageMQL, StageSAL, StageSQL:
		return true
	}
	return false
}

func (s Stage) Canonical() Stage {
	if s == stageLegacyMAL || s == "" {
		return DefaultStage
	}
	return s
}

type Lead struct {
	ID            string    `db:"id"`
	CompanyName   string    `db:"company_name"`
	ContactPerson string    `db:"contact_person"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	Source        string    `db:"source"`
	Stage         Stage     `db:"stage"`
	Notes         string    `db:"notes"`
	IsConverted   bool      `db:"is_converted"`
	CreatedDate   time.Time `db:"created_date"`
	UpdatedAt     time.Time `db:"updated_at"`
	scope.Ownership
}
