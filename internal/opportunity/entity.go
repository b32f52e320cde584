// AngelaMos | 2026
// entity.go

package opportunity

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/scope"
)

const (
	StageProspecting   = "Prospecting"
	StageQualification = "Qualification"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"

	DefaultForecast = "0%"
)

var SalesStages = []string{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func IsSalesStage(s string) bool {
	for _, stage := range SalesStages {
		if s == stage {
			return true
		}
	}
	return false
}

type Opportunity struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	SalesStage   string     `db:"sales_stage"`
	Forecast     string     `db:"forecast"`
	CompanyID    string     `db:"company_id"`
	ContactID    string     `db:"contact_id"`
	NextSteps    string     `db:"next_steps"`
	CloseDate    *time.Time `db:"close_date"`
	ContractDate *time.Time `db:"contract_date"`
	Requirements string     `db:"requirements"`
	Amount       *float64   `db:"amount"`
	CreatedDate  time.Time  `db:"created_date"`
	UpdatedAt    time.Time  `db:"updated_at"`
	scope.Ownership
}
