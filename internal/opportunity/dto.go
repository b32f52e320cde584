// AngelaMos | 2026
// dto.go

package opportunity

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type CreateOpportunityRequest struct {
	Name         string   `json:"name"          validate:"required,notblank,max=200"`
	SalesStage   string   `json:"sales_stage"   validate:"omitempty,salesstage"`
	Forecast     string   `json:"forecast"      validate:"omitempty,forecast"`
	CompanyID    string   `json:"company_id"    validate:"required,uuid"`
	ContactID    string   `json:"contact_id"    validate:"required,uuid"`
	NextSteps    string   `json:"next_steps"    validate:"omitempty,max=5000"`
	CloseDate    string   `json:"close_date"    validate:"omitempty,isodate"`
	ContractDate string   `json:"contract_date" validate:"omitempty,isodate"`
	Requirements string   `json:"requirements"  validate:"omitempty,max=5000"`
	Amount       *float64 `json:"amount"        validate:"omitempty,gte=0"`
}

type UpdateOpportunityRequest struct {
	Name         *string  `json:"name"          validate:"omitempty,notblank,max=200"`
	SalesStage   *string  `json:"sales_stage"   validate:"omitempty,salesstage"`
	Forecast     *string  `json:"forecast"      validate:"omitempty,forecast"`
	CompanyID    *string  `json:"company_id"    validate:"omitempty,uuid"`
	ContactID    *string  `json:"contact_id"    validate:"omitempty,uuid"`
	NextSteps    *string  `json:"next_steps"    validate:"omitempty,max=5000"`
	CloseDate    *string  `json:"close_date"    validate:"omitempty,isodate"`
	ContractDate *string  `json:"contract_date" validate:"omitempty,isodate"`
	Requirements *string  `json:"requirements"  validate:"omitempty,max=5000"`
	Amount       *float64 `json:"amount"        validate:"omitempty,gte=0"`
}

type ListParams struct {
	core.ListParams
	CompanyID  string
	SalesStage string
}

type OpportunityResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SalesStage     string    `json:"sales_stage"`
	Forecast       string    `json:"forecast"`
	CompanyID      string    `json:"company_id"`
	ContactID      string    `json:"contact_id"`
	NextSteps      string    `json:"next_steps"`
	CloseDate      *string   `json:"close_date"`
	ContractDate   *string   `json:"contract_date"`
	Requirements   string    `json:"requirements"`
	Amount         *float64  `json:"amount"`
	CreatedDate    string    `json:"created_date"`
	CreatedBy      string    `json:"created_by"`
	OrganizationID *string   `json:"organization_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToOpportunityResponse(o *Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:             o.ID,
		Name:           o.Name,
		SalesStage:     o.SalesStage,
		Forecast:       o.Forecast,
		CompanyID:      o.CompanyID,
		ContactID:      o.ContactID,
		NextSteps:      o.NextSteps,
		CloseDate:      core.FormatDate(o.CloseDate),
		ContractDate:   core.FormatDate(o.ContractDate),
		Requirements:   o.Requirements,
		Amount:         o.Amount,
		CreatedDate:    o.CreatedDate.Format(core.DateLayout),
		CreatedBy:      o.CreatedBy,
		OrganizationID: o.OrganizationID,
		UpdatedAt:      o.UpdatedAt,
	}
}

func ToOpportunityResponseList(opps []Opportunity) []OpportunityResponse {
	result := make([]OpportunityResponse, len(opps))
	for i := range opps {
		result[i] = ToOpportunityResponse(&opps[i])
	}
	return result
}
