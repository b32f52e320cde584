// AngelaMos | 2026
// dto.go

package lead

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type CreateLeadRequest struct {
	CompanyName   string `json:"company_name"   validate:"required,notblank,max=200"`
	ContactPerson string `json:"contact_person" validate:"required,notblank,max=200"`
	Email         string `json:"email"          validate:"required,email,max=200"`
	Phone         string `json:"phone"          validate:"omitempty,phone,max=50"`
	Source        string `json:"source"         validate:"omitempty,max=100"`
	Stage         string `json:"stage"          validate:"omitempty,oneof=MQL SAL SQL"`
	Notes         string `json:"notes"          validate:"omitempty,max=5000"`
}

type UpdateLeadRequest struct {
	CompanyName   *string `json:"company_name"   validate:"omitempty,notblank,max=200"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,notblank,max=200"`
	Email         *string `json:"email"          validate:"omitempty,email,max=200"`
	Phone         *string `json:"phone"          validate:"omitempty,phone,max=50"`
	Source        *string `json:"source"         validate:"omitempty,max=100"`
	Stage         *string `json:"stage"          validate:"omitempty,oneof=MQL SAL SQL"`
	Notes         *string `json:"notes"          validate:"omitempty,max=5000"`
}

type ListParams struct {
	core.ListParams
	IncludeConverted bool
}

type LeadResponse struct {
	ID             string    `json:"id"`
	CompanyName    string    `json:"company_name"`
	ContactPerson  string    `json:"contact_person"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Source         string    `json:"source"`
	Stage          Stage     `json:"stage"`
	Notes          string    `json:"notes"`
	IsConverted    bool      `json:"is_converted"`
	CreatedDate    string    `json:"created_date"`
	CreatedBy      string    `json:"created_by"`
	OrganizationID *string   `json:"organization_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToLeadResponse(l *Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		CompanyName:    l.CompanyName,
		ContactPerson:  l.ContactPerson,
		Email:          l.Email,
		Phone:          l.Phone,
		Source:         l.Source,
		Stage:          l.Stage.Canonical(),
		Notes:          l.Notes,
		IsConverted:    l.IsConverted,
		CreatedDate:    l.CreatedDate.Format(core.DateLayout),
		CreatedBy:      l.CreatedBy,
		OrganizationID: l.OrganizationID,
		UpdatedAt:      l.UpdatedAt,
	}
}

func ToLeadResponseList(leads []Lead) []LeadResponse {
	result := make([]LeadResponse, len(leads))
	for i := range leads {
		result[i] = ToLeadResponse(&leads[i])
	}
	return result
}
