// AngelaMos | 2026
// dto.go

package account

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type CreateAccountRequest struct {
	CompanyName           string `json:"company_name"            validate:"required,notblank,max=200"`
	AddressLine1          string `json:"address_line1"           validate:"omitempty,max=200"`
	AddressLine2          string `json:"address_line2"           validate:"omitempty,max=200"`
	City                  string `json:"city"                    validate:"omitempty,max=100"`
	ProvinceState         string `json:"province_state"          validate:"omitempty,max=100"`
	PostalZipCode         string `json:"postal_zip_code"         validate:"omitempty,max=20"`
	Country               string `json:"country"                 validate:"omitempty,max=100"`
	Description           string `json:"description"             validate:"omitempty,max=5000"`
	Notes                 string `json:"notes"                   validate:"omitempty,max=5000"`
	AccountPlanningFields string `json:"account_planning_fields" validate:"omitempty,max=5000"`
}

type UpdateAccountRequest struct {
	CompanyName           *string `json:"company_name"            validate:"omitempty,notblank,max=200"`
	AddressLine1          *string `json:"address_line1"           validate:"omitempty,max=200"`
	AddressLine2          *string `json:"address_line2"           validate:"omitempty,max=200"`
	City                  *string `json:"city"                    validate:"omitempty,max=100"`
	ProvinceState         *string `json:"province_state"          validate:"omitempty,max=100"`
	PostalZipCode         *string `json:"postal_zip_code"         validate:"omitempty,max=20"`
	Country               *string `json:"country"                 validate:"omitempty,max=100"`
	Description           *string `json:"description"             validate:"omitempty,max=5000"`
	Notes                 *string `json:"notes"                   validate:"omitempty,max=5000"`
	AccountPlanningFields *string `json:"account_planning_fields" validate:"omitempty,max=5000"`
}

type AccountResponse struct {
	ID                    string    `json:"id"`
	CompanyName           string    `json:"company_name"`
	AddressLine1          string    `json:"address_line1"`
	AddressLine2          string    `json:"address_line2"`
	City                  string    `json:"city"`
	ProvinceState         string    `json:"province_state"`
	PostalZipCode         string    `json:"postal_zip_code"`
	Country               string    `json:"country"`
	Description           string    `json:"description"`
	Notes                 string    `json:"notes"`
	AccountPlanningFields string    `json:"account_planning_fields"`
	CreateDate            string    `json:"create_date"`
	CreatedBy             string    `json:"created_by"`
	OrganizationID        *string   `json:"organization_id"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func ToAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:                    a.ID,
		CompanyName:           a.CompanyName,
		AddressLine1:          a.AddressLine1,
		AddressLine2:          a.AddressLine2,
		City:                  a.City,
		ProvinceState:         a.ProvinceState,
		PostalZipCode:         a.PostalZipCode,
		Country:               a.Country,
		Description:           a.Description,
		Notes:                 a.Notes,
		AccountPlanningFields: a.AccountPlanningFields,
		CreateDate:            a.CreateDate.Format(core.DateLayout),
		CreatedBy:             a.CreatedBy,
		OrganizationID:        a.OrganizationID,
		UpdatedAt:             a.UpdatedAt,
	}
}

func ToAccountResponseList(accounts []Account) []AccountResponse {
	result := make([]AccountResponse, len(accounts))
	for i := range accounts {
		result[i] = ToAccountResponse(&accounts[i])
	}
	return result
}
