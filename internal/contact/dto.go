// AngelaMos | 2026
// dto.go

package contact

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/core"
)

type CreateContactRequest struct {
	FirstName        string `json:"first_name"        validate:"required,notblank,max=100"`
	LastName         string `json:"last_name"         validate:"required,notblank,max=100"`
	Email            string `json:"email"             validate:"required,email,max=200"`
	Phone            string `json:"phone"             validate:"omitempty,phone,max=50"`
	Title            string `json:"title"             validate:"omitempty,max=200"`
	Notes            string `json:"notes"             validate:"omitempty,max=5000"`
	AccountID        string `json:"account_id"        validate:"required,uuid"`
	TrainingReceived string `json:"training_received" validate:"omitempty,max=200"`
	LastContact      string `json:"last_contact"      validate:"omitempty,isodate"`
}

type UpdateContactRequest struct {
	FirstName        *string `json:"first_name"        validate:"omitempty,notblank,max=100"`
	LastName         *string `json:"last_name"         validate:"omitempty,max=100"`
	Email            *string `json:"email"             validate:"omitempty,email,max=200"`
	Phone            *string `json:"phone"             validate:"omitempty,phone,max=50"`
	Title            *string `json:"title"             validate:"omitempty,max=200"`
	Notes            *string `json:"notes"             validate:"omitempty,max=5000"`
	AccountID        *string `json:"account_id"        validate:"omitempty,uuid"`
	TrainingReceived *string `json:"training_received" validate:"omitempty,max=200"`
	LastContact      *string `json:"last_contact"      validate:"omitempty,isodate"`
}

type ListParams struct {
	core.ListParams
	AccountID string
}

type ContactResponse struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Title            string    `json:"title"`
	Notes            string    `json:"notes"`
	AccountID        string    `json:"account_id"`
	TrainingReceived string    `json:"training_received"`
	LastContact      *string   `json:"last_contact"`
	CreateDate       string    `json:"create_date"`
	CreatedBy        string    `json:"created_by"`
	OrganizationID   *string   `json:"organization_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ToContactResponse(c *Contact) ContactResponse {
	return ContactResponse{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		FullName:         c.FullName(),
		Email:            c.Email,
		Phone:            c.Phone,
		Title:            c.Title,
		Notes:            c.Notes,
		AccountID:        c.AccountID,
		TrainingReceived: c.TrainingReceived,
		LastContact:      core.FormatDate(c.LastContact),
		CreateDate:       c.CreateDate.Format(core.DateLayout),
		CreatedBy:        c.CreatedBy,
		OrganizationID:   c.OrganizationID,
		UpdatedAt:        c.UpdatedAt,
	}
}

func ToContactResponseList(contacts []Contact) []ContactResponse {
	result := make([]ContactResponse, len(contacts))
	for i := range contacts {
		result[i] = ToContactResponse(&contacts[i])
	}
	return result
}
