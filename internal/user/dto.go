// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,notblank,max=50"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,notblank,max=50"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email,max=120"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	OrganizationID *string   `json:"organization_id"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		OrganizationID: u.OrganizationID,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

const (
	WorkspaceSolo         = "solo"
	WorkspaceOrganization = "organization"
)

// MeResponse tells the caller whose records list endpoints will show.
type MeResponse struct {
	UserResponse
	Workspace string `json:"workspace"`
}
