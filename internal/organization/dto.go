// AngelaMos | 2026
// dto.go

package organization

import (
	"time"

	"github.com/carterperez-dev/crm-backend/internal/user"
)

type BootstrapRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

type InviteRequest struct {
	Username  string `json:"username"   validate:"required,notblank,min=3,max=80"`
	Email     string `json:"email"      validate:"required,email,max=120"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,notblank,max=50"`
	LastName  string `json:"last_name"  validate:"required,notblank,max=50"`
	IsAdmin   bool   `json:"is_admin"`
}

type BootstrapResult struct {
	Organization     OrganizationResponse `json:"organization"`
	RestampedRecords int64                `json:"restamped_records"`
}

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func ToOrganizationResponse(o *Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
	}
}

type MemberResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	JoinedAt  time.Time `json:"created_at"`
}

func ToMemberResponse(u *user.User) MemberResponse {
	return MemberResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		JoinedAt:  u.CreatedAt,
	}
}

func ToMemberResponseList(users []user.User) []MemberResponse {
	result := make([]MemberResponse, len(users))
	for i := range users {
		result[i] = ToMemberResponse(&users[i])
	}
	return result
}
