// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
	"github.com/carterperez-dev/crm-backend/internal/scope"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Route("/users/me", func(r chi.Router) {
		r.Get("/", h.GetMe)
		r.Patch("/", h.UpdateMe)
	})
}

// GetMe reports the stored profile together with the workspace the caller
// currently resolves to.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetMe(r.Context(), p.UserID)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, toMeResponse(u, p))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.service.UpdateMe(r.Context(), p.UserID, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, toMeResponse(u, p))
}

func toMeResponse(u *User, p scope.Principal) MeResponse {
	workspace := WorkspaceSolo
	if _, member := p.OrganizationID(); member {
		workspace = WorkspaceOrganization
	}
	return MeResponse{UserResponse: ToUserResponse(u), Workspace: workspace}
}
