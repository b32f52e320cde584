// AngelaMos | 2026
// handler.go

package organization

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
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

// RegisterRoutes mounts /organization. Membership changes are additionally
// gated by adminOnly; the service re-checks admin and organization
// membership itself.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/organization", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Post("/", h.Bootstrap)
		r.Get("/members", h.ListMembers)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/members", h.Invite)
			r.Delete("/members/{userID}", h.RemoveMember)
			r.Post("/members/{userID}/toggle-admin", h.ToggleAdmin)
		})
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	org, err := h.service.Get(r.Context(), p)
	if err != nil {
		core.HandleError(w, err, "organization")
		return
	}

	core.OK(w, ToOrganizationResponse(org))
}

func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req BootstrapRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.service.Bootstrap(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, result)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), p)
	if err != nil {
		core.HandleError(w, err, "organization")
		return
	}

	core.OK(w, ToMemberResponseList(members))
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req InviteRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	member, err := h.service.Invite(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "member")
		return
	}

	core.Created(w, ToMemberResponse(member))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), p, chi.URLParam(r, "userID")); err != nil {
		core.HandleError(w, err, "member")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	memberID := chi.URLParam(r, "userID")
	isAdmin, err := h.service.ToggleAdmin(r.Context(), p, memberID)
	if err != nil {
		core.HandleError(w, err, "member")
		return
	}

	core.OK(w, map[string]any{
		"user_id":  memberID,
		"is_admin": isAdmin,
	})
}
