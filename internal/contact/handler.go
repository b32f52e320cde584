// AngelaMos | 2026
// handler.go

package contact

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/contacts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{contactID}", h.Get)
		r.Patch("/{contactID}", h.Update)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	params := ListParams{
		ListParams: core.ParseListParams(r),
		AccountID:  r.URL.Query().Get("account_id"),
	}

	contacts, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.HandleError(w, err, "contact")
		return
	}

	core.Paginated(
		w,
		ToContactResponseList(contacts),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	contact, err := h.service.Get(r.Context(), p, chi.URLParam(r, "contactID"))
	if err != nil {
		core.HandleError(w, err, "contact")
		return
	}

	core.OK(w, ToContactResponse(contact))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	contact, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "contact")
		return
	}

	core.Created(w, ToContactResponse(contact))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	contact, err := h.service.Update(r.Context(), p, chi.URLParam(r, "contactID"), req)
	if err != nil {
		core.HandleError(w, err, "contact")
		return
	}

	core.OK(w, ToContactResponse(contact))
}
