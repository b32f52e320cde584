// AngelaMos | 2026
// handler.go

package account

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
	r.Route("/accounts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{accountID}", h.Get)
		r.Patch("/{accountID}", h.Update)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	params := core.ParseListParams(r)

	accounts, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.HandleError(w, err, "account")
		return
	}

	core.Paginated(
		w,
		ToAccountResponseList(accounts),
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

	account, err := h.service.Get(r.Context(), p, chi.URLParam(r, "accountID"))
	if err != nil {
		core.HandleError(w, err, "account")
		return
	}

	core.OK(w, ToAccountResponse(account))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	account, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "account")
		return
	}

	core.Created(w, ToAccountResponse(account))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	account, err := h.service.Update(r.Context(), p, chi.URLParam(r, "accountID"), req)
	if err != nil {
		core.HandleError(w, err, "account")
		return
	}

	core.OK(w, ToAccountResponse(account))
}
