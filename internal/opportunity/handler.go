// AngelaMos | 2026
// handler.go

package opportunity

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
	v := core.NewValidator()
	//nolint:errcheck // tag name is static and valid
	_ = v.RegisterValidation("salesstage", func(fl validator.FieldLevel) bool {
		return IsSalesStage(fl.Field().String())
	})

	return &Handler{
		service:   service,
		validator: v,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/opportunities", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{opportunityID}", h.Get)
		r.Patch("/{opportunityID}", h.Update)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	params := ListParams{
		ListParams: core.ParseListParams(r),
		CompanyID:  r.URL.Query().Get("company_id"),
		SalesStage: r.URL.Query().Get("sales_stage"),
	}

	opps, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.HandleError(w, err, "opportunity")
		return
	}

	core.Paginated(
		w,
		ToOpportunityResponseList(opps),
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

	opp, err := h.service.Get(r.Context(), p, chi.URLParam(r, "opportunityID"))
	if err != nil {
		core.HandleError(w, err, "opportunity")
		return
	}

	core.OK(w, ToOpportunityResponse(opp))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req CreateOpportunityRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	opp, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "opportunity")
		return
	}

	core.Created(w, ToOpportunityResponse(opp))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateOpportunityRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	opp, err := h.service.Update(r.Context(), p, chi.URLParam(r, "opportunityID"), req)
	if err != nil {
		core.HandleError(w, err, "opportunity")
		return
	}

	core.OK(w, ToOpportunityResponse(opp))
}
