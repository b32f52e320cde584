// AngelaMos | 2026
// handler.go

package lead

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

// RegisterRoutes mounts /leads. extra lets callers hang sibling routes,
// such as conversion, under /leads/{leadID}.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	extra ...func(chi.Router),
) {
	r.Route("/leads", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{leadID}", h.Get)
		r.Patch("/{leadID}", h.Update)

		for _, fn := range extra {
			fn(r)
		}
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	params := ListParams{
		ListParams:       core.ParseListParams(r),
		IncludeConverted: core.ParseBoolQuery(r, "include_converted"),
	}

	leads, total, err := h.service.List(r.Context(), p, params)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.Paginated(
		w,
		ToLeadResponseList(leads),
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

	lead, err := h.service.Get(r.Context(), p, chi.URLParam(r, "leadID"))
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, ToLeadResponse(lead))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req CreateLeadRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	lead, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.Created(w, ToLeadResponse(lead))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	lead, err := h.service.Update(r.Context(), p, chi.URLParam(r, "leadID"), req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, ToLeadResponse(lead))
}
