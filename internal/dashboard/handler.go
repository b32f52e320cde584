// AngelaMos | 2026
// handler.go

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/dashboard", h.Get)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), p)
	if err != nil {
		core.HandleError(w, err, "dashboard")
		return
	}

	core.OK(w, summary)
}
