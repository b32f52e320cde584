// AngelaMos | 2026
// handler.go

package conversion

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

// Routes is mounted inside the /leads route group.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/{leadID}/convert", h.Convert)
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	result, err := h.service.Convert(r.Context(), p, chi.URLParam(r, "leadID"))
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, result)
}
