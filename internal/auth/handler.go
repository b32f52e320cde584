// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net"
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
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req, clientOf(r))
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req, clientOf(r))
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, clientOf(r))
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	claims := middleware.GetClaims(r.Context())
	if err := h.service.Logout(r.Context(), req.RefreshToken, claims); err != nil {
		h.handleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.service.LogoutAll(r.Context(), p.UserID); err != nil {
		h.handleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.CurrentPrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), p.UserID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.OK(w, user)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.Unauthorized(w, "invalid username, email or password")
	case errors.Is(err, ErrTokenReuse):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, ErrAccountExists):
		core.JSONError(w, core.ConflictError("username or email already exists"))
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.HandleError(w, err, "user")
	}
}

func clientOf(r *http.Request) Client {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return Client{UserAgent: r.UserAgent(), IP: ip}
}
