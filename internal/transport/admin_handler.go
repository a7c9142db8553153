package transport

import (
	"net/http"

	"boutique-shop/internal/middleware"
	"boutique-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyResponse echoes the identity behind a valid token
type VerifyResponse struct {
	Username string `json:"username"`
	Valid    bool   `json:"valid"`
}

// AdminHandler handles admin login, token checks and catalog seeding
type AdminHandler struct {
	auth   service.AuthService
	seeder service.Seeder
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auth service.AuthService, seeder service.Seeder, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		auth:   auth,
		seeder: seeder,
		logger: logger,
	}
}

// RegisterRoutes registers the admin routes and the seed endpoint
func (h *AdminHandler) RegisterRoutes(r chi.Router, adminOnly, loginLimit func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.With(loginLimit).Post("/login", h.Login)
		r.With(adminOnly).Get("/verify", h.Verify)
	})

	// Unauthenticated; every call is logged at warn level
	r.Post("/api/seed", h.Seed)
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Admin login failed", zap.String("username", req.Username), zap.Error(err))
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	middleware.RespondWithJSON(w, http.StatusOK, token)
}

// Verify handles GET /api/admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, VerifyResponse{Username: username, Valid: true})
}

// Seed handles POST /api/seed
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("Unauthenticated seed endpoint called", zap.String("remote_addr", r.RemoteAddr))

	result, err := h.seeder.Seed(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}
