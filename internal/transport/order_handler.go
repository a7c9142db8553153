package transport

import (
	"net/http"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/middleware"
	"boutique-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusUpdateRequest represents the order status change payload
type StatusUpdateRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers all order routes. Checkout is public and passes
// through checkoutLimit, everything else needs adminOnly.
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminOnly, checkoutLimit func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.With(checkoutLimit).Post("/", h.Create)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Put("/{id}/status", h.SetStatus)
		})
	})
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderCreate
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	order, err := h.orders.Create(r.Context(), req)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// SetStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.orders.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	username, _ := middleware.GetUsername(r.Context())
	h.logger.Info("Order status changed",
		zap.String("order_id", id),
		zap.String("status", string(order.Status)),
		zap.String("by", username),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
