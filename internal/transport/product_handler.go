package transport

import (
	"net/http"
	"strconv"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/middleware"
	"boutique-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MessageResponse is returned by operations without an entity to show
type MessageResponse struct {
	Message string `json:"message"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes. Reads are public, writes need adminOnly.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/products?category=&featured=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Search handles GET /api/products/search?q=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("q") {
		middleware.RespondWithValidationErrors(w, []domain.FieldError{{Field: "q", Message: "This field is required"}})
		return
	}

	products, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreate
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	product, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} with a partial body
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductUpdate
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	id := chi.URLParam(r, "id")
	product, err := h.catalog.Update(r.Context(), id, req)
	if err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	var filter domain.ProductFilter
	query := r.URL.Query()

	if raw := query.Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}

	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, domain.NewValidationError("featured", "Value must be true or false")
		}
		filter.Featured = &featured
	}

	return filter, nil
}
