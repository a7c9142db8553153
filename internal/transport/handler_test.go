package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique-shop/internal/middleware"
	"boutique-shop/internal/repository"
	"boutique-shop/internal/service"
	"boutique-shop/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdmin    = "admin"
	testPassword = "admin-password"
)

type testAPI struct {
	router *chi.Mux
	token  string
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	s := store.NewMemory()

	productRepo := repository.NewProductRepository(s)
	orderRepo := repository.NewOrderRepository(s)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService(service.AdminCredentials{Username: testAdmin, PasswordHash: string(hash)}, "test-secret", time.Hour)

	authMiddleware := middleware.AuthMiddleware(auth, logger)
	requireAdmin := middleware.RequireAdmin(logger)
	adminOnly := func(next http.Handler) http.Handler { return authMiddleware(requireAdmin(next)) }

	router := chi.NewRouter()
	NewProductHandler(service.NewCatalogService(productRepo), logger).RegisterRoutes(router, adminOnly)
	NewOrderHandler(service.NewOrderService(orderRepo), logger).RegisterRoutes(router, adminOnly, passthrough)
	NewAdminHandler(auth, service.NewSeeder(productRepo, logger), logger).RegisterRoutes(router, adminOnly, passthrough)

	token, err := auth.Login(context.Background(), testAdmin, testPassword)
	require.NoError(t, err)

	return &testAPI{router: router, token: token.AccessToken}
}

// do sends a request; asAdmin attaches the admin bearer token
func (a *testAPI) do(t *testing.T, method, path string, body any, asAdmin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asAdmin {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func productPayload(name, category string, price float64) map[string]any {
	return map[string]any{
		"name":           name,
		"description":    "Description of " + name,
		"price":          price,
		"category":       category,
		"image_url":      "https://images.example.com/item.jpg",
		"stock_quantity": 4,
	}
}

func orderPayload() map[string]any {
	return map[string]any{
		"customer_name":    "Ada Lovelace",
		"customer_email":   "ada@example.com",
		"customer_phone":   "+44 20 7946 0000",
		"shipping_address": "12 St James's Square, London",
		"items": []map[string]any{
			{"product_id": "p-1", "quantity": 2, "price": 49.99},
		},
		"total_amount": 99.98,
	}
}
