package transport

import (
	"net/http"
	"testing"

	"boutique-shop/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, "POST", "/api/orders", orderPayload(), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeBody[domain.Order](t, w)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "99.98", order.TotalAmount.String())

	w = api.do(t, "PUT", "/api/orders/"+order.ID+"/status", map[string]any{"status": "cancelled"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, "PUT", "/api/orders/"+order.ID+"/status", map[string]any{"status": "shipped"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OrderStatusShipped, decodeBody[domain.Order](t, w).Status)

	w = api.do(t, "GET", "/api/orders/"+order.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OrderStatusShipped, decodeBody[domain.Order](t, w).Status)

	w = api.do(t, "GET", "/api/orders", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Order](t, w), 1)
}

func TestOrderHandler_Errors(t *testing.T) {
	api := newTestAPI(t)

	tests := map[string]struct {
		method  string
		path    string
		body    any
		asAdmin bool
		want    int
	}{
		"list needs token":      {method: "GET", path: "/api/orders", want: http.StatusUnauthorized},
		"get needs token":       {method: "GET", path: "/api/orders/x", want: http.StatusUnauthorized},
		"status needs token":    {method: "PUT", path: "/api/orders/x/status", body: map[string]any{"status": "shipped"}, want: http.StatusUnauthorized},
		"unknown order":         {method: "GET", path: "/api/orders/missing", asAdmin: true, want: http.StatusNotFound},
		"status unknown order":  {method: "PUT", path: "/api/orders/missing/status", body: map[string]any{"status": "shipped"}, asAdmin: true, want: http.StatusNotFound},
		"status out of enum":    {method: "PUT", path: "/api/orders/missing/status", body: map[string]any{"status": "lost"}, asAdmin: true, want: http.StatusUnprocessableEntity},
		"checkout without body": {method: "POST", path: "/api/orders", want: http.StatusUnprocessableEntity},
		"checkout zero quantity": {
			method: "POST",
			path:   "/api/orders",
			body: map[string]any{
				"customer_name": "A", "customer_email": "a@b.c", "customer_phone": "1", "shipping_address": "x",
				"items":        []map[string]any{{"product_id": "p", "quantity": 0, "price": 1}},
				"total_amount": 1,
			},
			want: http.StatusUnprocessableEntity,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := api.do(t, tc.method, tc.path, tc.body, tc.asAdmin)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}
