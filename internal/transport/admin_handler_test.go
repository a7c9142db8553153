package transport

import (
	"net/http"
	"testing"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_LoginAndVerify(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, "POST", "/api/admin/login", LoginRequest{Username: testAdmin, Password: testPassword}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decodeBody[service.Token](t, w)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	api.token = token.AccessToken
	w = api.do(t, "GET", "/api/admin/verify", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, VerifyResponse{Username: testAdmin, Valid: true}, decodeBody[VerifyResponse](t, w))

	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/api/admin/verify", nil, false).Code)
}

func TestAdminHandler_LoginFailures(t *testing.T) {
	api := newTestAPI(t)

	tests := map[string]struct {
		body any
		want int
	}{
		"wrong password":   {body: LoginRequest{Username: testAdmin, Password: "nope"}, want: http.StatusUnauthorized},
		"unknown user":     {body: LoginRequest{Username: "root", Password: testPassword}, want: http.StatusUnauthorized},
		"missing password": {body: map[string]any{"username": testAdmin}, want: http.StatusUnprocessableEntity},
		"malformed":        {body: `not json`, want: http.StatusUnprocessableEntity},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.do(t, "POST", "/api/admin/login", tc.body, false).Code)
		})
	}
}

func TestAdminHandler_SeedIsIdempotent(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, "POST", "/api/seed", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody[service.SeedResult](t, w)
	assert.False(t, first.Skipped)
	assert.Positive(t, first.Inserted)

	w = api.do(t, "POST", "/api/seed", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.SeedResult{Skipped: true}, decodeBody[service.SeedResult](t, w))

	w = api.do(t, "GET", "/api/products", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Product](t, w), first.Inserted)
}
