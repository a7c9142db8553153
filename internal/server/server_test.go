package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique-shop/internal/config"
	"boutique-shop/internal/database"
	"boutique-shop/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "development"},
		Store:  config.StoreConfig{Driver: config.DriverMemory},
		RateLimit: config.RateLimitConfig{
			Requests: 2,
			Window:   time.Minute,
		},
		JWT:   config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
		Admin: config.AdminConfig{Username: "admin", Password: "admin-password"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	db, err := database.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	srv, err := NewServer(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func serve(srv *Server, method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthAndBanner(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := serve(srv, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, "memory", health["driver"])

	rec = serve(srv, http.MethodGet, "/api/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Boutique Shop API"}`, rec.Body.String())
}

func TestServer_CORSInDevelopment(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := serve(srv, http.MethodGet, "/api/products", nil, http.Header{"Origin": {"http://localhost:3000"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_AdminFlow(t *testing.T) {
	srv := newTestServer(t, testConfig())

	// the catalog is open for writes only with a token
	product := []byte(`{"name":"Silk Scarf","description":"Hand rolled","price":49.5,"category":"clothing","image_url":"https://img.example.com/scarf.jpg","stock_quantity":3}`)
	rec := serve(srv, http.MethodPost, "/api/products", product, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(srv, http.MethodPost, "/api/admin/login", []byte(`{"username":"admin","password":"admin-password"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var token service.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	require.NotEmpty(t, token.AccessToken)

	auth := http.Header{"Authorization": {"Bearer " + token.AccessToken}}
	rec = serve(srv, http.MethodPost, "/api/products", product, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(srv, http.MethodGet, "/api/admin/verify", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"admin","valid":true}`, rec.Body.String())
}

func TestServer_Seed(t *testing.T) {
	srv := newTestServer(t, testConfig())

	first, err := srv.Seed(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Positive(t, first.Inserted)

	rec := serve(srv, http.MethodPost, "/api/seed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"skipped":true,"inserted":0}`, rec.Body.String())
}

func TestServer_RateLimitsCheckoutWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Host: host, Port: port}
	srv := newTestServer(t, cfg)

	for i := 0; i < cfg.RateLimit.Requests; i++ {
		rec := serve(srv, http.MethodPost, "/api/orders", []byte(`{}`), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}

	rec := serve(srv, http.MethodPost, "/api/orders", []byte(`{}`), nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reads are not limited
	rec = serve(srv, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := map[string]struct {
		cfg       config.AdminConfig
		password  string
		expectErr bool
	}{
		"hash wins over password": {
			cfg:      config.AdminConfig{Username: "admin", Password: "ignored", PasswordHash: string(hash)},
			password: "from-hash",
		},
		"plain password is hashed": {
			cfg:      config.AdminConfig{Username: "admin", Password: "plain"},
			password: "plain",
		},
		"nothing configured": {
			cfg:       config.AdminConfig{Username: "admin"},
			expectErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			creds, err := adminCredentials(tt.cfg)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Username, creds.Username)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(tt.password)))
		})
	}
}
