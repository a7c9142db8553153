package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"boutique-shop/internal/config"
	"boutique-shop/internal/database"
	custommiddleware "boutique-shop/internal/middleware"
	"boutique-shop/internal/repository"
	"boutique-shop/internal/service"
	"boutique-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BannerMessage is returned by GET /api/
const BannerMessage = "Boutique Shop API"

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
	seeder service.Seeder
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) (*Server, error) {
	if err := cfg.ValidateAuth(); err != nil {
		return nil, err
	}
	admin, err := adminCredentials(cfg.Admin)
	if err != nil {
		return nil, err
	}

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins, !cfg.Server.IsProduction()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	router.Get("/api/", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, transport.MessageResponse{Message: BannerMessage})
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.Store())
	orderRepo := repository.NewOrderRepository(db.Store())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	orderService := service.NewOrderService(orderRepo)
	seeder := service.NewSeeder(productRepo, logger)
	authService := service.NewAuthService(admin, cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	adminHandler := transport.NewAdminHandler(authService, seeder, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	adminOnly := func(next http.Handler) http.Handler {
		return authMiddleware(requireAdmin(next))
	}

	// Public write endpoints are rate limited when Redis is configured
	var redisClient *redis.Client
	checkoutLimit, loginLimit := passthrough, passthrough
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		checkoutLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:checkout",
		}, logger)
		loginLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	} else {
		logger.Warn("REDIS_HOST is not set, rate limiting is disabled")
	}

	// Register routes
	productHandler.RegisterRoutes(router, adminOnly)
	orderHandler.RegisterRoutes(router, adminOnly, checkoutLimit)
	adminHandler.RegisterRoutes(router, adminOnly, loginLimit)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		seeder: seeder,
	}

	return server, nil
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// adminCredentials prefers a configured hash and hashes the plain password otherwise
func adminCredentials(cfg config.AdminConfig) (service.AdminCredentials, error) {
	hash := cfg.PasswordHash
	if hash == "" {
		if cfg.Password == "" {
			return service.AdminCredentials{}, fmt.Errorf("admin password is not configured")
		}
		var err error
		hash, err = service.HashPassword(cfg.Password)
		if err != nil {
			return service.AdminCredentials{}, err
		}
	}
	return service.AdminCredentials{Username: cfg.Username, PasswordHash: hash}, nil
}

// Seed fills an empty catalog with the sample products
func (s *Server) Seed(ctx context.Context) (service.SeedResult, error) {
	return s.seeder.Seed(ctx)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	if err := s.db.Close(ctx); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
