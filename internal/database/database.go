package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"boutique-shop/internal/config"
	"boutique-shop/internal/repository"
	"boutique-shop/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Service owns the process-wide store handle
type Service interface {
	Store() store.Store
	// Health reports the store status as flat key/value pairs
	Health(ctx context.Context) map[string]string
	Close(ctx context.Context) error
}

type service struct {
	store  store.Store
	db     *sql.DB
	logger *zap.Logger
}

// New opens the store selected by cfg.Store.Driver and prepares its collections
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Service, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return &service{store: store.NewMemory(), logger: logger}, nil

	case config.DriverMongo:
		s, err := store.NewMongo(ctx, cfg.Store.MongoURL, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx, repository.ProductsCollection, repository.OrdersCollection); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		logger.Info("Connected to mongo", zap.String("database", cfg.Store.MongoDatabase))
		return &service{store: s, logger: logger}, nil

	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Connected to postgres",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		return &service{store: store.NewPostgres(db), db: db, logger: logger}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *service) Store() store.Store {
	return s.store
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := map[string]string{
		"driver": s.store.Driver(),
	}

	if err := s.store.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		s.logger.Error("Store is unavailable", zap.Error(err))
		return stats
	}
	stats["status"] = "up"

	if s.db != nil {
		dbStats := s.db.Stats()
		stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
		stats["in_use"] = strconv.Itoa(dbStats.InUse)
		stats["idle"] = strconv.Itoa(dbStats.Idle)

		if version, err := MigrationVersion(s.db); err == nil {
			stats["migration_version"] = strconv.FormatInt(version, 10)
		}
	}

	return stats
}

func (s *service) Close(ctx context.Context) error {
	if err := s.store.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
