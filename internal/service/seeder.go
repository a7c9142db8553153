package service

import (
	"context"
	"fmt"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedResult reports what a seeding run did
type SeedResult struct {
	Skipped  bool `json:"skipped"`
	Inserted int  `json:"inserted"`
}

// Seeder populates an empty catalog with the sample products
type Seeder interface {
	Seed(ctx context.Context) (SeedResult, error)
}

type seeder struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewSeeder creates a new instance of Seeder
func NewSeeder(productRepo repository.ProductRepository, logger *zap.Logger) Seeder {
	return &seeder{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Seed inserts the sample catalog unless products already exist.
// Two concurrent first runs may both insert.
func (s *seeder) Seed(ctx context.Context) (SeedResult, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Info("Catalog already populated, skipping seed", zap.Int64("products", count))
		return SeedResult{Skipped: true}, nil
	}

	now := time.Now().UTC()
	products := make([]*domain.Product, 0, len(sampleCatalog))
	for _, in := range sampleCatalog {
		p, err := domain.NewProduct(in, uuid.New().String(), now)
		if err != nil {
			return SeedResult{}, fmt.Errorf("invalid sample product %q: %w", in.Name, err)
		}
		products = append(products, p)
	}

	if err := s.productRepo.StoreMany(ctx, products); err != nil {
		return SeedResult{}, fmt.Errorf("failed to seed products: %w", err)
	}

	s.logger.Info("Seeded sample catalog", zap.Int("inserted", len(products)))
	return SeedResult{Inserted: len(products)}, nil
}
