package service

import (
	"context"
	"fmt"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/repository"

	"github.com/google/uuid"
)

const (
	// MaxListedProducts caps a catalog listing
	MaxListedProducts = 1000
	// MaxSearchResults caps a keyword search
	MaxSearchResults = 100
)

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductCreate) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
	}
}

// List returns products matching filter, at most MaxListedProducts
func (s *catalogService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.FetchMany(ctx, filter, MaxListedProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product
func (s *catalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.Fetch(ctx, id)
}

// Create assigns an id and creation time, then persists the product
func (s *catalogService) Create(ctx context.Context, in domain.ProductCreate) (*domain.Product, error) {
	product, err := domain.NewProduct(in, uuid.New().String(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Store(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies only the fields present in in
func (s *catalogService) Update(ctx context.Context, id string, in domain.ProductUpdate) (*domain.Product, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	if in.IsEmpty() {
		return s.productRepo.Fetch(ctx, id)
	}
	return s.productRepo.Update(ctx, id, in)
}

// Delete removes a product from the catalog
func (s *catalogService) Delete(ctx context.Context, id string) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrProductNotFound
	}
	return nil
}

// Search matches query against name and description, ignoring case
func (s *catalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	products, err := s.productRepo.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
