package service

import (
	"context"
	"errors"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/repository"
	"boutique-shop/internal/store"

	"github.com/shopspring/decimal"
)

func newCatalogFixture() (CatalogService, repository.ProductRepository) {
	repo := repository.NewProductRepository(store.NewMemory())
	return NewCatalogService(repo), repo
}

func newOrderFixture() OrderService {
	return NewOrderService(repository.NewOrderRepository(store.NewMemory()))
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validProductCreate(name string, category domain.Category) domain.ProductCreate {
	return domain.ProductCreate{
		Name:          name,
		Description:   "Description of " + name,
		Price:         decimalPtr("25.00"),
		Category:      category,
		ImageURL:      "https://images.example.com/item.jpg",
		StockQuantity: 3,
	}
}

func validOrderCreate() domain.OrderCreate {
	return domain.OrderCreate{
		CustomerName:    "Grace Hopper",
		CustomerEmail:   "grace@example.com",
		CustomerPhone:   "555-0100",
		ShippingAddress: "1 Navy Yard, Arlington",
		Items: []domain.CartItemInput{
			{ProductID: "p-1", Quantity: 2, Price: decimalPtr("10.00")},
		},
		TotalAmount: decimalPtr("20.00"),
	}
}

var errStoreDown = errors.New("store unavailable")

// failingProductRepository fails every call
type failingProductRepository struct {
	repository.ProductRepository
}

func (failingProductRepository) Count(context.Context) (int64, error) {
	return 0, errStoreDown
}

func (failingProductRepository) StoreMany(context.Context, []*domain.Product) error {
	return errStoreDown
}

func (failingProductRepository) FetchMany(context.Context, domain.ProductFilter, int64) ([]*domain.Product, error) {
	return nil, errStoreDown
}

// countingProductRepository records the limit passed to listing calls
type countingProductRepository struct {
	repository.ProductRepository
	lastLimit int64
}

func (r *countingProductRepository) FetchMany(ctx context.Context, filter domain.ProductFilter, limit int64) ([]*domain.Product, error) {
	r.lastLimit = limit
	return r.ProductRepository.FetchMany(ctx, filter, limit)
}

func (r *countingProductRepository) Search(ctx context.Context, text string, limit int64) ([]*domain.Product, error) {
	r.lastLimit = limit
	return r.ProductRepository.Search(ctx, text, limit)
}
