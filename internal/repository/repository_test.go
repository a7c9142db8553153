package repository

import (
	"math"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/store"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/shopspring/decimal"
)

func newTestProduct(name, description string, price decimal.Decimal, category domain.Category, stock int, featured bool) *domain.Product {
	return &domain.Product{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   description,
		Price:         price,
		Category:      category,
		ImageURL:      "https://images.example.com/" + name,
		StockQuantity: stock,
		Featured:      featured,
		CreatedAt:     domain.NewTimestamp(time.Now()),
	}
}

// genPrice yields non-negative amounts from whole units down to 21 decimal
// places, with up to 19 significant digits.
func genPrice() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(0, math.MaxInt64),
		gen.Int32Range(0, 21),
	).Map(func(values []interface{}) decimal.Decimal {
		return decimal.New(values[0].(int64), -values[1].(int32))
	})
}

func newTestOrder(createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		CustomerPhone:   "+44 20 7946 0000",
		ShippingAddress: "12 St James's Square, London",
		Items: []domain.CartItem{
			{ProductID: uuid.NewString(), Quantity: 2, Price: decimal.RequireFromString("49.99")},
			{ProductID: uuid.NewString(), Quantity: 1, Price: decimal.RequireFromString("120.00")},
		},
		TotalAmount: decimal.RequireFromString("219.98"),
		Status:      domain.OrderStatusPending,
		CreatedAt:   domain.NewTimestamp(createdAt),
		UpdatedAt:   domain.NewTimestamp(createdAt),
	}
}

// sameInstant compares timestamps at the stored microsecond precision
func sameInstant(a, b domain.Timestamp) bool {
	return a.Parsed() && b.Parsed() && a.Time.Truncate(time.Microsecond).Equal(b.Time.Truncate(time.Microsecond))
}

func productsEqual(a, b *domain.Product) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Price.Equal(b.Price) &&
		a.Category == b.Category &&
		a.ImageURL == b.ImageURL &&
		a.StockQuantity == b.StockQuantity &&
		a.Featured == b.Featured &&
		sameInstant(a.CreatedAt, b.CreatedAt)
}

func newMemoryStore() store.Store {
	return store.NewMemory()
}
