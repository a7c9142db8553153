package repository

import (
	"context"
	"testing"
	"time"

	"boutique-shop/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_StoreAndFetch(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newMemoryStore())

	order := newTestOrder(time.Now())
	require.NoError(t, repo.Store(ctx, order))

	got, err := repo.Fetch(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.CustomerName, got.CustomerName)
	assert.Equal(t, order.CustomerEmail, got.CustomerEmail)
	assert.Equal(t, order.CustomerPhone, got.CustomerPhone)
	assert.Equal(t, order.ShippingAddress, got.ShippingAddress)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.True(t, order.TotalAmount.Equal(got.TotalAmount))
	assert.True(t, sameInstant(order.CreatedAt, got.CreatedAt))
	assert.True(t, sameInstant(order.UpdatedAt, got.UpdatedAt))

	require.Len(t, got.Items, len(order.Items))
	for i := range order.Items {
		assert.Equal(t, order.Items[i].ProductID, got.Items[i].ProductID)
		assert.Equal(t, order.Items[i].Quantity, got.Items[i].Quantity)
		assert.True(t, order.Items[i].Price.Equal(got.Items[i].Price))
	}
}

func TestOrderRepository_ExactAmounts(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newMemoryStore())

	order := newTestOrder(time.Now())
	order.Items = []domain.CartItem{
		{ProductID: "p-1", Quantity: 1, Price: decimal.RequireFromString("12345678901234567.89")},
		{ProductID: "p-2", Quantity: 1, Price: decimal.RequireFromString("0.123456789012345678901")},
	}
	order.TotalAmount = decimal.RequireFromString("12345678901234568.013456789012345678901")
	require.NoError(t, repo.Store(ctx, order))

	got, err := repo.Fetch(ctx, order.ID)
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(got.TotalAmount), "got %s", got.TotalAmount)
	require.Len(t, got.Items, 2)
	for i := range order.Items {
		assert.True(t, order.Items[i].Price.Equal(got.Items[i].Price), "got %s", got.Items[i].Price)
	}
}

func TestOrderRepository_FetchUnknownID(t *testing.T) {
	repo := NewOrderRepository(newMemoryStore())

	_, err := repo.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusShipped, time.Now())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRepository_FetchManyNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newMemoryStore())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		// insert out of chronological order
		o := newTestOrder(start.Add(time.Duration((i*3)%5) * time.Hour))
		require.NoError(t, repo.Store(ctx, o))
		ids = append(ids, o.ID)
	}

	orders, err := repo.FetchMany(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.Time.After(orders[i-1].CreatedAt.Time), "orders not sorted newest first")
	}

	capped, err := repo.FetchMany(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
	assert.Equal(t, orders[0].ID, capped[0].ID)
}

// Feature: order persistence
// Property: a status update changes only status and updated_at
func TestProperty_OrderStatusUpdate(t *testing.T) {
	repo := NewOrderRepository(newMemoryStore())

	properties := gopter.NewProperties(nil)

	properties.Property("status update touches only status and updated_at", prop.ForAll(
		func(status string, delaySeconds int) bool {
			ctx := context.Background()

			created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
			order := newTestOrder(created)
			if err := repo.Store(ctx, order); err != nil {
				t.Logf("FAIL: Failed to store order: %v", err)
				return false
			}

			at := created.Add(time.Duration(delaySeconds) * time.Second)
			updated, err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatus(status), at)
			if err != nil {
				t.Logf("FAIL: Failed to update status: %v", err)
				return false
			}

			if updated.Status != domain.OrderStatus(status) {
				t.Logf("FAIL: Status mismatch. Expected %s, got %s", status, updated.Status)
				return false
			}
			if !updated.UpdatedAt.Time.Equal(at) || !updated.CreatedAt.Time.Equal(created) {
				t.Logf("FAIL: Timestamps wrong. created=%s updated=%s", updated.CreatedAt.Time, updated.UpdatedAt.Time)
				return false
			}
			return updated.CustomerName == order.CustomerName &&
				updated.TotalAmount.Equal(order.TotalAmount) &&
				len(updated.Items) == len(order.Items)
		},
		gen.OneConstOf("pending", "processing", "shipped", "delivered", "cancelled"),
		gen.IntRange(0, 86400),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestOrderRepository_CorruptStatus(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore()
	repo := NewOrderRepository(s)

	require.NoError(t, s.Collection(OrdersCollection).InsertOne(ctx, map[string]any{
		"id":           "bad-status",
		"status":       "lost",
		"items":        []any{},
		"total_amount": 1.0,
	}))

	_, err := repo.Fetch(ctx, "bad-status")
	assert.ErrorIs(t, err, ErrCorruptDocument)
}
