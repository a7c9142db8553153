package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/store"
)

// OrdersCollection is the collection holding customer orders
const OrdersCollection = "orders"

var (
	ErrOrderNotFound = fmt.Errorf("order %w", domain.ErrNotFound)
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted.
type OrderRepository interface {
	Store(ctx context.Context, order *domain.Order) error
	Fetch(ctx context.Context, id string) (*domain.Order, error)
	FetchMany(ctx context.Context, limit int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (*domain.Order, error)
}

type orderRepository struct {
	coll store.Collection
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(s store.Store) OrderRepository {
	return &orderRepository{coll: s.Collection(OrdersCollection)}
}

// Store inserts a new order document
func (r *orderRepository) Store(ctx context.Context, order *domain.Order) error {
	if err := r.coll.InsertOne(ctx, orderToDocument(order)); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Fetch retrieves an order by ID
func (r *orderRepository) Fetch(ctx context.Context, id string) (*domain.Order, error) {
	doc, err := r.coll.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return orderFromDocument(doc)
}

// FetchMany lists orders newest first, capped at limit
func (r *orderRepository) FetchMany(ctx context.Context, limit int64) ([]*domain.Order, error) {
	docs, err := r.coll.Find(ctx, store.Query{
		SortBy: "created_at",
		Order:  store.SortOrderDesc,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, doc := range docs {
		o, err := orderFromDocument(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus sets status and updated_at and returns the stored result
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (*domain.Order, error) {
	doc, err := r.coll.UpdateOne(ctx, id, store.Document{
		"status":     string(status),
		"updated_at": encodeTime(at),
	})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return orderFromDocument(doc)
}

func orderToDocument(o *domain.Order) store.Document {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"price":      encodeDecimal(it.Price),
		})
	}

	return store.Document{
		"id":               o.ID,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_phone":   o.CustomerPhone,
		"shipping_address": o.ShippingAddress,
		"items":            items,
		"total_amount":     encodeDecimal(o.TotalAmount),
		"status":           string(o.Status),
		"created_at":       encodeTimestamp(o.CreatedAt),
		"updated_at":       encodeTimestamp(o.UpdatedAt),
	}
}

func orderFromDocument(doc store.Document) (*domain.Order, error) {
	parseTimestamps(doc)

	r := &documentReader{doc: doc}
	o := &domain.Order{
		ID:              r.text("id"),
		CustomerName:    r.text("customer_name"),
		CustomerEmail:   r.text("customer_email"),
		CustomerPhone:   r.text("customer_phone"),
		ShippingAddress: r.text("shipping_address"),
		TotalAmount:     r.amount("total_amount"),
		Status:          r.status("status"),
		CreatedAt:       timestampFrom(doc, "created_at"),
		UpdatedAt:       timestampFrom(doc, "updated_at"),
	}

	o.Items = []domain.CartItem{}
	for i, raw := range r.list("items") {
		fields, ok := raw.(map[string]any)
		if !ok {
			r.fail(fmt.Sprintf("items[%d]", i), fmt.Errorf("unexpected type %T", raw))
			break
		}
		ir := &documentReader{doc: fields}
		o.Items = append(o.Items, domain.CartItem{
			ProductID: ir.text("product_id"),
			Quantity:  ir.integer("quantity"),
			Price:     ir.amount("price"),
		})
		if ir.err != nil {
			r.fail(fmt.Sprintf("items[%d]", i), ir.err)
			break
		}
	}

	if r.err != nil {
		return nil, corrupt("order", o.ID, r.err)
	}
	return o, nil
}
