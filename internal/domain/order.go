package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of an order. Price is the unit price when the order was placed.
// ProductID is not checked against the catalog.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order represents a customer order
type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []CartItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       Timestamp       `json:"created_at"`
	UpdatedAt       Timestamp       `json:"updated_at"`
}

// CartItemInput is a cart line as submitted at checkout
type CartItemInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
}

// OrderCreate is the checkout payload. TotalAmount is taken as given.
type OrderCreate struct {
	CustomerName    string           `json:"customer_name" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required"`
	CustomerPhone   string           `json:"customer_phone" validate:"required"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	Items           []CartItemInput  `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *decimal.Decimal `json:"total_amount" validate:"required"`
}

// NewOrder validates in and builds a pending order with the given identity
func NewOrder(in OrderCreate, id string, now time.Time) (*Order, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	items := make([]CartItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     *it.Price,
		}
	}

	ts := NewTimestamp(now)
	return &Order{
		ID:              id,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		Items:           items,
		TotalAmount:     *in.TotalAmount,
		Status:          OrderStatusPending,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}, nil
}
