package service

import (
	"context"
	"fmt"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/repository"

	"github.com/google/uuid"
)

// MaxListedOrders caps an order listing
const MaxListedOrders = 1000

// OrderService defines the interface for order business logic.
// Status changes are unrestricted: any status may follow any other.
type OrderService interface {
	Create(ctx context.Context, in domain.OrderCreate) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
	}
}

// Create places a new pending order. The total is stored as submitted.
func (s *orderService) Create(ctx context.Context, in domain.OrderCreate) (*domain.Order, error) {
	order, err := domain.NewOrder(in, uuid.New().String(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Store(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders newest first, at most MaxListedOrders
func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.FetchMany(ctx, MaxListedOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get retrieves a single order
func (s *orderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.Fetch(ctx, id)
}

// SetStatus moves an order to status and refreshes updated_at
func (s *orderService) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(string(status))
	if err != nil {
		return nil, err
	}
	return s.orderRepo.UpdateStatus(ctx, id, status, time.Now().UTC())
}
