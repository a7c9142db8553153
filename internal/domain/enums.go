package domain

import "strings"

// Category is the closed set of catalog sections
type Category string

const (
	CategoryClothing Category = "clothing"
	CategoryJewelry  Category = "jewelry"
	CategoryHandbags Category = "handbags"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryClothing, CategoryJewelry, CategoryHandbags}

// ParseCategory converts free text into a Category
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", NewValidationError("category", "Value must be one of: "+joinValues(Categories))
}

func (c Category) String() string {
	return string(c)
}

// OrderStatus is the closed set of order states. Any state may move to any other.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus converts free text into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewValidationError("status", "Value must be one of: "+joinValues(OrderStatuses))
}

func (s OrderStatus) String() string {
	return string(s)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
