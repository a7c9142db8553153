package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The storefront reads prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalog
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      Category        `json:"category"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	Featured      bool            `json:"featured"`
	CreatedAt     Timestamp       `json:"created_at"`
}

// ProductCreate is the input for adding a product to the catalog
type ProductCreate struct {
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description" validate:"required"`
	Price         *decimal.Decimal `json:"price" validate:"required,dec_gte=0"`
	Category      Category         `json:"category" validate:"required,oneof=clothing jewelry handbags"`
	ImageURL      string           `json:"image_url" validate:"required"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	Featured      bool             `json:"featured"`
}

// ProductUpdate carries a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name          *string          `json:"name" validate:"omitempty,min=1"`
	Description   *string          `json:"description" validate:"omitempty,min=1"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty,dec_gte=0"`
	Category      *Category        `json:"category" validate:"omitempty,oneof=clothing jewelry handbags"`
	ImageURL      *string          `json:"image_url"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	Featured      *bool            `json:"featured"`
}

// IsEmpty reports whether the update sets no field at all
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil &&
		u.Description == nil &&
		u.Price == nil &&
		u.Category == nil &&
		u.ImageURL == nil &&
		u.StockQuantity == nil &&
		u.Featured == nil
}

// ProductFilter narrows a catalog listing. Nil fields do not filter.
type ProductFilter struct {
	Category *Category
	Featured *bool
}

// NewProduct validates in and builds a product with the given identity
func NewProduct(in ProductCreate, id string, now time.Time) (*Product, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	return &Product{
		ID:            id,
		Name:          in.Name,
		Description:   in.Description,
		Price:         *in.Price,
		Category:      in.Category,
		ImageURL:      in.ImageURL,
		StockQuantity: in.StockQuantity,
		Featured:      in.Featured,
		CreatedAt:     NewTimestamp(now),
	}, nil
}
