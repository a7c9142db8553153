package repository

import (
	"context"
	"errors"
	"fmt"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/store"
)

// ProductsCollection is the collection holding the catalog
const ProductsCollection = "products"

var (
	ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Store(ctx context.Context, product *domain.Product) error
	StoreMany(ctx context.Context, products []*domain.Product) error
	Fetch(ctx context.Context, id string) (*domain.Product, error)
	FetchMany(ctx context.Context, filter domain.ProductFilter, limit int64) ([]*domain.Product, error)
	Search(ctx context.Context, text string, limit int64) ([]*domain.Product, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	coll store.Collection
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(s store.Store) ProductRepository {
	return &productRepository{coll: s.Collection(ProductsCollection)}
}

// Store inserts a new product document
func (r *productRepository) Store(ctx context.Context, product *domain.Product) error {
	if err := r.coll.InsertOne(ctx, productToDocument(product)); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// StoreMany inserts several products in one call
func (r *productRepository) StoreMany(ctx context.Context, products []*domain.Product) error {
	docs := make([]store.Document, 0, len(products))
	for _, p := range products {
		docs = append(docs, productToDocument(p))
	}

	if err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create products: %w", err)
	}
	return nil
}

// Fetch retrieves a product by ID
func (r *productRepository) Fetch(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.coll.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return productFromDocument(doc)
}

// FetchMany lists products matching filter, in store order, capped at limit
func (r *productRepository) FetchMany(ctx context.Context, filter domain.ProductFilter, limit int64) ([]*domain.Product, error) {
	equals := map[string]any{}
	if filter.Category != nil {
		equals["category"] = string(*filter.Category)
	}
	if filter.Featured != nil {
		equals["featured"] = *filter.Featured
	}

	docs, err := r.coll.Find(ctx, store.Query{Equals: equals, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return productsFromDocuments(docs)
}

// Search finds products whose name or description contains text, ignoring case
func (r *productRepository) Search(ctx context.Context, text string, limit int64) ([]*domain.Product, error) {
	docs, err := r.coll.Find(ctx, store.Query{
		Match: &store.TextMatch{Fields: []string{"name", "description"}, Text: text},
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return productsFromDocuments(docs)
}

// Update sets the fields present in update and returns the stored result
func (r *productRepository) Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	doc, err := r.coll.UpdateOne(ctx, id, productUpdateToDocument(update))
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return productFromDocument(doc)
}

// Delete removes a product and reports whether it existed
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.coll.DeleteOne(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return deleted, nil
}

// Count returns the number of products in the catalog
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func productToDocument(p *domain.Product) store.Document {
	return store.Document{
		"id":             p.ID,
		"name":           p.Name,
		"description":    p.Description,
		"price":          encodeDecimal(p.Price),
		"category":       string(p.Category),
		"image_url":      p.ImageURL,
		"stock_quantity": p.StockQuantity,
		"featured":       p.Featured,
		"created_at":     encodeTimestamp(p.CreatedAt),
	}
}

func productUpdateToDocument(u domain.ProductUpdate) store.Document {
	set := store.Document{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = encodeDecimal(*u.Price)
	}
	if u.Category != nil {
		set["category"] = string(*u.Category)
	}
	if u.ImageURL != nil {
		set["image_url"] = *u.ImageURL
	}
	if u.StockQuantity != nil {
		set["stock_quantity"] = *u.StockQuantity
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	return set
}

func productFromDocument(doc store.Document) (*domain.Product, error) {
	parseTimestamps(doc)

	r := &documentReader{doc: doc}
	p := &domain.Product{
		ID:            r.text("id"),
		Name:          r.text("name"),
		Description:   r.text("description"),
		Price:         r.amount("price"),
		Category:      r.category("category"),
		ImageURL:      r.text("image_url"),
		StockQuantity: r.integer("stock_quantity"),
		Featured:      r.flag("featured"),
		CreatedAt:     timestampFrom(doc, "created_at"),
	}
	if r.err != nil {
		return nil, corrupt("product", p.ID, r.err)
	}
	return p, nil
}

func productsFromDocuments(docs []store.Document) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := productFromDocument(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
