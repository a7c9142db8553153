// Package store provides the document collections the repositories persist into.
//
// Documents travel as plain Go values (string, bool, float64, int32, int64,
// json.Number, []any, map[string]any) so the same repository code runs
// against every backend.
package store

import (
	"context"
	"errors"
)

// IDField is the document field holding the entity identifier
const IDField = "id"

var (
	ErrNoDocument = errors.New("document not found")
	ErrMissingID  = errors.New("document has no string id")
)

// Document is a single stored record
type Document map[string]any

// ID returns the identifier of the document
func (d Document) ID() (string, bool) {
	id, ok := d[IDField].(string)
	return id, ok && id != ""
}

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// TextMatch selects documents where any of Fields contains Text, ignoring case.
// Text is matched literally.
type TextMatch struct {
	Fields []string
	Text   string
}

// Query describes a filtered, sorted and capped read
type Query struct {
	Equals map[string]any
	Match  *TextMatch
	SortBy string
	Order  SortOrder
	Limit  int64
}

// Collection is a named set of documents keyed by IDField.
// Every write touches exactly one document except InsertMany.
type Collection interface {
	InsertOne(ctx context.Context, doc Document) error
	InsertMany(ctx context.Context, docs []Document) error
	FindOne(ctx context.Context, id string) (Document, error)
	Find(ctx context.Context, q Query) ([]Document, error)
	// UpdateOne sets the given fields and returns the document after the update
	UpdateOne(ctx context.Context, id string, set Document) (Document, error)
	DeleteOne(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Store hands out collections over one shared connection
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Driver() string
}
