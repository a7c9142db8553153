package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"boutique-shop/internal/domain"
	"boutique-shop/internal/store"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the stored form of every timestamp: fixed width UTC,
// so string order equals chronological order
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// ErrCorruptDocument marks a stored document that cannot be turned back into an entity
var ErrCorruptDocument = errors.New("stored document is invalid")

var timestampFields = []string{"created_at", "updated_at"}

func encodeTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func encodeTimestamp(ts domain.Timestamp) any {
	if !ts.Parsed() {
		return ts.Raw
	}
	return encodeTime(ts.Time)
}

// parseTimestamps replaces each known timestamp field holding a parseable
// value with a time.Time. Anything else is left as read.
func parseTimestamps(doc store.Document) {
	for _, field := range timestampFields {
		v, ok := doc[field]
		if !ok {
			continue
		}
		if t, ok := parseTime(v); ok {
			doc[field] = t
		}
	}
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func timestampFrom(doc store.Document, field string) domain.Timestamp {
	switch v := doc[field].(type) {
	case nil:
		return domain.Timestamp{}
	case time.Time:
		return domain.NewTimestamp(v)
	default:
		return domain.Timestamp{Raw: v}
	}
}

// encodeDecimal stores amounts as decimal strings so every driver keeps the
// exact value. decodeDecimal still reads the numeric form of older documents.
func encodeDecimal(d decimal.Decimal) string {
	return d.String()
}

func decodeDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Zero, fmt.Errorf("unexpected number type %T", v)
	}
}

func decodeInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("non-integer value %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("unexpected integer type %T", v)
	}
}

// documentReader decodes fields and remembers the first failure
type documentReader struct {
	doc store.Document
	err error
}

func (r *documentReader) fail(field string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("field %s: %w", field, err)
	}
}

func (r *documentReader) text(field string) string {
	switch v := r.doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		r.fail(field, fmt.Errorf("unexpected type %T", v))
		return ""
	}
}

func (r *documentReader) flag(field string) bool {
	switch v := r.doc[field].(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		r.fail(field, fmt.Errorf("unexpected type %T", v))
		return false
	}
}

func (r *documentReader) integer(field string) int {
	n, err := decodeInt(r.doc[field])
	if err != nil {
		r.fail(field, err)
	}
	return n
}

func (r *documentReader) amount(field string) decimal.Decimal {
	d, err := decodeDecimal(r.doc[field])
	if err != nil {
		r.fail(field, err)
	}
	return d
}

func (r *documentReader) category(field string) domain.Category {
	c, err := domain.ParseCategory(r.text(field))
	if err != nil {
		r.fail(field, errors.New("unknown category"))
	}
	return c
}

func (r *documentReader) status(field string) domain.OrderStatus {
	s, err := domain.ParseOrderStatus(r.text(field))
	if err != nil {
		r.fail(field, errors.New("unknown order status"))
	}
	return s
}

func (r *documentReader) list(field string) []any {
	switch v := r.doc[field].(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		r.fail(field, fmt.Errorf("unexpected type %T", v))
		return nil
	}
}

func corrupt(kind, id string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrCorruptDocument, kind, id, err)
}
