package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps collections in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]Document)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

func (s *MemoryStore) Driver() string {
	return "memory"
}

type memoryCollection struct {
	mu    sync.RWMutex
	docs  map[string]Document
	order []string
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(doc)
}

func (c *memoryCollection) InsertMany(ctx context.Context, docs []Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range docs {
		if err := c.insert(doc); err != nil {
			return err
		}
	}
	return nil
}

func (c *memoryCollection) insert(doc Document) error {
	id, ok := doc.ID()
	if !ok {
		return ErrMissingID
	}
	if _, exists := c.docs[id]; exists {
		return fmt.Errorf("duplicate id %q", id)
	}

	c.docs[id] = copyDocument(doc)
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection) FindOne(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNoDocument
	}
	return copyDocument(doc), nil
}

func (c *memoryCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	matched := []Document{}
	for _, id := range c.order {
		doc := c.docs[id]
		if matchesEquals(doc, q.Equals) && matchesText(doc, q.Match) {
			matched = append(matched, copyDocument(doc))
		}
	}
	c.mu.RUnlock()

	if q.SortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][q.SortBy], matched[j][q.SortBy])
			if q.Order == SortOrderDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, id string, set Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNoDocument
	}
	for k, v := range set {
		if k == IDField {
			continue
		}
		doc[k] = copyValue(v)
	}
	return copyDocument(doc), nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (c *memoryCollection) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.docs)), nil
}

func matchesEquals(doc Document, equals map[string]any) bool {
	for k, want := range equals {
		got, ok := doc[k]
		if !ok || compareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

func matchesText(doc Document, m *TextMatch) bool {
	if m == nil {
		return true
	}

	needle := strings.ToLower(m.Text)
	for _, field := range m.Fields {
		s, ok := doc[field].(string)
		if ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// compareValues orders numbers numerically, strings lexically and anything
// else by its printed form
func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case Document:
		return map[string]any(copyDocument(t))
	case map[string]any:
		return map[string]any(copyDocument(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	default:
		return v
	}
}
