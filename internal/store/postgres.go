package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps each collection in a table of (seq BIGSERIAL, id TEXT, doc JSONB).
// seq preserves insertion order for unsorted reads.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle. Tables are created by migrations.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Collection(name string) Collection {
	return &postgresCollection{
		db:    s.db,
		table: pgx.Identifier{name}.Sanitize(),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database is unavailable: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) Driver() string {
	return "postgres"
}

// Field names are spliced into SQL as literals, so only plain identifiers are accepted
var fieldNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type postgresCollection struct {
	db    *sql.DB
	table string
}

func (c *postgresCollection) InsertOne(ctx context.Context, doc Document) error {
	id, ok := doc.ID()
	if !ok {
		return ErrMissingID
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, string(body)); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (c *postgresCollection) InsertMany(ctx context.Context, docs []Document) (insertErr error) {
	if len(docs) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if insertErr == nil {
			if err := tx.Commit(); err != nil {
				insertErr = fmt.Errorf("failed to commit: %w", err)
			}
			return
		}
		_ = tx.Rollback()
	}()

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.table)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		id, ok := doc.ID()
		if !ok {
			return ErrMissingID
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, string(body)); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}
	return nil
}

func (c *postgresCollection) FindOne(ctx context.Context, id string) (Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)

	var body []byte
	if err := c.db.QueryRowContext(ctx, query, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return decodeJSONDocument(body)
}

func (c *postgresCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	query, args, err := c.buildFind(q)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeJSONDocument(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

func (c *postgresCollection) buildFind(q Query) (string, []any, error) {
	var (
		where []string
		args  []any
	)

	if len(q.Equals) > 0 {
		body, err := json.Marshal(q.Equals)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		args = append(args, string(body))
		where = append(where, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}

	if q.Match != nil && len(q.Match.Fields) > 0 {
		args = append(args, "%"+escapeLike(q.Match.Text)+"%")
		ors := make([]string, 0, len(q.Match.Fields))
		for _, field := range q.Match.Fields {
			if !fieldNamePattern.MatchString(field) {
				return "", nil, fmt.Errorf("invalid field name %q", field)
			}
			ors = append(ors, fmt.Sprintf("doc->>'%s' ILIKE $%d", field, len(args)))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT doc FROM %s", c.table)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	if q.SortBy != "" {
		if !fieldNamePattern.MatchString(q.SortBy) {
			return "", nil, fmt.Errorf("invalid sort field %q", q.SortBy)
		}
		order := SortOrderAsc
		if q.Order == SortOrderDesc {
			order = SortOrderDesc
		}
		// Byte order keeps fixed-width timestamp strings chronological
		fmt.Fprintf(&sb, ` ORDER BY (doc->>'%s') COLLATE "C" %s, seq`, q.SortBy, order)
	} else {
		sb.WriteString(" ORDER BY seq")
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args, nil
}

func (c *postgresCollection) UpdateOne(ctx context.Context, id string, set Document) (Document, error) {
	if len(set) == 0 {
		return c.FindOne(ctx, id)
	}

	body, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1 RETURNING doc`, c.table)

	var updated []byte
	if err := c.db.QueryRowContext(ctx, query, id, string(body)).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return decodeJSONDocument(updated)
}

func (c *postgresCollection) DeleteOne(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)

	result, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (c *postgresCollection) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, c.table)

	var total int64
	if err := c.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}

func decodeJSONDocument(body []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
