package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
)

var _ port.DocumentStore = (*DocumentsRepository)(nil)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// store-assigned keys never persisted inside data
var reservedKeys = []string{"id", "createdAt", "updatedAt"}

// A DocumentsRepository keeps loosely shaped documents of every collection
// in one JSONB table.
type DocumentsRepository struct {
	sqldb sqldb
	now   func() time.Time
	newID func() string
}

func NewDocumentsRepository(sqldb sqldb) DocumentsRepository {
	return DocumentsRepository{
		sqldb: sqldb,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (r DocumentsRepository) AddDocument(
	ctx context.Context, c domain.Collection, data map[string]any,
) (string, error) {
	const op = "DocumentsRepository.AddDocument"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !c.Valid() {
		return "", fmt.Errorf("%s: %w: collection %q", op, ErrInvalidQuery, c)
	}

	body, err := marshalData(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4);`

	id := r.newID()
	_, err = r.sqldb.ExecContext(ctx, query, string(c), id, body, r.now().UTC())
	if err != nil {
		return "", fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	slog.Debug("document added", "op", op, "collection", c, "id", id)
	return id, nil
}

func (r DocumentsRepository) GetDocument(
	ctx context.Context, c domain.Collection, id string,
) (domain.Document, error) {
	const op = "DocumentsRepository.GetDocument"

	if err := ctx.Err(); err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2;`

	row := r.sqldb.QueryRowContext(ctx, query, string(c), id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Document{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (r DocumentsRepository) SetDocument(
	ctx context.Context, c domain.Collection, id string, data map[string]any,
) error {
	const op = "DocumentsRepository.SetDocument"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !c.Valid() {
		return fmt.Errorf("%s: %w: collection %q", op, ErrInvalidQuery, c)
	}

	body, err := marshalData(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;`

	_, err = r.sqldb.ExecContext(ctx, query, string(c), id, body, r.now().UTC())
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	slog.Debug("document set", "op", op, "collection", c, "id", id)
	return nil
}

func (r DocumentsRepository) QueryCollection(
	ctx context.Context, q domain.Query,
) ([]domain.Document, error) {
	const op = "DocumentsRepository.QueryCollection"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := buildQuery(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	ds := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ds = append(ds, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

func (r DocumentsRepository) UpdateDocument(
	ctx context.Context, c domain.Collection, id string, patch map[string]any,
) error {
	const op = "DocumentsRepository.UpdateDocument"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := marshalData(patch)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = $4
		WHERE collection = $1 AND id = $2;`

	res, err := r.sqldb.ExecContext(ctx, query, string(c), id, body, r.now().UTC())
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return affectedOne(res, op)
}

func (r DocumentsRepository) DeleteDocument(
	ctx context.Context, c domain.Collection, id string,
) error {
	const op = "DocumentsRepository.DeleteDocument"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM documents WHERE collection = $1 AND id = $2;`

	res, err := r.sqldb.ExecContext(ctx, query, string(c), id)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return affectedOne(res, op)
}

func buildQuery(q domain.Query) (string, []any, error) {
	if !q.Collection.Valid() {
		return "", nil, fmt.Errorf(
			"%w: collection %q", ErrInvalidQuery, q.Collection,
		)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1`)
	args := []any{string(q.Collection)}

	if len(q.Equals) != 0 {
		for k := range q.Equals {
			if !fieldName.MatchString(k) {
				return "", nil, fmt.Errorf("%w: field %q", ErrInvalidQuery, k)
			}
		}
		filter, err := json.Marshal(q.Equals)
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(filter))
		fmt.Fprintf(&sb, ` AND data @> $%d::jsonb`, len(args))
	}

	order, err := orderExpr(q.OrderBy, &args)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(` ORDER BY `)
	sb.WriteString(order)
	sb.WriteString(`;`)

	return sb.String(), args, nil
}

func orderExpr(o domain.OrderBy, args *[]any) (string, error) {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}

	switch o.Field {
	case "", "createdAt":
		return "created_at " + dir + ", id ASC", nil
	case "updatedAt":
		return "updated_at " + dir + ", id ASC", nil
	}

	if !fieldName.MatchString(o.Field) {
		return "", fmt.Errorf("%w: order field %q", ErrInvalidQuery, o.Field)
	}
	*args = append(*args, o.Field)
	return fmt.Sprintf("data->>$%d %s, id ASC", len(*args), dir), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (domain.Document, error) {
	var (
		d   domain.Document
		raw []byte
	)
	if err := s.Scan(&d.ID, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return domain.Document{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&d.Data); err != nil {
		return domain.Document{}, fmt.Errorf("document %q: %w", d.ID, err)
	}
	if d.Data == nil {
		d.Data = map[string]any{}
	}
	return d, nil
}

func marshalData(data map[string]any) (string, error) {
	body := maps.Clone(data)
	if body == nil {
		body = map[string]any{}
	}
	for _, k := range reservedKeys {
		delete(body, k)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func affectedOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
