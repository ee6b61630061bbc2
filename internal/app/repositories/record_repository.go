package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/convocatorias/portal/internal/db"
	"github.com/convocatorias/portal/internal/pkg/dberrors"
)

// Keyed is satisfied by every model kept in the records table.
type Keyed interface {
	Key() string
}

// RecordRepository persists one resource as JSONB rows of the records table.
// It satisfies store.Persister.
type RecordRepository[T Keyed] struct {
	db       *db.PostgresDB
	resource string
}

// NewRecordRepository creates a repository for resource
func NewRecordRepository[T Keyed](database *db.PostgresDB, resource string) *RecordRepository[T] {
	return &RecordRepository[T]{
		db:       database,
		resource: resource,
	}
}

// Load returns every record of the resource in insertion order
func (r *RecordRepository[T]) Load(ctx context.Context) ([]T, error) {
	query := `
		SELECT payload
		FROM records
		WHERE resource = $1
		ORDER BY position
	`

	rows, err := r.db.Pool.Query(ctx, query, r.resource)
	if err != nil {
		return nil, dberrors.Translate("error loading "+r.resource, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", r.resource, err)
		}
		var item T
		if err := json.Unmarshal(payload, &item); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", r.resource, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate("error loading "+r.resource, err)
	}

	return items, nil
}

// Save inserts or replaces a record, keeping its original position
func (r *RecordRepository[T]) Save(ctx context.Context, item T) error {
	return r.save(ctx, r.db.Pool, item)
}

// querier is implemented by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *RecordRepository[T]) save(ctx context.Context, q querier, item T) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", r.resource, err)
	}

	query := `
		INSERT INTO records (resource, id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (resource, id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, r.resource, item.Key(), payload); err != nil {
		return dberrors.Translate("error saving "+r.resource, err)
	}
	return nil
}

// SaveAll stores items in a single transaction
func (r *RecordRepository[T]) SaveAll(ctx context.Context, items []T) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, item := range items {
			if err := r.save(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a record. Missing records are not an error.
func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM records WHERE resource = $1 AND id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, r.resource, id); err != nil {
		return dberrors.Translate("error deleting "+r.resource, err)
	}
	return nil
}
