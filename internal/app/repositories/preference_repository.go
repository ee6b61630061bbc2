package repositories

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convocatorias/portal/internal/pkg/dberrors"
)

// PreferenceRepository stores string preferences per owner.
type PreferenceRepository interface {
	// Get returns every stored preference of owner; an unknown owner yields an empty map.
	Get(ctx context.Context, owner string) (map[string]string, error)
	// Set stores a single preference.
	Set(ctx context.Context, owner, key, value string) error
}

// MemoryPreferenceRepository keeps preferences in process memory.
type MemoryPreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryPreferenceRepository creates an empty in-memory repository
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{values: make(map[string]map[string]string)}
}

func (r *MemoryPreferenceRepository) Get(_ context.Context, owner string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.values[owner]))
	for k, v := range r.values[owner] {
		out[k] = v
	}
	return out, nil
}

func (r *MemoryPreferenceRepository) Set(_ context.Context, owner, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.values[owner] == nil {
		r.values[owner] = make(map[string]string)
	}
	r.values[owner][key] = value
	return nil
}

// PostgresPreferenceRepository stores preferences in the preferences table.
type PostgresPreferenceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPreferenceRepository creates a new preference repository
func NewPostgresPreferenceRepository(db *pgxpool.Pool) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) Get(ctx context.Context, owner string) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM preferences
		WHERE owner = $1
	`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, dberrors.Translate("error retrieving preferences", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, dberrors.Translate("error scanning preference", err)
		}
		out[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate("error retrieving preferences", err)
	}

	return out, nil
}

func (r *PostgresPreferenceRepository) Set(ctx context.Context, owner, key, value string) error {
	query := `
		INSERT INTO preferences (owner, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, owner, key, value); err != nil {
		return dberrors.Translate("error saving preference", err)
	}
	return nil
}
