// Package seed fills empty collections with sample records on first start.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/pkg/store"
)

// SaveAllFunc persists a batch of records in one go.
type SaveAllFunc[T any] func(ctx context.Context, items []T) error

// Into fills st with items when it is empty and returns how many records were
// added. save, when set, persists the records before they become visible.
// Records keep their ids so sample foreign keys line up.
func Into[T store.Entity[T]](ctx context.Context, st *store.Store[T], items []T, save SaveAllFunc[T], lgr zerolog.Logger) (int, error) {
	if st.Len() > 0 || len(items) == 0 {
		return 0, nil
	}

	if save != nil {
		if err := save(ctx, items); err != nil {
			return 0, fmt.Errorf("error seeding %s: %w", st.Resource(), err)
		}
	}
	st.Replace(items)

	lgr.Info().Str("resource", st.Resource()).Int("records", len(items)).Msg("Default data created")
	return len(items), nil
}
