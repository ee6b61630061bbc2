package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// BeforeSaveFunc adjusts a validated draft before it is stored. id is empty
// on create; existing is the stored record on update and nil on create.
type BeforeSaveFunc[T any] func(ctx context.Context, id string, existing *T, draft T) (T, error)

// CatalogOption configures a CatalogService.
type CatalogOption[T store.Entity[T]] func(*CatalogService[T])

// WithBeforeSave installs a hook run after validation on every create and update.
func WithBeforeSave[T store.Entity[T]](fn BeforeSaveFunc[T]) CatalogOption[T] {
	return func(s *CatalogService[T]) {
		s.beforeSave = fn
	}
}

// CatalogService validates and stores the records of one resource.
type CatalogService[T store.Entity[T]] struct {
	store         *store.Store[T]
	confirmations *store.Confirmations
	beforeSave    BeforeSaveFunc[T]
	logger        zerolog.Logger
}

// NewCatalogService creates a catalog service over st
func NewCatalogService[T store.Entity[T]](st *store.Store[T], confirmations *store.Confirmations, logger zerolog.Logger, opts ...CatalogOption[T]) *CatalogService[T] {
	s := &CatalogService[T]{
		store:         st,
		confirmations: confirmations,
		logger:        logger.With().Str("resource", st.Resource()).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resource returns the resource name
func (s *CatalogService[T]) Resource() string {
	return s.store.Resource()
}

// Store returns the underlying store
func (s *CatalogService[T]) Store() *store.Store[T] {
	return s.store
}

// List returns the records matching term
func (s *CatalogService[T]) List(term string) []T {
	return s.store.List(term)
}

// Get returns one record
func (s *CatalogService[T]) Get(id string) (T, error) {
	return s.store.Get(id)
}

// Validate checks the required fields of draft without storing it
func (s *CatalogService[T]) Validate(draft T) error {
	return models.Validate(s.Resource(), draft)
}

// Create validates and stores a new record
func (s *CatalogService[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	if err := s.Validate(draft); err != nil {
		return zero, err
	}

	if s.beforeSave != nil {
		var err error
		if draft, err = s.beforeSave(ctx, "", nil, draft); err != nil {
			return zero, err
		}
	}

	item, err := s.store.Create(ctx, draft)
	if err != nil {
		return zero, fmt.Errorf("error creating %s: %w", s.Resource(), err)
	}

	s.logger.Info().Str("id", item.Key()).Msg("Record created")
	return item, nil
}

// Update validates draft and replaces the record with the given id
func (s *CatalogService[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	var zero T
	existing, err := s.store.Get(id)
	if err != nil {
		return zero, err
	}

	if err := s.Validate(draft); err != nil {
		return zero, err
	}

	if s.beforeSave != nil {
		if draft, err = s.beforeSave(ctx, id, &existing, draft); err != nil {
			return zero, err
		}
	}

	item, err := s.store.Update(ctx, id, draft)
	if err != nil {
		return zero, fmt.Errorf("error updating %s: %w", s.Resource(), err)
	}

	s.logger.Info().Str("id", id).Msg("Record updated")
	return item, nil
}

// Delete removes a record immediately
func (s *CatalogService[T]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Record deleted")
	return nil
}

// RequestDelete registers a deletion that only happens once confirmed
func (s *CatalogService[T]) RequestDelete(id string) (store.PendingConfirmation, error) {
	if _, err := s.store.Get(id); err != nil {
		return store.PendingConfirmation{}, err
	}
	p := s.confirmations.RequestDelete(s.Resource(), id, s.Delete)
	s.logger.Debug().Str("id", id).Str("token", p.Token).Msg("Deletion pending confirmation")
	return p, nil
}

// Confirmations returns the registry pending deletions are kept in
func (s *CatalogService[T]) Confirmations() *store.Confirmations {
	return s.confirmations
}
