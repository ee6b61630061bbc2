// Package console drives the administrative list screens without a UI.
//
// A Screen holds what one list page holds: the search term, the create/edit
// modal with its draft, the dialog currently shown and the deletion waiting
// for confirmation. Every change goes through the catalog service, so other
// screens and the REST API see it immediately.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// DialogKind tells how a dialog is presented.
type DialogKind string

const (
	DialogWarning DialogKind = "warning"
	DialogSuccess DialogKind = "success"
	DialogConfirm DialogKind = "confirm"
	DialogError   DialogKind = "error"
)

// Dialog is a modal message. Fields lists the offending fields of a warning.
type Dialog struct {
	Kind    DialogKind
	Title   string
	Message string
	Fields  []string
}

// Screen is the list-modal state of one resource.
type Screen[T store.Entity[T]] struct {
	catalog *services.CatalogService[T]
	logger  zerolog.Logger

	mu        sync.Mutex
	term      string
	modalOpen bool
	editingID string
	draft     T
	dialog    *Dialog
	pending   *store.PendingConfirmation
}

// NewScreen creates a screen over catalog
func NewScreen[T store.Entity[T]](catalog *services.CatalogService[T], logger zerolog.Logger) *Screen[T] {
	return &Screen[T]{
		catalog: catalog,
		logger:  logger.With().Str("screen", catalog.Resource()).Logger(),
	}
}

// Resource returns the resource the screen edits
func (s *Screen[T]) Resource() string {
	return s.catalog.Resource()
}

// Items returns the records matching the current search term
func (s *Screen[T]) Items() []T {
	s.mu.Lock()
	term := s.term
	s.mu.Unlock()
	return s.catalog.List(term)
}

// SetSearch changes the search term
func (s *Screen[T]) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term = term
}

// SearchTerm returns the current search term
func (s *Screen[T]) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// OpenCreate opens the modal with an empty draft
func (s *Screen[T]) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var empty T
	s.draft = empty
	s.editingID = ""
	s.modalOpen = true
}

// OpenEdit opens the modal with a copy of the record id
func (s *Screen[T]) OpenEdit(id string) error {
	item, err := s.catalog.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = item
	s.editingID = id
	s.modalOpen = true
	return nil
}

// Edit applies mutations to the draft
func (s *Screen[T]) Edit(mutations ...models.Mutation[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = models.Apply(s.draft, mutations...)
}

// Draft returns the record being edited
func (s *Screen[T]) Draft() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// EditingID returns the id of the record being edited, empty when creating
func (s *Screen[T]) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

// ModalOpen reports whether the create/edit modal is open
func (s *Screen[T]) ModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalOpen
}

// Dialog returns the dialog being shown, or nil
func (s *Screen[T]) Dialog() *Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return nil
	}
	d := *s.dialog
	return &d
}

// DismissDialog hides an informational dialog. A pending confirmation must
// be settled with Confirm or Cancel instead.
func (s *Screen[T]) DismissDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog != nil && s.dialog.Kind != DialogConfirm {
		s.dialog = nil
	}
}

// Close closes the modal and discards the draft
func (s *Screen[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var empty T
	s.modalOpen = false
	s.editingID = ""
	s.draft = empty
}

// Save stores the draft. Blank required fields show a warning and change
// nothing else; the modal stays open. Other failures show an error dialog
// and are returned.
func (s *Screen[T]) Save(ctx context.Context) error {
	s.mu.Lock()
	draft, editingID := s.draft, s.editingID
	s.mu.Unlock()

	var err error
	if editingID != "" {
		_, err = s.catalog.Update(ctx, editingID, draft)
	} else {
		_, err = s.catalog.Create(ctx, draft)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if verr, ok := apperrors.AsValidationError(err); ok {
		s.dialog = &Dialog{
			Kind:    DialogWarning,
			Title:   "Campos obligatorios",
			Message: "Completa los campos: " + strings.Join(verr.FieldNames(), ", "),
			Fields:  verr.FieldNames(),
		}
		return nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save record")
		s.dialog = &Dialog{Kind: DialogError, Title: "Error", Message: errorMessage(err)}
		return err
	}

	message := "Registro creado correctamente"
	if editingID != "" {
		message = "Registro actualizado correctamente"
	}
	var empty T
	s.modalOpen = false
	s.editingID = ""
	s.draft = empty
	s.dialog = &Dialog{Kind: DialogSuccess, Title: "Guardado", Message: message}
	return nil
}

// RequestRemove asks for confirmation before deleting id. Removing an id
// that no longer exists does nothing.
func (s *Screen[T]) RequestRemove(id string) error {
	pending, err := s.catalog.RequestDelete(id)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &pending
	s.dialog = &Dialog{
		Kind:    DialogConfirm,
		Title:   "¿Eliminar registro?",
		Message: fmt.Sprintf("Esta acción eliminará el registro %s.", id),
	}
	return nil
}

// Pending returns the deletion waiting for confirmation, if any
func (s *Screen[T]) Pending() (store.PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return store.PendingConfirmation{}, false
	}
	return *s.pending, true
}

// Confirm performs the pending deletion
func (s *Screen[T]) Confirm(ctx context.Context) (store.Outcome, error) {
	return s.resolve(ctx, true)
}

// Cancel drops the pending deletion and leaves the list unchanged
func (s *Screen[T]) Cancel(ctx context.Context) (store.Outcome, error) {
	return s.resolve(ctx, false)
}

func (s *Screen[T]) resolve(ctx context.Context, confirmed bool) (store.Outcome, error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	if s.dialog != nil && s.dialog.Kind == DialogConfirm {
		s.dialog = nil
	}
	s.mu.Unlock()

	if pending == nil {
		return "", apperrors.ErrConfirmationNotFound
	}

	outcome, err := s.catalog.Confirmations().Resolve(ctx, pending.Token, confirmed)
	if err != nil {
		s.mu.Lock()
		s.dialog = &Dialog{Kind: DialogError, Title: "Error", Message: errorMessage(err)}
		s.mu.Unlock()
		return "", err
	}
	return outcome, nil
}

func errorMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}
