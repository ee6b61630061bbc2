package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/auth"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// UniqueEmail is the store option that keeps user emails unique, ignoring
// case. Every users store must be opened with it; the lookup in prepareUser
// only fails fast before the password is hashed.
func UniqueEmail() store.Option[models.User] {
	return store.WithUniqueKey(func(u models.User) string {
		return strings.ToLower(strings.TrimSpace(u.Email))
	}, apperrors.ErrEmailAlreadyExists)
}

// NewUserCatalog returns the catalog service of users. Passwords are hashed
// before storage and never kept in plain text.
func NewUserCatalog(st *store.Store[models.User], confirmations *store.Confirmations, logger zerolog.Logger) *CatalogService[models.User] {
	return NewCatalogService(st, confirmations, logger, WithBeforeSave(prepareUser(st)))
}

func prepareUser(st *store.Store[models.User]) BeforeSaveFunc[models.User] {
	return func(_ context.Context, id string, existing *models.User, draft models.User) (models.User, error) {
		draft.Email = strings.TrimSpace(draft.Email)
		if other, ok := FindUserByEmail(st, draft.Email); ok && other.ID != id {
			return draft, apperrors.ErrEmailAlreadyExists
		}

		switch {
		case draft.Password != "":
			hash, err := auth.HashPassword(draft.Password)
			if err != nil {
				return draft, fmt.Errorf("error hashing password: %w", err)
			}
			draft.PasswordHash = hash
		case existing != nil:
			draft.PasswordHash = existing.PasswordHash
		default:
			return draft, &apperrors.ValidationError{
				Resource: models.ResourceUsers,
				Fields: []apperrors.FieldError{
					{Field: "password", Rule: "notblank", Message: "password is required"},
				},
			}
		}

		draft.Password = ""
		return draft, nil
	}
}

// FindUserByEmail looks a user up by email, ignoring case.
func FindUserByEmail(st *store.Store[models.User], email string) (models.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range st.Snapshot() {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// FindRoleByName looks a role up by name, ignoring case.
func FindRoleByName(st *store.Store[models.Role], name string) (models.Role, bool) {
	for _, r := range st.Snapshot() {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return models.Role{}, false
}
