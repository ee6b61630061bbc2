package services

import (
	"context"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/auth"
)

// ProfileService lets users view and edit their own account
type ProfileService struct {
	users     *CatalogService[models.User]
	roleNames *lookups.Index
	auth      *AuthService
}

// NewProfileService creates a new profile service
func NewProfileService(users *CatalogService[models.User], roleNames *lookups.Index, authService *AuthService) *ProfileService {
	return &ProfileService{
		users:     users,
		roleNames: roleNames,
		auth:      authService,
	}
}

// Get returns the profile of userID
func (s *ProfileService) Get(userID string) (dto.UserResponse, error) {
	user, err := s.users.Get(userID)
	if err != nil {
		return dto.UserResponse{}, apperrors.ErrUserNotFound
	}
	return dto.NewUserResponse(user, s.roleNames.Name(user.RoleID)), nil
}

// Update changes name, email and phone; status and role stay as they are
func (s *ProfileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (dto.UserResponse, error) {
	user, err := s.users.Get(userID)
	if err != nil {
		return dto.UserResponse{}, apperrors.ErrUserNotFound
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone

	updated, err := s.users.Update(ctx, userID, user)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(updated, s.roleNames.Name(updated.RoleID)), nil
}

// ChangePassword replaces the password after checking the current one
func (s *ProfileService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.users.Get(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}
	return s.auth.setPassword(ctx, userID, req.NewPassword)
}

// UserResponse converts a stored user for output
func (s *ProfileService) UserResponse(u models.User) dto.UserResponse {
	return dto.NewUserResponse(u, s.roleNames.Name(u.RoleID))
}
