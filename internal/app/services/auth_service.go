package services

import (
	"context"
	"fmt"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/repositories"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/auth"
	"github.com/convocatorias/portal/internal/pkg/email"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// AuthService handles authentication operations
type AuthService struct {
	users       *CatalogService[models.User]
	roles       *store.Store[models.Role]
	roleNames   *lookups.Index
	resetTokens *repositories.ResetTokenRepository
	jwtService  *auth.JWTService
	mailer      email.EmailService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users *CatalogService[models.User],
	roles *store.Store[models.Role],
	roleNames *lookups.Index,
	resetTokens *repositories.ResetTokenRepository,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		roles:       roles,
		roleNames:   roleNames,
		resetTokens: resetTokens,
		jwtService:  jwtService,
		mailer:      mailer,
		logger:      logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < 8 {
		return passwordError("password must be at least 8 characters long")
	}

	hasLetter, hasDigit := false, false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return passwordError("password must contain at least one letter")
	}
	if !hasDigit {
		return passwordError("password must contain at least one digit")
	}
	return nil
}

func passwordError(msg string) error {
	return &apperrors.ValidationError{
		Resource: models.ResourceUsers,
		Fields:   []apperrors.FieldError{{Field: "password", Rule: "password", Message: msg}},
	}
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, ok := FindUserByEmail(s.users.Store(), req.Email)
	if !ok || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Str("email", req.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, apperrors.ErrAccountDisabled
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if err := s.setPassword(ctx, user.ID, req.Password); err != nil {
			s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to upgrade password hash")
		}
	}

	return s.authResponse(user)
}

// Register creates an active account with the default role and logs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	draft := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Status:   models.UserStatusActive,
	}
	if role, ok := FindRoleByName(s.roles, models.DefaultRoleName); ok {
		draft.RoleID = role.ID
	}

	user, err := s.users.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to send welcome email")
	}

	return s.authResponse(user)
}

// ForgotPassword mails a reset token. Unknown emails are silently ignored so
// the endpoint does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, ok := FindUserByEmail(s.users.Store(), req.Email)
	if !ok || !user.IsActive() {
		s.logger.Info().Str("email", req.Email).Msg("Password reset requested for unknown or inactive account")
		return nil
	}

	token, expiresAt := s.resetTokens.Create(user.ID)
	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, token, expiresAt); err != nil {
		return fmt.Errorf("error sending password reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	userID, err := s.resetTokens.Consume(req.Token)
	if err != nil {
		return err
	}

	return s.setPassword(ctx, userID, req.NewPassword)
}

// ValidateToken parses an access token and checks that its user can still log in
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if !user.IsActive() {
		return nil, apperrors.ErrAccountDisabled
	}

	// Role changes apply without waiting for a new token
	claims.Role = s.roleNames.Name(user.RoleID)
	return claims, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	user, err := s.users.Get(userID)
	if err != nil {
		return err
	}
	user.Password = password
	if _, err := s.users.Update(ctx, userID, user); err != nil {
		return err
	}
	s.logger.Info().Str("userID", userID).Msg("Password changed")
	return nil
}

func (s *AuthService) authResponse(user models.User) (*dto.AuthResponse, error) {
	roleName := s.roleNames.Name(user.RoleID)

	token, expiresIn, err := s.jwtService.GenerateAccessToken(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   roleName,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user, roleName),
	}, nil
}
