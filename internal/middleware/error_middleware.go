package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/logger"
)

// HandleAPIError maps an error onto a status code and the error envelope
func HandleAPIError(c *gin.Context, err error) {
	if verr, ok := apperrors.AsValidationError(err); ok {
		violations := make([]dto.FieldViolation, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			violations = append(violations, dto.FieldViolation{Field: f.Field, Rule: f.Rule, Message: f.Message})
		}
		detail := dto.NewValidationErrorDetail(verr.Error(), violations)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}

	// A CustomError carries a message meant for the client
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" && status < http.StatusInternalServerError {
		message = custom.Message
	}

	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrConfirmationNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Confirmation not found or already resolved"
	case errors.Is(err, apperrors.ErrConfirmationExpired):
		return http.StatusGone, dto.ErrorCodeConfirmationExpired, "Confirmation expired"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Bad request"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrInvalidPasswordResetToken):
		return http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or expired password reset token"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorCodeDatabaseError, "Storage unavailable"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
