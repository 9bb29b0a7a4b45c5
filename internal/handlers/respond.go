package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mtakagi/body-tracker-api/internal/constants"
	apierrors "github.com/mtakagi/body-tracker-api/internal/errors"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

// respondServiceError maps service sentinel errors onto the API error
// envelope. Unknown errors become a generic 500 so storage details never
// reach the client.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Required numeric fields missing or not finite", validationErr.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.BadRequest(c, "Passwords do not match")
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, "Username is required")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrSelfDeletion):
		apierrors.Forbidden(c, "You cannot delete your own account")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrMeasurementNotFound):
		apierrors.NotFound(c, "Measurement not found")
	default:
		apierrors.InternalError(c, "")
	}
}
