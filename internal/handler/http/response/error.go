package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/customer"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/fuellog"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/inspection"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/maintenance"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/servicerequest"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/vehicle"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"github.com/haulpoint/haulpoint-backend-go/internal/service/file"
)

var debug atomic.Bool

// SetDebug controls whether unexpected error messages reach the client.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, customer.ErrInvalidCredentials),
		errors.Is(err, driver.ErrInvalidCredentials),
		errors.Is(err, auth.ErrOAuthNotLinked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, driver.ErrInvalidToken),
		errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidOAuthState):
		BadRequest(w, err.Error(), nil)

	// Authorization
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, customer.ErrAccountClosed),
		errors.Is(err, driver.ErrDriverInactive),
		errors.Is(err, vehicle.ErrVehicleNotAssigned):
		Forbidden(w, err.Error())

	// Rate limiting
	case errors.Is(err, invitation.ErrTooManyAttempts),
		errors.Is(err, driver.ErrTooManyAttempts):
		TooManyRequests(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, customer.ErrPortalUserNotFound),
		errors.Is(err, driver.ErrDriverNotFound),
		errors.Is(err, invitation.ErrInvitationNotFound),
		errors.Is(err, invoice.ErrInvoiceNotFound),
		errors.Is(err, servicerequest.ErrServiceRequestNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, notification.ErrRecipientNotFound),
		errors.Is(err, vehicle.ErrVehicleNotFound),
		errors.Is(err, workorder.ErrWorkOrderNotFound),
		errors.Is(err, fuellog.ErrFuelLogNotFound),
		errors.Is(err, inspection.ErrInspectionNotFound),
		errors.Is(err, maintenance.ErrRecordNotFound):
		NotFound(w, err.Error())

	// Conflicts
	case errors.Is(err, invitation.ErrInvitationExists),
		errors.Is(err, customer.ErrEmailTaken),
		errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrOAuthProviderIDExists):
		Conflict(w, err.Error())

	// State rules
	case errors.Is(err, invitation.ErrInvitationAlreadyUsed),
		errors.Is(err, invitation.ErrInvitationInactive),
		errors.Is(err, invitation.ErrInvitationExpired),
		errors.Is(err, invitation.ErrInvitationNotUsable),
		errors.Is(err, invitation.ErrCannotResendAccepted),
		errors.Is(err, servicerequest.ErrCannotCancel),
		errors.Is(err, workorder.ErrInvalidTransition),
		errors.Is(err, customer.ErrCurrentPasswordBad),
		errors.Is(err, notification.ErrInvalidRecipient),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, file.ErrUnsupportedImage):
		UnprocessableEntity(w, err.Error())

	case errors.Is(err, notification.ErrQueueFull):
		ServiceUnavailable(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		message := "An unexpected error occurred"
		if debug.Load() {
			message = err.Error()
		}
		InternalServerError(w, message)
	}
}
