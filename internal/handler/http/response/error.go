package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/organization"
	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/tenant"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var persistenceErr *wage.PersistenceError
	if errors.As(err, &persistenceErr) {
		slog.Error("persistence failure", "op", persistenceErr.Op, "error", persistenceErr.Err)
		PersistenceError(w, persistenceErr.Error())
		return
	}

	switch {
	// Tenancy
	case errors.Is(err, tenant.ErrMissingOrganization):
		BadRequest(w, "Organization is required (X-Organization-ID header)", nil)
	case errors.Is(err, organization.ErrOrganizationAccessDenied):
		Forbidden(w, "You are not a member of this organization")
	case errors.Is(err, organization.ErrInvalidRole):
		Forbidden(w, "Membership role is not recognised")
	case errors.Is(err, organization.ErrInvitationNotFound):
		NotFound(w, "Invitation not found or already used")
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")

	// Worker domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Wage domain errors
	case errors.Is(err, wage.ErrWageEntryNotFound):
		NotFound(w, "Wage entry not found")
	case errors.Is(err, wage.ErrDailyEntryConflict):
		Conflict(w, "Worker already has an entry of this type on that date")
	case errors.Is(err, wage.ErrBonusNotFound), errors.Is(err, wage.ErrPaymentNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
