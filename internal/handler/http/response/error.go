package response

import (
	"errors"
	"net/http"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/duration"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Duration codec errors
	case errors.Is(err, duration.ErrInvalidFormat):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrLedgerNotFound):
		NotFound(w, "Overtime ledger not found")
	case errors.Is(err, attendance.ErrDuplicateAttendance):
		Conflict(w, "Attendance record already exists for that date")
	case errors.Is(err, attendance.ErrConditionExists):
		Conflict(w, "A validation condition already exists")
	case errors.Is(err, attendance.ErrTooMuchContention):
		Conflict(w, "Too many concurrent updates, please retry")
	case errors.Is(err, attendance.ErrFutureDate):
		BadRequest(w, "Attendance date must not be in the future", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrBadgeIDExists):
		Conflict(w, "Badge ID already registered")
	case errors.Is(err, employee.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
