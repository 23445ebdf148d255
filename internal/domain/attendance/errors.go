package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("attendance record already exists for this employee and date")
	ErrFutureDate          = errors.New("attendance date cannot be in the future")

	// Ledger errors
	ErrLedgerNotFound = errors.New("overtime ledger not found")

	// Validation condition errors
	ErrConditionExists = errors.New("a validation condition already exists, you cannot add more")

	// Contention on the per-key lock exhausted its retries
	ErrTooMuchContention = errors.New("attendance record is being modified concurrently, try again")
)
