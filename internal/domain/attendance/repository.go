package attendance

import (
	"context"
	"time"
)

// Transactor runs fn inside a single database transaction. Repository
// methods called with the ctx passed to fn share that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetByEmployeeAndDateForUpdate is the same lookup with a row lock.
	// Only valid inside a transaction; the lock serializes concurrent
	// upserts for the same (employee, date) key.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, att Attendance) error

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// SumValidatedWorkSeconds totals AtWorkSeconds over the employee's
	// validated records in the given month. The full recompute keeps the
	// ledger's hour account idempotent under retries.
	SumValidatedWorkSeconds(ctx context.Context, employeeID string, month time.Month, year int) (int, error)
}

// OvertimeLedgerRepository defines data access for the monthly accounts.
type OvertimeLedgerRepository interface {
	Create(ctx context.Context, ledger OvertimeLedger) (OvertimeLedger, error)

	// GetForUpdate locks the (employee, month, year) row; nil when absent.
	GetForUpdate(ctx context.Context, employeeID string, month string, year int) (*OvertimeLedger, error)

	Get(ctx context.Context, employeeID string, month string, year int) (*OvertimeLedger, error)

	Update(ctx context.Context, ledger OvertimeLedger) error

	// List orders by (-year, -month_sequence).
	List(ctx context.Context, filter LedgerFilter) ([]OvertimeLedger, int64, error)
}

// ActivityRepository is the raw punch log.
type ActivityRepository interface {
	Append(ctx context.Context, event ActivityEvent) (ActivityEvent, error)

	// GetOpenForDay returns the earliest unclosed punch row for the
	// employee on the derived attendance day, or nil.
	GetOpenForDay(ctx context.Context, employeeID string, date time.Time) (*ActivityEvent, error)

	// Close sets the clock-out pair on an open row.
	Close(ctx context.Context, id string, clockOut time.Time) error

	// DayBounds returns the derived (earliest clock-in, latest clock-out)
	// pair for (employee, date), or nil when no punches exist.
	DayBounds(ctx context.Context, employeeID string, date time.Time) (*DayBounds, error)

	// ListOpenBefore returns unclosed rows whose attendance day ended
	// before cutoff, for housekeeping.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]ActivityEvent, error)

	List(ctx context.Context, filter ActivityFilter) ([]ActivityEvent, int64, error)
}

// ValidationConditionRepository guards the global singleton.
type ValidationConditionRepository interface {
	// Current returns the singleton, or nil when none is configured.
	// Absence is not an error: consumers treat it as "no cutoff applied".
	Current(ctx context.Context) (*ValidationCondition, error)

	// Create fails with ErrConditionExists when a row already exists.
	Create(ctx context.Context, cond ValidationCondition) (ValidationCondition, error)
}

// LateComeEarlyOutRepository stores punch-window flags.
type LateComeEarlyOutRepository interface {
	// Upsert inserts the flag or leaves an existing (attendance, type)
	// row in place.
	Upsert(ctx context.Context, flag LateComeEarlyOut) error

	ListByAttendance(ctx context.Context, attendanceID string) ([]LateComeEarlyOut, error)
}
