package attendance

import (
	"strings"
	"time"
)

// Attendance is one employee's worked interval for one calendar date.
// WorkedHour, MinimumHour and Overtime carry the "H:MM" text form;
// AtWorkSeconds, OvertimeSeconds and ApprovedOvertimeSeconds are the cached
// integer equivalents the ledger math runs on. ApprovedOvertimeSeconds is
// the portion of overtime currently counted into the monthly ledger, the
// amount to subtract when approval is revoked, not a recomputed value.
type Attendance struct {
	ID                      string
	EmployeeID              string
	ShiftID                 *string
	WorkTypeID              *string
	AttendanceDate          time.Time
	AttendanceDay           string
	ClockIn                 *time.Time
	ClockOut                *time.Time
	WorkedHour              string
	MinimumHour             string
	Overtime                string
	OvertimeApproved        bool
	Validated               bool
	AtWorkSeconds           int
	OvertimeSeconds         int
	ApprovedOvertimeSeconds int
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// DTO
	EmployeeName *string
}

// OvertimeLedger is the monthly account of one employee: the running
// approved-overtime total and the recomputed worked-hour total. One row per
// (employee, month, year). MonthSequence exists only so rows sort
// chronologically while month is stored as a name.
type OvertimeLedger struct {
	ID                 string
	EmployeeID         string
	Month              string
	MonthSequence      int
	Year               int
	HourAccount        string
	Overtime           string
	HourAccountSeconds int
	OvertimeSeconds    int
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
}

// ActivityEvent is a single raw clock punch pair from a badge or biometric
// reader. Rows are append-only; the only mutation is closing an open
// clock-out.
type ActivityEvent struct {
	ID             string
	EmployeeID     string
	AttendanceDate time.Time
	ShiftDay       string
	ClockIn        time.Time
	ClockInDate    time.Time
	ClockOut       *time.Time
	ClockOutDate   *time.Time
	CreatedAt      time.Time
}

// ValidationCondition is the single global rule set consulted on every
// attendance write. At most one row exists.
type ValidationCondition struct {
	ID                       string
	ValidationAtWork         string
	MinimumOvertimeToApprove string
	OvertimeCutoff           string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Late-come / early-out flag types.
const (
	PenaltyLateCome = "late_come"
	PenaltyEarlyOut = "early_out"
)

// LateComeEarlyOut flags an attendance record whose punches fall outside the
// shift window. One row per (attendance, type).
type LateComeEarlyOut struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	Type         string
	CreatedAt    time.Time
}

// DayBounds is the derived (earliest clock-in, latest clock-out) pair the
// activity log exposes per (employee, date).
type DayBounds struct {
	EarliestClockIn time.Time
	LatestClockOut  *time.Time
}

// ShiftDay derives the lowercase weekday bucket from a date. It is always
// recomputed from the date, never stored independently.
func ShiftDay(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// MonthName derives the lowercase month name used as the ledger key.
func MonthName(date time.Time) string {
	return strings.ToLower(date.Month().String())
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthSequence maps a lowercase month name to its 0-11 ordinal for
// chronological sorting. Unknown names map to 0.
func MonthSequence(month string) int {
	name := strings.SplitN(strings.ToLower(month), "-", 2)[0]
	for i, m := range monthNames {
		if m == name {
			return i
		}
	}
	return 0
}
