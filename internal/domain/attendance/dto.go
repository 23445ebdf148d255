package attendance

import (
	"strings"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// UpsertAttendanceRequest creates or rewrites the record for
// (employee_id, attendance_date). Duration fields use the "H:MM" wire form;
// malformed durations are rejected by the service before any write.
type UpsertAttendanceRequest struct {
	EmployeeID       string  `json:"employee_id"`
	AttendanceDate   string  `json:"attendance_date"` // YYYY-MM-DD
	ShiftID          *string `json:"shift_id,omitempty"`
	WorkTypeID       *string `json:"work_type_id,omitempty"`
	ClockIn          *string `json:"clock_in,omitempty"`  // ISO8601 or "YYYY-MM-DD HH:MM:SS"
	ClockOut         *string `json:"clock_out,omitempty"` // same formats
	WorkedHour       string  `json:"worked_hour"`
	MinimumHour      *string `json:"minimum_hour,omitempty"`
	Overtime         string  `json:"overtime"`
	OvertimeApproved bool    `json:"overtime_approved"`
	Validated        bool    `json:"validated"`
}

func (r *UpsertAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.AttendanceDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_date",
			Message: "attendance_date must be in YYYY-MM-DD format",
		})
	}

	if r.ClockIn != nil && *r.ClockIn != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an ISO8601 or YYYY-MM-DD HH:MM:SS timestamp",
			})
		}
	}

	if r.ClockOut != nil && *r.ClockOut != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an ISO8601 or YYYY-MM-DD HH:MM:SS timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SetOvertimeApprovalRequest toggles the approval flag on one record.
type SetOvertimeApprovalRequest struct {
	ID       string `json:"-"`
	Approved bool   `json:"approved"`
}

type AttendanceResponse struct {
	ID                      string  `json:"id"`
	EmployeeID              string  `json:"employee_id"`
	EmployeeName            *string `json:"employee_name,omitempty"`
	ShiftID                 *string `json:"shift_id,omitempty"`
	WorkTypeID              *string `json:"work_type_id,omitempty"`
	AttendanceDate          string  `json:"attendance_date"`
	AttendanceDay           string  `json:"attendance_day"`
	ClockIn                 *string `json:"clock_in,omitempty"`
	ClockOut                *string `json:"clock_out,omitempty"`
	WorkedHour              string  `json:"worked_hour"`
	MinimumHour             string  `json:"minimum_hour"`
	Overtime                string  `json:"overtime"`
	OvertimeApproved        bool    `json:"overtime_approved"`
	Validated               bool    `json:"validated"`
	AtWorkSeconds           int     `json:"at_work_seconds"`
	OvertimeSeconds         int     `json:"overtime_seconds"`
	ApprovedOvertimeSeconds int     `json:"approved_overtime_seconds"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Validated  *bool   `json:"validated,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // attendance_date, clock_in
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"attendance_date", "clock_in"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: attendance_date, clock_in",
			})
		}
	} else {
		f.SortBy = "attendance_date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// OVERTIME LEDGER DTOs
// ========================================

type OvertimeLedgerResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	Month              string  `json:"month"`
	MonthSequence      int     `json:"month_sequence"`
	Year               int     `json:"year"`
	HourAccount        string  `json:"hour_account"`
	Overtime           string  `json:"overtime"`
	HourAccountSeconds int     `json:"hour_account_seconds"`
	OvertimeSeconds    int     `json:"overtime_seconds"`
}

type LedgerFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Year       *int    `json:"year,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LedgerFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListOvertimeLedgerResponse struct {
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
	Ledgers    []OvertimeLedgerResponse `json:"ledgers"`
}

// ========================================
// ACTIVITY LOG DTOs
// ========================================

type ActivityResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ShiftDay       string  `json:"shift_day"`
	ClockIn        string  `json:"clock_in"`
	ClockOut       *string `json:"clock_out,omitempty"`
}

type ActivityFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ActivityFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// DEVICE PUNCH DTOs
// ========================================

// RecordPunchRequest is one matched device clock event. The employee has
// already been resolved by the caller; MinimumHour is the daily minimum to
// stamp on a record created by this punch.
type RecordPunchRequest struct {
	EmployeeID  string
	ShiftID     *string
	MinimumHour string
	Timestamp   time.Time
}

// PunchResult reports what the punch did to the day's attendance record.
// Both false means the event was a duplicate or an ordinary clock-out.
type PunchResult struct {
	Created bool
	Updated bool
}

// ========================================
// VALIDATION CONDITION DTOs
// ========================================

type CreateConditionRequest struct {
	ValidationAtWork         string `json:"validation_at_work"`
	MinimumOvertimeToApprove string `json:"minimum_overtime_to_approve"`
	OvertimeCutoff           string `json:"overtime_cutoff"`
}

type ConditionResponse struct {
	ID                       string `json:"id"`
	ValidationAtWork         string `json:"validation_at_work"`
	MinimumOvertimeToApprove string `json:"minimum_overtime_to_approve"`
	OvertimeCutoff           string `json:"overtime_cutoff"`
}
