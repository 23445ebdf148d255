package attendance

import "context"

// AttendanceService owns the attendance ledger: record upserts, validation,
// overtime approval, and the derived monthly overtime accounts.
type AttendanceService interface {
	// UpsertAttendance creates or rewrites the record for
	// (employee_id, attendance_date) and keeps the monthly ledger in step.
	UpsertAttendance(ctx context.Context, req *UpsertAttendanceRequest) (*AttendanceResponse, error)

	// GetAttendance returns one record by ID.
	GetAttendance(ctx context.Context, id string) (*AttendanceResponse, error)

	// ListAttendances returns records matching the filter, paginated.
	ListAttendances(ctx context.Context, filter *AttendanceFilter) (*ListAttendanceResponse, error)

	// ValidateAttendance marks a record validated and credits its worked
	// seconds to the month's hour account.
	ValidateAttendance(ctx context.Context, id string) (*AttendanceResponse, error)

	// SetOvertimeApproval flips the approval flag. Approving credits the
	// record's overtime to the monthly ledger; revoking debits exactly the
	// amount credited at approval time.
	SetOvertimeApproval(ctx context.Context, req *SetOvertimeApprovalRequest) (*AttendanceResponse, error)

	// ListOvertime returns monthly ledger rows, newest month first.
	ListOvertime(ctx context.Context, filter *LedgerFilter) (*ListOvertimeLedgerResponse, error)

	// ListActivities returns raw punch events.
	ListActivities(ctx context.Context, filter *ActivityFilter) ([]ActivityResponse, error)

	// RecordPunch folds one device clock event into the activity log and
	// the day's attendance record.
	RecordPunch(ctx context.Context, req *RecordPunchRequest) (*PunchResult, error)
}

// ConditionService manages the singleton validation condition row.
type ConditionService interface {
	GetCondition(ctx context.Context) (*ConditionResponse, error)
	CreateCondition(ctx context.Context, req *CreateConditionRequest) (*ConditionResponse, error)
}
