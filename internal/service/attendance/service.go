package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/duration"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

// maxContentionRetries bounds how often a serialization failure is retried
// before the conflict is surfaced to the caller.
const maxContentionRetries = 3

type AttendanceServiceImpl struct {
	transactor         attendance.Transactor
	attendanceRepo     attendance.AttendanceRepository
	ledgerRepo         attendance.OvertimeLedgerRepository
	activityRepo       attendance.ActivityRepository
	conditionRepo      attendance.ValidationConditionRepository
	lateEarlyRepo      attendance.LateComeEarlyOutRepository
	employeeRepo       employee.EmployeeRepository
	shiftRepo          employee.ShiftRepository
	defaultMinimumHour string
}

func NewAttendanceService(
	transactor attendance.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	ledgerRepo attendance.OvertimeLedgerRepository,
	activityRepo attendance.ActivityRepository,
	conditionRepo attendance.ValidationConditionRepository,
	lateEarlyRepo attendance.LateComeEarlyOutRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo employee.ShiftRepository,
	defaultMinimumHour string,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		transactor:         transactor,
		attendanceRepo:     attendanceRepo,
		ledgerRepo:         ledgerRepo,
		activityRepo:       activityRepo,
		conditionRepo:      conditionRepo,
		lateEarlyRepo:      lateEarlyRepo,
		employeeRepo:       employeeRepo,
		shiftRepo:          shiftRepo,
		defaultMinimumHour: defaultMinimumHour,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// runSerialized executes fn in a transaction, retrying on serialization and
// deadlock failures. Row locks inside fn serialize writers per key; under
// sustained contention the caller gets ErrTooMuchContention.
func (a *AttendanceServiceImpl) runSerialized(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxContentionRetries; attempt++ {
		err = a.transactor.WithinTransaction(ctx, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return attendance.ErrTooMuchContention
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// clampOvertime applies the configured daily cutoff. With no condition the
// raw value passes through unclamped.
func clampOvertime(cond *attendance.ValidationCondition, overtimeSeconds int) int {
	if cond == nil {
		return overtimeSeconds
	}
	cutoff, err := duration.Parse(cond.OvertimeCutoff)
	if err != nil {
		return overtimeSeconds
	}
	if overtimeSeconds > cutoff {
		return cutoff
	}
	return overtimeSeconds
}

// reconcileLedger brings the employee's monthly account in step with the
// attendance rows after a write. The hour account is always a full recompute
// over validated records, so repeated calls are idempotent; the overtime
// total moves only by the caller's edge delta. Must run inside the same
// transaction as the attendance write.
func (a *AttendanceServiceImpl) reconcileLedger(ctx context.Context, employeeID string, date time.Time, overtimeDelta int) error {
	month := attendance.MonthName(date)
	year := date.Year()

	ledger, err := a.ledgerRepo.GetForUpdate(ctx, employeeID, month, year)
	if err != nil {
		return err
	}

	totalWorked, err := a.attendanceRepo.SumValidatedWorkSeconds(ctx, employeeID, date.Month(), year)
	if err != nil {
		return err
	}

	if ledger == nil {
		created := attendance.OvertimeLedger{
			EmployeeID:         employeeID,
			Month:              month,
			MonthSequence:      attendance.MonthSequence(month),
			Year:               year,
			HourAccount:        duration.Format(totalWorked),
			Overtime:           duration.Format(overtimeDelta),
			HourAccountSeconds: totalWorked,
			OvertimeSeconds:    overtimeDelta,
		}
		_, err := a.ledgerRepo.Create(ctx, created)
		return err
	}

	ledger.HourAccountSeconds = totalWorked
	ledger.HourAccount = duration.Format(totalWorked)
	ledger.OvertimeSeconds += overtimeDelta
	ledger.Overtime = duration.Format(ledger.OvertimeSeconds)
	ledger.MonthSequence = attendance.MonthSequence(ledger.Month)

	return a.ledgerRepo.Update(ctx, *ledger)
}

// UpsertAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpsertAttendance(ctx context.Context, req *attendance.UpsertAttendanceRequest) (*attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workedSeconds, err := duration.Parse(req.WorkedHour)
	if err != nil {
		return nil, fmt.Errorf("worked_hour: %w", err)
	}
	rawOvertimeSeconds, err := duration.Parse(req.Overtime)
	if err != nil {
		return nil, fmt.Errorf("overtime: %w", err)
	}

	date, _ := time.Parse("2006-01-02", req.AttendanceDate)
	if date.After(time.Now()) {
		return nil, attendance.ErrFutureDate
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	minimumHour, err := a.resolveMinimumHour(ctx, req.MinimumHour, emp.ShiftID)
	if err != nil {
		return nil, err
	}

	shiftID := req.ShiftID
	if shiftID == nil {
		shiftID = emp.ShiftID
	}
	workTypeID := req.WorkTypeID
	if workTypeID == nil {
		workTypeID = emp.WorkTypeID
	}

	var clockIn, clockOut *time.Time
	if req.ClockIn != nil && *req.ClockIn != "" {
		t, _ := validator.IsValidDateTime(*req.ClockIn)
		clockIn = &t
	}
	if req.ClockOut != nil && *req.ClockOut != "" {
		t, _ := validator.IsValidDateTime(*req.ClockOut)
		clockOut = &t
	}

	cond, err := a.conditionRepo.Current(ctx)
	if err != nil {
		return nil, err
	}

	overtimeSeconds := clampOvertime(cond, rawOvertimeSeconds)

	var result attendance.Attendance
	err = a.runSerialized(ctx, func(ctx context.Context) error {
		prev, err := a.attendanceRepo.GetByEmployeeAndDateForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		var att attendance.Attendance
		prevApproved := false
		anchor := 0
		if prev != nil {
			att = *prev
			prevApproved = prev.OvertimeApproved
			anchor = prev.ApprovedOvertimeSeconds
		} else {
			att = attendance.Attendance{
				EmployeeID:     req.EmployeeID,
				AttendanceDate: date,
			}
		}

		att.ShiftID = shiftID
		att.WorkTypeID = workTypeID
		att.AttendanceDay = attendance.ShiftDay(date)
		if clockIn != nil {
			att.ClockIn = clockIn
		}
		if clockOut != nil {
			att.ClockOut = clockOut
		}

		// When the caller sends no punch times, the raw activity log is the
		// signal: earliest clock-in, latest clock-out for the day.
		if clockIn == nil && clockOut == nil {
			bounds, err := a.activityRepo.DayBounds(ctx, req.EmployeeID, date)
			if err != nil {
				return err
			}
			if bounds != nil {
				if att.ClockIn == nil {
					in := bounds.EarliestClockIn
					att.ClockIn = &in
				}
				if att.ClockOut == nil {
					att.ClockOut = bounds.LatestClockOut
				}
			}
		}
		att.WorkedHour = duration.Format(workedSeconds)
		att.AtWorkSeconds = workedSeconds
		att.MinimumHour = minimumHour
		att.Overtime = duration.Format(overtimeSeconds)
		att.OvertimeSeconds = overtimeSeconds
		att.Validated = req.Validated
		att.OvertimeApproved = req.OvertimeApproved

		var overtimeDelta int
		switch {
		case req.OvertimeApproved && !prevApproved:
			overtimeDelta = overtimeSeconds
			att.ApprovedOvertimeSeconds = overtimeSeconds
		case !req.OvertimeApproved:
			// Reverse exactly what was credited at approval time, never a
			// recomputed amount: the cutoff may have changed since.
			overtimeDelta = -anchor
			att.ApprovedOvertimeSeconds = 0
		default:
			att.ApprovedOvertimeSeconds = anchor
		}

		if prev != nil {
			if err := a.attendanceRepo.Update(ctx, att); err != nil {
				return err
			}
		} else {
			att, err = a.attendanceRepo.Create(ctx, att)
			if err != nil {
				return err
			}
		}

		if err := a.reconcileLedger(ctx, att.EmployeeID, date, overtimeDelta); err != nil {
			return err
		}

		result = att
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.flagPunchWindow(ctx, &result); err != nil {
		slog.Warn("attendance: punch window flags not recorded",
			"attendance_id", result.ID, "error", err)
	}

	return toAttendanceResponse(result), nil
}

// resolveMinimumHour picks the daily minimum in precedence order: explicit
// request value, the employee's shift, then the configured default.
func (a *AttendanceServiceImpl) resolveMinimumHour(ctx context.Context, requested *string, shiftID *string) (string, error) {
	if requested != nil && *requested != "" {
		if !duration.Valid(*requested) {
			return "", fmt.Errorf("minimum_hour: %w", duration.ErrInvalidFormat)
		}
		return *requested, nil
	}

	if shiftID != nil && *shiftID != "" {
		shift, err := a.shiftRepo.GetByID(ctx, *shiftID)
		if err == nil && shift.MinimumWorkingHour != "" {
			return shift.MinimumWorkingHour, nil
		}
		if err != nil && !errors.Is(err, employee.ErrShiftNotFound) {
			return "", err
		}
	}

	return a.defaultMinimumHour, nil
}

// flagPunchWindow records late-come / early-out markers when the punches
// fall outside the shift window. Best effort on top of a committed upsert.
func (a *AttendanceServiceImpl) flagPunchWindow(ctx context.Context, att *attendance.Attendance) error {
	if att.ShiftID == nil || (att.ClockIn == nil && att.ClockOut == nil) {
		return nil
	}

	shift, err := a.shiftRepo.GetByID(ctx, *att.ShiftID)
	if err != nil {
		if errors.Is(err, employee.ErrShiftNotFound) {
			return nil
		}
		return err
	}

	if att.ClockIn != nil && shift.StartTime != nil {
		start, err := timeOfDayOn(att.AttendanceDate, *shift.StartTime)
		if err == nil && att.ClockIn.After(start) {
			flag := attendance.LateComeEarlyOut{
				AttendanceID: att.ID,
				EmployeeID:   att.EmployeeID,
				Type:         attendance.PenaltyLateCome,
			}
			if err := a.lateEarlyRepo.Upsert(ctx, flag); err != nil {
				return err
			}
		}
	}

	if att.ClockOut != nil && shift.EndTime != nil {
		end, err := timeOfDayOn(att.AttendanceDate, *shift.EndTime)
		if err == nil && att.ClockOut.Before(end) {
			flag := attendance.LateComeEarlyOut{
				AttendanceID: att.ID,
				EmployeeID:   att.EmployeeID,
				Type:         attendance.PenaltyEarlyOut,
			}
			if err := a.lateEarlyRepo.Upsert(ctx, flag); err != nil {
				return err
			}
		}
	}

	return nil
}

// timeOfDayOn combines a date with an "HH:MM" wall-clock value.
func timeOfDayOn(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (*attendance.AttendanceResponse, error) {
	att, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponse(att), nil
}

// ListAttendances implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendances(ctx context.Context, filter *attendance.AttendanceFilter) (*attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	attendances, total, err := a.attendanceRepo.List(ctx, *filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, *toAttendanceResponse(att))
	}

	return &attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages(total, filter.Limit),
		Attendances: responses,
	}, nil
}

// ValidateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ValidateAttendance(ctx context.Context, id string) (*attendance.AttendanceResponse, error) {
	var result attendance.Attendance
	err := a.runSerialized(ctx, func(ctx context.Context) error {
		current, err := a.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		locked, err := a.attendanceRepo.GetByEmployeeAndDateForUpdate(ctx, current.EmployeeID, current.AttendanceDate)
		if err != nil {
			return err
		}
		if locked == nil {
			return attendance.ErrAttendanceNotFound
		}

		att := *locked
		att.Validated = true
		if err := a.attendanceRepo.Update(ctx, att); err != nil {
			return err
		}

		if err := a.reconcileLedger(ctx, att.EmployeeID, att.AttendanceDate, 0); err != nil {
			return err
		}

		result = att
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toAttendanceResponse(result), nil
}

// SetOvertimeApproval implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SetOvertimeApproval(ctx context.Context, req *attendance.SetOvertimeApprovalRequest) (*attendance.AttendanceResponse, error) {
	var result attendance.Attendance
	err := a.runSerialized(ctx, func(ctx context.Context) error {
		current, err := a.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		locked, err := a.attendanceRepo.GetByEmployeeAndDateForUpdate(ctx, current.EmployeeID, current.AttendanceDate)
		if err != nil {
			return err
		}
		if locked == nil {
			return attendance.ErrAttendanceNotFound
		}

		att := *locked
		prevApproved := att.OvertimeApproved
		anchor := att.ApprovedOvertimeSeconds

		var overtimeDelta int
		switch {
		case req.Approved && !prevApproved:
			overtimeDelta = att.OvertimeSeconds
			att.ApprovedOvertimeSeconds = att.OvertimeSeconds
		case !req.Approved:
			overtimeDelta = -anchor
			att.ApprovedOvertimeSeconds = 0
		default:
			att.ApprovedOvertimeSeconds = anchor
		}
		att.OvertimeApproved = req.Approved

		if err := a.attendanceRepo.Update(ctx, att); err != nil {
			return err
		}

		if err := a.reconcileLedger(ctx, att.EmployeeID, att.AttendanceDate, overtimeDelta); err != nil {
			return err
		}

		result = att
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toAttendanceResponse(result), nil
}

// ListOvertime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListOvertime(ctx context.Context, filter *attendance.LedgerFilter) (*attendance.ListOvertimeLedgerResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ledgers, total, err := a.ledgerRepo.List(ctx, *filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.OvertimeLedgerResponse, 0, len(ledgers))
	for _, ledger := range ledgers {
		responses = append(responses, attendance.OvertimeLedgerResponse{
			ID:                 ledger.ID,
			EmployeeID:         ledger.EmployeeID,
			EmployeeName:       ledger.EmployeeName,
			Month:              ledger.Month,
			MonthSequence:      ledger.MonthSequence,
			Year:               ledger.Year,
			HourAccount:        ledger.HourAccount,
			Overtime:           ledger.Overtime,
			HourAccountSeconds: ledger.HourAccountSeconds,
			OvertimeSeconds:    ledger.OvertimeSeconds,
		})
	}

	return &attendance.ListOvertimeLedgerResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
		Ledgers:    responses,
	}, nil
}

// ListActivities implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListActivities(ctx context.Context, filter *attendance.ActivityFilter) ([]attendance.ActivityResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	events, _, err := a.activityRepo.List(ctx, *filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.ActivityResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, attendance.ActivityResponse{
			ID:             event.ID,
			EmployeeID:     event.EmployeeID,
			AttendanceDate: event.AttendanceDate.Format("2006-01-02"),
			ShiftDay:       event.ShiftDay,
			ClockIn:        event.ClockIn.Format("2006-01-02 15:04:05"),
			ClockOut:       timePtrToString(event.ClockOut),
		})
	}

	return responses, nil
}

// RecordPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordPunch(ctx context.Context, req *attendance.RecordPunchRequest) (*attendance.PunchResult, error) {
	ts := req.Timestamp
	date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)

	result := &attendance.PunchResult{}
	err := a.runSerialized(ctx, func(ctx context.Context) error {
		open, err := a.activityRepo.GetOpenForDay(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		switch {
		case open != nil && ts.After(open.ClockIn):
			if err := a.activityRepo.Close(ctx, open.ID, ts); err != nil {
				return err
			}
		case open != nil && ts.Equal(open.ClockIn):
			// Duplicate delivery of the punch already logged.
		default:
			// A redelivered punch that already opened or closed a row for
			// this day must not start a new one.
			bounds, err := a.activityRepo.DayBounds(ctx, req.EmployeeID, date)
			if err != nil {
				return err
			}
			if bounds != nil && (ts.Equal(bounds.EarliestClockIn) ||
				(bounds.LatestClockOut != nil && ts.Equal(*bounds.LatestClockOut))) {
				break
			}
			event := attendance.ActivityEvent{
				EmployeeID:     req.EmployeeID,
				AttendanceDate: date,
				ShiftDay:       attendance.ShiftDay(date),
				ClockIn:        ts,
				ClockInDate:    date,
			}
			if _, err := a.activityRepo.Append(ctx, event); err != nil {
				return err
			}
		}

		prev, err := a.attendanceRepo.GetByEmployeeAndDateForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		if prev == nil {
			clockIn := ts
			att := attendance.Attendance{
				EmployeeID:     req.EmployeeID,
				ShiftID:        req.ShiftID,
				AttendanceDate: date,
				AttendanceDay:  attendance.ShiftDay(date),
				ClockIn:        &clockIn,
				WorkedHour:     "00:00",
				MinimumHour:    req.MinimumHour,
				Overtime:       "00:00",
			}
			if _, err := a.attendanceRepo.Create(ctx, att); err != nil {
				return err
			}
			if err := a.reconcileLedger(ctx, req.EmployeeID, date, 0); err != nil {
				return err
			}
			result.Created = true
			return nil
		}

		if prev.ClockIn != nil && ts.Before(*prev.ClockIn) {
			att := *prev
			clockIn := ts
			att.ClockIn = &clockIn
			if err := a.attendanceRepo.Update(ctx, att); err != nil {
				return err
			}
			result.Updated = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func toAttendanceResponse(att attendance.Attendance) *attendance.AttendanceResponse {
	return &attendance.AttendanceResponse{
		ID:                      att.ID,
		EmployeeID:              att.EmployeeID,
		EmployeeName:            att.EmployeeName,
		ShiftID:                 att.ShiftID,
		WorkTypeID:              att.WorkTypeID,
		AttendanceDate:          att.AttendanceDate.Format("2006-01-02"),
		AttendanceDay:           att.AttendanceDay,
		ClockIn:                 timePtrToString(att.ClockIn),
		ClockOut:                timePtrToString(att.ClockOut),
		WorkedHour:              att.WorkedHour,
		MinimumHour:             att.MinimumHour,
		Overtime:                att.Overtime,
		OvertimeApproved:        att.OvertimeApproved,
		Validated:               att.Validated,
		AtWorkSeconds:           att.AtWorkSeconds,
		OvertimeSeconds:         att.OvertimeSeconds,
		ApprovedOvertimeSeconds: att.ApprovedOvertimeSeconds,
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
