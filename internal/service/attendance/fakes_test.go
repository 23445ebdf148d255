package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
)

// In-memory repositories backing the service tests. The transactor runs the
// function directly; per-key locking is irrelevant single-threaded.

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingTransactor tracks whether a repository call happened inside the
// transaction callback.
type recordingTransactor struct {
	inTx  bool
	calls int
}

func (r *recordingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	r.inTx = true
	defer func() { r.inTx = false }()
	return fn(ctx)
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

type fakeAttendanceRepo struct {
	byID  map[string]attendance.Attendance
	byDay map[string]string // dayKey -> id
	seq   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		byID:  make(map[string]attendance.Attendance),
		byDay: make(map[string]string),
	}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	key := dayKey(att.EmployeeID, att.AttendanceDate)
	if _, exists := f.byDay[key]; exists {
		return attendance.Attendance{}, attendance.ErrDuplicateAttendance
	}
	f.seq++
	att.ID = fmt.Sprintf("att-%d", f.seq)
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	f.byID[att.ID] = att
	f.byDay[key] = att.ID
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	id, ok := f.byDay[dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	att := f.byID[id]
	return &att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return f.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	if _, ok := f.byID[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	att.UpdatedAt = time.Now()
	f.byID[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.byID {
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, att)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AttendanceDate.After(out[j].AttendanceDate)
	})
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) SumValidatedWorkSeconds(ctx context.Context, employeeID string, month time.Month, year int) (int, error) {
	total := 0
	for _, att := range f.byID {
		if att.EmployeeID != employeeID || !att.Validated {
			continue
		}
		if att.AttendanceDate.Month() != month || att.AttendanceDate.Year() != year {
			continue
		}
		total += att.AtWorkSeconds
	}
	return total, nil
}

type fakeLedgerRepo struct {
	byKey map[string]attendance.OvertimeLedger
	seq   int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{byKey: make(map[string]attendance.OvertimeLedger)}
}

func ledgerKey(employeeID, month string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, strings.ToLower(month), year)
}

func (f *fakeLedgerRepo) Create(ctx context.Context, ledger attendance.OvertimeLedger) (attendance.OvertimeLedger, error) {
	f.seq++
	ledger.ID = fmt.Sprintf("ledger-%d", f.seq)
	f.byKey[ledgerKey(ledger.EmployeeID, ledger.Month, ledger.Year)] = ledger
	return ledger, nil
}

func (f *fakeLedgerRepo) GetForUpdate(ctx context.Context, employeeID, month string, year int) (*attendance.OvertimeLedger, error) {
	return f.Get(ctx, employeeID, month, year)
}

func (f *fakeLedgerRepo) Get(ctx context.Context, employeeID, month string, year int) (*attendance.OvertimeLedger, error) {
	ledger, ok := f.byKey[ledgerKey(employeeID, month, year)]
	if !ok {
		return nil, nil
	}
	return &ledger, nil
}

func (f *fakeLedgerRepo) Update(ctx context.Context, ledger attendance.OvertimeLedger) error {
	for key, existing := range f.byKey {
		if existing.ID == ledger.ID {
			f.byKey[key] = ledger
			return nil
		}
	}
	return attendance.ErrLedgerNotFound
}

func (f *fakeLedgerRepo) List(ctx context.Context, filter attendance.LedgerFilter) ([]attendance.OvertimeLedger, int64, error) {
	var out []attendance.OvertimeLedger
	for _, ledger := range f.byKey {
		if filter.EmployeeID != nil && ledger.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Year != nil && ledger.Year != *filter.Year {
			continue
		}
		out = append(out, ledger)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].MonthSequence > out[j].MonthSequence
	})
	return out, int64(len(out)), nil
}

type fakeActivityRepo struct {
	events []attendance.ActivityEvent
	seq    int
}

func (f *fakeActivityRepo) Append(ctx context.Context, event attendance.ActivityEvent) (attendance.ActivityEvent, error) {
	f.seq++
	event.ID = fmt.Sprintf("act-%d", f.seq)
	event.CreatedAt = time.Now()
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeActivityRepo) GetOpenForDay(ctx context.Context, employeeID string, date time.Time) (*attendance.ActivityEvent, error) {
	var open *attendance.ActivityEvent
	for i := range f.events {
		e := &f.events[i]
		if e.EmployeeID != employeeID || !e.AttendanceDate.Equal(date) || e.ClockOut != nil {
			continue
		}
		if open == nil || e.ClockIn.Before(open.ClockIn) {
			open = e
		}
	}
	if open == nil {
		return nil, nil
	}
	copied := *open
	return &copied, nil
}

func (f *fakeActivityRepo) Close(ctx context.Context, id string, clockOut time.Time) error {
	for i := range f.events {
		if f.events[i].ID == id && f.events[i].ClockOut == nil {
			out := clockOut
			outDate := time.Date(out.Year(), out.Month(), out.Day(), 0, 0, 0, 0, time.UTC)
			f.events[i].ClockOut = &out
			f.events[i].ClockOutDate = &outDate
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeActivityRepo) DayBounds(ctx context.Context, employeeID string, date time.Time) (*attendance.DayBounds, error) {
	var bounds *attendance.DayBounds
	for _, e := range f.events {
		if e.EmployeeID != employeeID || !e.AttendanceDate.Equal(date) {
			continue
		}
		if bounds == nil {
			bounds = &attendance.DayBounds{EarliestClockIn: e.ClockIn}
		} else if e.ClockIn.Before(bounds.EarliestClockIn) {
			bounds.EarliestClockIn = e.ClockIn
		}
		if e.ClockOut != nil && (bounds.LatestClockOut == nil || e.ClockOut.After(*bounds.LatestClockOut)) {
			out := *e.ClockOut
			bounds.LatestClockOut = &out
		}
	}
	return bounds, nil
}

func (f *fakeActivityRepo) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.ActivityEvent, error) {
	var out []attendance.ActivityEvent
	for _, e := range f.events {
		if e.ClockOut == nil && e.AttendanceDate.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) List(ctx context.Context, filter attendance.ActivityFilter) ([]attendance.ActivityEvent, int64, error) {
	var out []attendance.ActivityEvent
	for _, e := range f.events {
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

type fakeConditionRepo struct {
	cond *attendance.ValidationCondition
}

func (f *fakeConditionRepo) Current(ctx context.Context) (*attendance.ValidationCondition, error) {
	if f.cond == nil {
		return nil, nil
	}
	copied := *f.cond
	return &copied, nil
}

func (f *fakeConditionRepo) Create(ctx context.Context, cond attendance.ValidationCondition) (attendance.ValidationCondition, error) {
	if f.cond != nil {
		return attendance.ValidationCondition{}, attendance.ErrConditionExists
	}
	cond.ID = "cond-1"
	f.cond = &cond
	return cond, nil
}

type fakeLateEarlyRepo struct {
	flags     map[string]attendance.LateComeEarlyOut
	upsertErr error
}

func newFakeLateEarlyRepo() *fakeLateEarlyRepo {
	return &fakeLateEarlyRepo{flags: make(map[string]attendance.LateComeEarlyOut)}
}

func (f *fakeLateEarlyRepo) Upsert(ctx context.Context, flag attendance.LateComeEarlyOut) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	key := flag.AttendanceID + "|" + flag.Type
	if _, ok := f.flags[key]; !ok {
		f.flags[key] = flag
	}
	return nil
}

func (f *fakeLateEarlyRepo) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.LateComeEarlyOut, error) {
	var out []attendance.LateComeEarlyOut
	for _, flag := range f.flags {
		if flag.AttendanceID == attendanceID {
			out = append(out, flag)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	byID map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{byID: make(map[string]employee.Employee)}
	for _, emp := range employees {
		f.byID[emp.ID] = emp
	}
	return f
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	f.byID[emp.ID] = emp
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByBiometricName(ctx context.Context, name string) (*employee.Employee, error) {
	for _, emp := range f.byID {
		if emp.BiometricName != nil && *emp.BiometricName == name && emp.IsActive {
			copied := emp
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.byID {
		if activeOnly && !emp.IsActive {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

type fakeShiftRepo struct {
	byID map[string]employee.Shift
}

func newFakeShiftRepo(shifts ...employee.Shift) *fakeShiftRepo {
	f := &fakeShiftRepo{byID: make(map[string]employee.Shift)}
	for _, shift := range shifts {
		f.byID[shift.ID] = shift
	}
	return f
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (employee.Shift, error) {
	shift, ok := f.byID[id]
	if !ok {
		return employee.Shift{}, employee.ErrShiftNotFound
	}
	return shift, nil
}

func (f *fakeShiftRepo) GetDefault(ctx context.Context) (*employee.Shift, error) {
	for _, shift := range f.byID {
		copied := shift
		return &copied, nil
	}
	return nil, nil
}
