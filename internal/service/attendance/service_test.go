package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/duration"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        attendance.AttendanceService
	attRepo    *fakeAttendanceRepo
	ledgerRepo *fakeLedgerRepo
	activity   *fakeActivityRepo
	condRepo   *fakeConditionRepo
	lateEarly  *fakeLateEarlyRepo
}

func newFixture(cond *attendance.ValidationCondition) *fixture {
	f := &fixture{
		attRepo:    newFakeAttendanceRepo(),
		ledgerRepo: newFakeLedgerRepo(),
		activity:   &fakeActivityRepo{},
		condRepo:   &fakeConditionRepo{cond: cond},
		lateEarly:  newFakeLateEarlyRepo(),
	}
	empRepo := newFakeEmployeeRepo(employee.Employee{
		ID:        "emp-1",
		FirstName: "Adam",
		Email:     "adam@example.com",
		IsActive:  true,
	})
	f.svc = NewAttendanceService(
		fakeTransactor{},
		f.attRepo,
		f.ledgerRepo,
		f.activity,
		f.condRepo,
		f.lateEarly,
		empRepo,
		newFakeShiftRepo(),
		"08:00",
	)
	return f
}

func cutoffCondition(cutoff string) *attendance.ValidationCondition {
	return &attendance.ValidationCondition{
		ID:                       "cond-1",
		ValidationAtWork:         "09:00",
		MinimumOvertimeToApprove: "00:30",
		OvertimeCutoff:           cutoff,
	}
}

func upsertReq(overtime string, approved, validated bool) *attendance.UpsertAttendanceRequest {
	return &attendance.UpsertAttendanceRequest{
		EmployeeID:       "emp-1",
		AttendanceDate:   "2024-05-01",
		WorkedHour:       "08:15",
		Overtime:         overtime,
		OvertimeApproved: approved,
		Validated:        validated,
	}
}

func mayLedger(t *testing.T, f *fixture) *attendance.OvertimeLedger {
	t.Helper()
	ledger, err := f.ledgerRepo.Get(context.Background(), "emp-1", "may", 2024)
	require.NoError(t, err)
	require.NotNil(t, ledger)
	return ledger
}

func TestUpsertAppliesCutoffClamp(t *testing.T) {
	f := newFixture(cutoffCondition("02:00"))

	resp, err := f.svc.UpsertAttendance(context.Background(), upsertReq("03:00", false, false))
	require.NoError(t, err)

	assert.Equal(t, 7200, resp.OvertimeSeconds)
	assert.Equal(t, "02:00", resp.Overtime)
	assert.Equal(t, 29700, resp.AtWorkSeconds)
	assert.Equal(t, "wednesday", resp.AttendanceDay)

	ledger := mayLedger(t, f)
	assert.Equal(t, 0, ledger.OvertimeSeconds)
	assert.Equal(t, 0, ledger.HourAccountSeconds)
	assert.Equal(t, 4, ledger.MonthSequence)
}

func TestUpsertNoConditionPassThrough(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.svc.UpsertAttendance(context.Background(), upsertReq("03:00", false, false))
	require.NoError(t, err)

	assert.Equal(t, 10800, resp.OvertimeSeconds)
	assert.Equal(t, "03:00", resp.Overtime)
}

func TestUpsertRejectsMalformedDurations(t *testing.T) {
	f := newFixture(nil)

	req := upsertReq("00:45", false, false)
	req.WorkedHour = "abc"
	_, err := f.svc.UpsertAttendance(context.Background(), req)
	assert.ErrorIs(t, err, duration.ErrInvalidFormat)

	req = upsertReq("25:61", false, false)
	_, err = f.svc.UpsertAttendance(context.Background(), req)
	assert.ErrorIs(t, err, duration.ErrInvalidFormat)

	assert.Empty(t, f.attRepo.byID, "nothing may be written on a format error")
}

func TestUpsertRejectsFutureDate(t *testing.T) {
	f := newFixture(nil)

	req := upsertReq("00:45", false, false)
	req.AttendanceDate = time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := f.svc.UpsertAttendance(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrFutureDate)
}

func TestUpsertUnknownEmployee(t *testing.T) {
	f := newFixture(nil)

	req := upsertReq("00:45", false, false)
	req.EmployeeID = "emp-unknown"
	_, err := f.svc.UpsertAttendance(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpsertIsIdempotent(t *testing.T) {
	f := newFixture(cutoffCondition("02:00"))

	req := upsertReq("00:45", false, true)
	first, err := f.svc.UpsertAttendance(context.Background(), req)
	require.NoError(t, err)

	second, err := f.svc.UpsertAttendance(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert must rewrite the same row")
	assert.Len(t, f.attRepo.byID, 1)

	ledger := mayLedger(t, f)
	assert.Equal(t, 29700, ledger.HourAccountSeconds)
	assert.Equal(t, "08:15", ledger.HourAccount)
	assert.Equal(t, 0, ledger.OvertimeSeconds)
}

func TestApprovalEdgeSymmetry(t *testing.T) {
	f := newFixture(cutoffCondition("02:00"))

	resp, err := f.svc.UpsertAttendance(context.Background(), upsertReq("03:00", false, true))
	require.NoError(t, err)

	approve := &attendance.SetOvertimeApprovalRequest{ID: resp.ID, Approved: true}
	revoke := &attendance.SetOvertimeApprovalRequest{ID: resp.ID, Approved: false}

	approved, err := f.svc.SetOvertimeApproval(context.Background(), approve)
	require.NoError(t, err)
	assert.Equal(t, 7200, approved.ApprovedOvertimeSeconds)
	assert.Equal(t, 7200, mayLedger(t, f).OvertimeSeconds)

	// Approving an already-approved record must not double-count.
	_, err = f.svc.SetOvertimeApproval(context.Background(), approve)
	require.NoError(t, err)
	assert.Equal(t, 7200, mayLedger(t, f).OvertimeSeconds)

	revoked, err := f.svc.SetOvertimeApproval(context.Background(), revoke)
	require.NoError(t, err)
	assert.Equal(t, 0, revoked.ApprovedOvertimeSeconds)
	assert.Equal(t, 0, mayLedger(t, f).OvertimeSeconds)

	// Two full cycles never drift the ledger off its baseline.
	for i := 0; i < 2; i++ {
		_, err = f.svc.SetOvertimeApproval(context.Background(), approve)
		require.NoError(t, err)
		_, err = f.svc.SetOvertimeApproval(context.Background(), revoke)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, mayLedger(t, f).OvertimeSeconds)
	assert.Equal(t, "00:00", mayLedger(t, f).Overtime)
}

func TestRevokeSubtractsWhatWasCredited(t *testing.T) {
	f := newFixture(cutoffCondition("02:00"))

	resp, err := f.svc.UpsertAttendance(context.Background(), upsertReq("03:00", true, true))
	require.NoError(t, err)
	assert.Equal(t, 7200, resp.ApprovedOvertimeSeconds)
	assert.Equal(t, 7200, mayLedger(t, f).OvertimeSeconds)

	// Tightening the cutoff afterwards must not break the reversal: the
	// ledger gives back exactly the 7200 it was given.
	f.condRepo.cond.OvertimeCutoff = "01:00"

	_, err = f.svc.SetOvertimeApproval(context.Background(), &attendance.SetOvertimeApprovalRequest{
		ID:       resp.ID,
		Approved: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, mayLedger(t, f).OvertimeSeconds)
}

func TestMayFirstEndToEnd(t *testing.T) {
	f := newFixture(cutoffCondition("02:00"))

	clockIn := "2024-05-01 08:55:00"
	req := upsertReq("00:45", false, false)
	req.ClockIn = &clockIn

	resp, err := f.svc.UpsertAttendance(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 29700, resp.AtWorkSeconds)
	assert.Equal(t, 2700, resp.OvertimeSeconds)
	assert.Equal(t, "00:45", resp.Overtime)

	// Not validated yet: the hour account stays empty.
	assert.Equal(t, 0, mayLedger(t, f).HourAccountSeconds)
	assert.Equal(t, 0, mayLedger(t, f).OvertimeSeconds)

	validated, err := f.svc.ValidateAttendance(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, validated.Validated)
	assert.Equal(t, 29700, mayLedger(t, f).HourAccountSeconds)
	assert.Equal(t, "08:15", mayLedger(t, f).HourAccount)
	assert.Equal(t, 0, mayLedger(t, f).OvertimeSeconds, "overtime stays zero until approved")

	_, err = f.svc.SetOvertimeApproval(context.Background(), &attendance.SetOvertimeApprovalRequest{
		ID:       resp.ID,
		Approved: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2700, mayLedger(t, f).OvertimeSeconds)
	assert.Equal(t, "00:45", mayLedger(t, f).Overtime)
}

func TestUpsertTakesPunchesFromActivityLog(t *testing.T) {
	f := newFixture(nil)

	morning := time.Date(2024, 5, 1, 8, 55, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)
	for _, ts := range []time.Time{morning, evening} {
		_, err := f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
			EmployeeID:  "emp-1",
			MinimumHour: "08:00",
			Timestamp:   ts,
		})
		require.NoError(t, err)
	}

	// An upsert without punch times inherits the day's bounds from the log.
	resp, err := f.svc.UpsertAttendance(context.Background(), upsertReq("00:45", false, false))
	require.NoError(t, err)
	require.NotNil(t, resp.ClockIn)
	require.NotNil(t, resp.ClockOut)
	assert.Equal(t, "2024-05-01 08:55:00", *resp.ClockIn)
	assert.Equal(t, "2024-05-01 17:30:00", *resp.ClockOut)
}

func TestValidateUnknownAttendance(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.ValidateAttendance(context.Background(), "missing")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestRecordPunch(t *testing.T) {
	f := newFixture(nil)

	morning := time.Date(2024, 5, 1, 8, 55, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)
	earlier := time.Date(2024, 5, 1, 8, 40, 0, 0, time.UTC)

	// First punch of the day creates the attendance record.
	result, err := f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   morning,
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Updated)
	require.Len(t, f.activity.events, 1)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	att, err := f.attRepo.GetByEmployeeAndDate(context.Background(), "emp-1", day)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, morning, *att.ClockIn)
	assert.Equal(t, "08:00", att.MinimumHour)
	assert.False(t, att.Validated)

	// Duplicate delivery of the same event changes nothing.
	result, err = f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   morning,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Updated)
	assert.Len(t, f.activity.events, 1)

	// A later punch closes the open activity but leaves the record alone.
	result, err = f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   evening,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Updated)
	require.NotNil(t, f.activity.events[0].ClockOut)
	assert.Equal(t, evening, *f.activity.events[0].ClockOut)

	// Redelivering the closing punch must not open a fresh row.
	result, err = f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   evening,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Updated)
	require.Len(t, f.activity.events, 1)

	// Same for the opening punch once its row is closed.
	result, err = f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   morning,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Updated)
	require.Len(t, f.activity.events, 1)

	// A late-arriving earlier event wins the clock-in.
	result, err = f.svc.RecordPunch(context.Background(), &attendance.RecordPunchRequest{
		EmployeeID:  "emp-1",
		MinimumHour: "08:00",
		Timestamp:   earlier,
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.True(t, result.Updated)

	att, err = f.attRepo.GetByEmployeeAndDate(context.Background(), "emp-1", day)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, earlier, *att.ClockIn)
}

// newShiftFixture builds a service whose employee works a 09:00-17:00 shift.
func newShiftFixture(lateEarly *fakeLateEarlyRepo) attendance.AttendanceService {
	shiftID := "shift-1"
	start := "09:00"
	end := "17:00"

	empRepo := newFakeEmployeeRepo(employee.Employee{
		ID:        "emp-1",
		FirstName: "Adam",
		ShiftID:   &shiftID,
		IsActive:  true,
	})
	shiftRepo := newFakeShiftRepo(employee.Shift{
		ID:                 shiftID,
		Name:               "Day",
		MinimumWorkingHour: "08:00",
		StartTime:          &start,
		EndTime:            &end,
	})
	return NewAttendanceService(
		fakeTransactor{},
		newFakeAttendanceRepo(),
		newFakeLedgerRepo(),
		&fakeActivityRepo{},
		&fakeConditionRepo{},
		lateEarly,
		empRepo,
		shiftRepo,
		"08:00",
	)
}

func TestUpsertFlagsLateComeAndEarlyOut(t *testing.T) {
	lateEarly := newFakeLateEarlyRepo()
	svc := newShiftFixture(lateEarly)

	clockIn := "2024-05-01 09:10:00"
	clockOut := "2024-05-01 16:30:00"
	req := upsertReq("00:00", false, false)
	req.ClockIn = &clockIn
	req.ClockOut = &clockOut

	resp, err := svc.UpsertAttendance(context.Background(), req)
	require.NoError(t, err)

	flags, err := lateEarly.ListByAttendance(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, flags, 2)

	types := []string{flags[0].Type, flags[1].Type}
	assert.Contains(t, types, attendance.PenaltyLateCome)
	assert.Contains(t, types, attendance.PenaltyEarlyOut)
}

func TestUpsertSurvivesFlaggingFailure(t *testing.T) {
	lateEarly := newFakeLateEarlyRepo()
	lateEarly.upsertErr = errors.New("flags table unavailable")
	svc := newShiftFixture(lateEarly)

	clockIn := "2024-05-01 09:10:00"
	req := upsertReq("00:00", false, false)
	req.ClockIn = &clockIn

	// The record committed before flagging ran; the caller still gets it.
	resp, err := svc.UpsertAttendance(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, lateEarly.flags)
}

func TestConditionSingleton(t *testing.T) {
	condRepo := &fakeConditionRepo{}
	svc := NewConditionService(fakeTransactor{}, condRepo)

	req := &attendance.CreateConditionRequest{
		ValidationAtWork:         "09:00",
		MinimumOvertimeToApprove: "00:30",
		OvertimeCutoff:           "02:00",
	}

	created, err := svc.CreateCondition(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "02:00", created.OvertimeCutoff)

	_, err = svc.CreateCondition(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrConditionExists)
}

type txCheckingConditionRepo struct {
	fakeConditionRepo

	tr    *recordingTransactor
	sawTx bool
}

func (r *txCheckingConditionRepo) Create(ctx context.Context, cond attendance.ValidationCondition) (attendance.ValidationCondition, error) {
	r.sawTx = r.tr.inTx
	return r.fakeConditionRepo.Create(ctx, cond)
}

func TestCreateConditionRunsInTransaction(t *testing.T) {
	tr := &recordingTransactor{}
	repo := &txCheckingConditionRepo{tr: tr}
	svc := NewConditionService(tr, repo)

	_, err := svc.CreateCondition(context.Background(), &attendance.CreateConditionRequest{
		ValidationAtWork:         "09:00",
		MinimumOvertimeToApprove: "00:30",
		OvertimeCutoff:           "02:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls)
	assert.True(t, repo.sawTx, "the table lock guarding the singleton only holds inside a transaction")
}

func TestConditionRejectsBadDurations(t *testing.T) {
	svc := NewConditionService(fakeTransactor{}, &fakeConditionRepo{})

	_, err := svc.CreateCondition(context.Background(), &attendance.CreateConditionRequest{
		ValidationAtWork:         "09:00",
		MinimumOvertimeToApprove: "00:30",
		OvertimeCutoff:           "25:99",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "overtime_cutoff")
}

func TestGetConditionWhenUnset(t *testing.T) {
	svc := NewConditionService(fakeTransactor{}, &fakeConditionRepo{})

	cond, err := svc.GetCondition(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cond)
}
