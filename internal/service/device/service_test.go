package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/device"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAttendanceService records punches and replays scripted results.
type stubAttendanceService struct {
	attendance.AttendanceService

	punches []attendance.RecordPunchRequest
	results []attendance.PunchResult
	err     error
}

func (s *stubAttendanceService) RecordPunch(ctx context.Context, req *attendance.RecordPunchRequest) (*attendance.PunchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.punches = append(s.punches, *req)
	if len(s.results) < len(s.punches) {
		return &attendance.PunchResult{}, nil
	}
	result := s.results[len(s.punches)-1]
	return &result, nil
}

type stubEmployeeRepo struct {
	employee.EmployeeRepository

	byName map[string]employee.Employee
}

func (s *stubEmployeeRepo) GetByBiometricName(ctx context.Context, name string) (*employee.Employee, error) {
	emp, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

type stubShiftRepo struct {
	employee.ShiftRepository

	byID map[string]employee.Shift
	def  *employee.Shift
}

func (s *stubShiftRepo) GetByID(ctx context.Context, id string) (employee.Shift, error) {
	shift, ok := s.byID[id]
	if !ok {
		return employee.Shift{}, employee.ErrShiftNotFound
	}
	return shift, nil
}

func (s *stubShiftRepo) GetDefault(ctx context.Context) (*employee.Shift, error) {
	return s.def, nil
}

func newTestService(svc *stubAttendanceService) device.Service {
	shiftID := "shift-1"
	return NewDeviceService(
		svc,
		&stubEmployeeRepo{byName: map[string]employee.Employee{
			"Adam Luis": {ID: "emp-1", FirstName: "Adam", BiometricName: strPtr("Adam Luis"), IsActive: true},
			"Bea Chan":  {ID: "emp-2", FirstName: "Bea", BiometricName: strPtr("Bea Chan"), ShiftID: &shiftID, IsActive: true},
		}},
		&stubShiftRepo{byID: map[string]employee.Shift{
			"shift-1": {ID: "shift-1", Name: "Day", MinimumWorkingHour: "07:30"},
		}},
		"08:00",
	)
}

func strPtr(s string) *string { return &s }

func TestProcessEventsCounts(t *testing.T) {
	stub := &stubAttendanceService{results: []attendance.PunchResult{
		{Created: true},
		{Updated: true},
		{},
	}}
	svc := newTestService(stub)

	summary, err := svc.ProcessEvents(context.Background(), &device.EventBatchRequest{
		AttendanceRecords: []device.Event{
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "2024-05-01T08:55:00Z"},
			{PersonName: "Bea Chan", EmployeeID: "9", Timestamp: "2024-05-01 08:40:00"},
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "2024-05-01T17:30:00Z"},
			{PersonName: "Nobody Known", EmployeeID: "3", Timestamp: "2024-05-01T09:00:00Z"},
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "not-a-timestamp"},
			{PersonName: "", EmployeeID: "7", Timestamp: "2024-05-01T09:00:00Z"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalRecords)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 3, summary.Skipped)

	require.Len(t, stub.punches, 3)
	assert.Equal(t, "emp-1", stub.punches[0].EmployeeID)
	assert.Equal(t, "08:00", stub.punches[0].MinimumHour, "no shift falls back to the default")
	assert.Equal(t, "emp-2", stub.punches[1].EmployeeID)
	assert.Equal(t, "07:30", stub.punches[1].MinimumHour, "shift minimum wins")
	assert.Equal(t, time.Date(2024, 5, 1, 8, 40, 0, 0, time.UTC), stub.punches[1].Timestamp)
}

func TestProcessEventsDefaultShiftMinimum(t *testing.T) {
	stub := &stubAttendanceService{results: []attendance.PunchResult{{Created: true}}}
	svc := NewDeviceService(
		stub,
		&stubEmployeeRepo{byName: map[string]employee.Employee{
			"Adam Luis": {ID: "emp-1", FirstName: "Adam", BiometricName: strPtr("Adam Luis"), IsActive: true},
		}},
		&stubShiftRepo{def: &employee.Shift{ID: "shift-default", Name: "Standard", MinimumWorkingHour: "07:00"}},
		"08:00",
	)

	_, err := svc.ProcessEvents(context.Background(), &device.EventBatchRequest{
		AttendanceRecords: []device.Event{
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "2024-05-01T08:55:00Z"},
		},
	})
	require.NoError(t, err)

	require.Len(t, stub.punches, 1)
	assert.Equal(t, "07:00", stub.punches[0].MinimumHour, "unassigned employee takes the default shift's minimum")
}

func TestProcessEventsDuplicateDelivery(t *testing.T) {
	stub := &stubAttendanceService{results: []attendance.PunchResult{
		{Created: true},
		{}, // The engine reports the replay as a no-op.
	}}
	svc := newTestService(stub)

	batch := &device.EventBatchRequest{
		AttendanceRecords: []device.Event{
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "2024-05-01T08:55:00Z"},
		},
	}

	first, err := svc.ProcessEvents(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.ProcessEvents(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 0, second.Skipped, "a duplicate is not a skip")
}

func TestProcessEventsBadRecordDoesNotAbortBatch(t *testing.T) {
	stub := &stubAttendanceService{err: errors.New("db down")}
	svc := newTestService(stub)

	summary, err := svc.ProcessEvents(context.Background(), &device.EventBatchRequest{
		AttendanceRecords: []device.Event{
			{PersonName: "Adam Luis", EmployeeID: "7", Timestamp: "2024-05-01T08:55:00Z"},
			{PersonName: "Bea Chan", EmployeeID: "9", Timestamp: "2024-05-01T08:56:00Z"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 2, summary.Skipped)
}
