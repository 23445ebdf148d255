package device

import (
	"context"
	"log/slog"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/device"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

type DeviceServiceImpl struct {
	attendanceService  attendance.AttendanceService
	employeeRepo       employee.EmployeeRepository
	shiftRepo          employee.ShiftRepository
	defaultMinimumHour string
}

func NewDeviceService(
	attendanceService attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	shiftRepo employee.ShiftRepository,
	defaultMinimumHour string,
) device.Service {
	return &DeviceServiceImpl{
		attendanceService:  attendanceService,
		employeeRepo:       employeeRepo,
		shiftRepo:          shiftRepo,
		defaultMinimumHour: defaultMinimumHour,
	}
}

// ProcessEvents implements device.Service. Each record runs in its own
// transaction inside RecordPunch; one bad record never aborts the batch.
func (d *DeviceServiceImpl) ProcessEvents(ctx context.Context, req *device.EventBatchRequest) (*device.IngestSummary, error) {
	summary := &device.IngestSummary{
		TotalRecords: len(req.AttendanceRecords),
	}

	for _, event := range req.AttendanceRecords {
		if event.PersonName == "" || event.Timestamp == "" {
			summary.Skipped++
			continue
		}

		ts, valid := validator.IsValidDateTime(event.Timestamp)
		if !valid {
			summary.Skipped++
			continue
		}

		// Matching is exact on the registered biometric name; the device's
		// own employee_id slot is not trusted.
		emp, err := d.employeeRepo.GetByBiometricName(ctx, event.PersonName)
		if err != nil {
			slog.Warn("device ingest: employee lookup failed",
				"person_name", event.PersonName, "error", err)
			summary.Skipped++
			continue
		}
		if emp == nil {
			summary.Skipped++
			continue
		}

		minimumHour := d.resolveMinimumHour(ctx, emp)

		result, err := d.attendanceService.RecordPunch(ctx, &attendance.RecordPunchRequest{
			EmployeeID:  emp.ID,
			ShiftID:     emp.ShiftID,
			MinimumHour: minimumHour,
			Timestamp:   ts,
		})
		if err != nil {
			slog.Warn("device ingest: punch failed",
				"employee_id", emp.ID, "timestamp", event.Timestamp, "error", err)
			summary.Skipped++
			continue
		}

		if result.Created {
			summary.Created++
		}
		if result.Updated {
			summary.Updated++
		}
	}

	return summary, nil
}

func (d *DeviceServiceImpl) resolveMinimumHour(ctx context.Context, emp *employee.Employee) string {
	if emp.ShiftID != nil && *emp.ShiftID != "" {
		shift, err := d.shiftRepo.GetByID(ctx, *emp.ShiftID)
		if err == nil && shift.MinimumWorkingHour != "" {
			return shift.MinimumWorkingHour
		}
		return d.defaultMinimumHour
	}

	// Unassigned employees inherit the organization's default shift.
	if shift, err := d.shiftRepo.GetDefault(ctx); err == nil && shift != nil && shift.MinimumWorkingHour != "" {
		return shift.MinimumWorkingHour
	}
	return d.defaultMinimumHour
}
