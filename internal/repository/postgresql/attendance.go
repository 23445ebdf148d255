package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `
	a.id, a.employee_id, a.shift_id, a.work_type_id,
	a.attendance_date, a.attendance_day, a.clock_in, a.clock_out,
	a.worked_hour, a.minimum_hour, a.overtime,
	a.overtime_approved, a.validated,
	a.at_work_seconds, a.overtime_seconds, a.approved_overtime_seconds,
	a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, att *attendance.Attendance) error {
	return row.Scan(
		&att.ID, &att.EmployeeID, &att.ShiftID, &att.WorkTypeID,
		&att.AttendanceDate, &att.AttendanceDay, &att.ClockIn, &att.ClockOut,
		&att.WorkedHour, &att.MinimumHour, &att.Overtime,
		&att.OvertimeApproved, &att.Validated,
		&att.AtWorkSeconds, &att.OvertimeSeconds, &att.ApprovedOvertimeSeconds,
		&att.CreatedAt, &att.UpdatedAt,
	)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, shift_id, work_type_id,
			attendance_date, attendance_day, clock_in, clock_out,
			worked_hour, minimum_hour, overtime,
			overtime_approved, validated,
			at_work_seconds, overtime_seconds, approved_overtime_seconds
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		att.ShiftID,
		att.WorkTypeID,
		att.AttendanceDate,
		att.AttendanceDay,
		att.ClockIn,
		att.ClockOut,
		att.WorkedHour,
		att.MinimumHour,
		att.Overtime,
		att.OvertimeApproved,
		att.Validated,
		att.AtWorkSeconds,
		att.OvertimeSeconds,
		att.ApprovedOvertimeSeconds,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s,
			   TRIM(e.first_name || ' ' || COALESCE(e.last_name, '')) AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`, attendanceColumns)

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.EmployeeID, &att.ShiftID, &att.WorkTypeID,
		&att.AttendanceDate, &att.AttendanceDay, &att.ClockIn, &att.ClockOut,
		&att.WorkedHour, &att.MinimumHour, &att.Overtime,
		&att.OvertimeApproved, &att.Validated,
		&att.AtWorkSeconds, &att.OvertimeSeconds, &att.ApprovedOvertimeSeconds,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, false)
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, true)
}

func (a *attendanceRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, forUpdate bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.attendance_date = $2
		LIMIT 1
	`, attendanceColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date), &att)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No existing attendance for that day
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			shift_id = $1,
			work_type_id = $2,
			attendance_day = $3,
			clock_in = $4,
			clock_out = $5,
			worked_hour = $6,
			minimum_hour = $7,
			overtime = $8,
			overtime_approved = $9,
			validated = $10,
			at_work_seconds = $11,
			overtime_seconds = $12,
			approved_overtime_seconds = $13,
			updated_at = NOW()
		WHERE id = $14
	`

	tag, err := q.Exec(ctx, query,
		att.ShiftID,
		att.WorkTypeID,
		att.AttendanceDay,
		att.ClockIn,
		att.ClockOut,
		att.WorkedHour,
		att.MinimumHour,
		att.Overtime,
		att.OvertimeApproved,
		att.Validated,
		att.AtWorkSeconds,
		att.OvertimeSeconds,
		att.ApprovedOvertimeSeconds,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := make([]interface{}, 0)
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Validated != nil {
		conditions = append(conditions, fmt.Sprintf("a.validated = $%d", argIdx))
		args = append(args, *filter.Validated)
		argIdx++
	}

	baseWhere := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendances a WHERE %s`, baseWhere)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.attendance_date"
	if filter.SortBy == "clock_in" {
		orderByField = "a.clock_in"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			   TRIM(e.first_name || ' ' || COALESCE(e.last_name, '')) AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.ShiftID, &att.WorkTypeID,
			&att.AttendanceDate, &att.AttendanceDay, &att.ClockIn, &att.ClockOut,
			&att.WorkedHour, &att.MinimumHour, &att.Overtime,
			&att.OvertimeApproved, &att.Validated,
			&att.AtWorkSeconds, &att.OvertimeSeconds, &att.ApprovedOvertimeSeconds,
			&att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// SumValidatedWorkSeconds implements attendance.AttendanceRepository.
func (a *attendanceRepository) SumValidatedWorkSeconds(ctx context.Context, employeeID string, month time.Month, year int) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COALESCE(SUM(at_work_seconds), 0)
		FROM attendances
		WHERE employee_id = $1
		  AND validated = true
		  AND EXTRACT(MONTH FROM attendance_date) = $2
		  AND EXTRACT(YEAR FROM attendance_date) = $3
	`

	var total int
	if err := q.QueryRow(ctx, query, employeeID, int(month), year).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum validated work seconds: %w", err)
	}

	return total, nil
}
