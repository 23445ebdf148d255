package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const activityColumns = `
	ac.id, ac.employee_id, ac.attendance_date, ac.shift_day,
	ac.clock_in, ac.clock_in_date, ac.clock_out, ac.clock_out_date,
	ac.created_at`

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) attendance.ActivityRepository {
	return &activityRepository{db: db}
}

func scanActivity(row pgx.Row, event *attendance.ActivityEvent) error {
	return row.Scan(
		&event.ID, &event.EmployeeID, &event.AttendanceDate, &event.ShiftDay,
		&event.ClockIn, &event.ClockInDate, &event.ClockOut, &event.ClockOutDate,
		&event.CreatedAt,
	)
}

// Append implements attendance.ActivityRepository.
func (a *activityRepository) Append(ctx context.Context, event attendance.ActivityEvent) (attendance.ActivityEvent, error) {
	q := GetQuerier(ctx, a.db)

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_activities (
			id, employee_id, attendance_date, shift_day,
			clock_in, clock_in_date, clock_out, clock_out_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		event.AttendanceDate,
		event.ShiftDay,
		event.ClockIn,
		event.ClockInDate,
		event.ClockOut,
		event.ClockOutDate,
	).Scan(&event.CreatedAt)

	if err != nil {
		return attendance.ActivityEvent{}, fmt.Errorf("failed to append activity: %w", err)
	}

	return event, nil
}

// GetOpenForDay implements attendance.ActivityRepository.
func (a *activityRepository) GetOpenForDay(ctx context.Context, employeeID string, date time.Time) (*attendance.ActivityEvent, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_activities ac
		WHERE ac.employee_id = $1
		  AND ac.attendance_date = $2
		  AND ac.clock_out IS NULL
		ORDER BY ac.clock_in ASC
		LIMIT 1
	`, activityColumns)

	var event attendance.ActivityEvent
	err := scanActivity(q.QueryRow(ctx, query, employeeID, date), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No open punch for that day
		}
		return nil, fmt.Errorf("failed to get open activity: %w", err)
	}

	return &event, nil
}

// Close implements attendance.ActivityRepository.
func (a *activityRepository) Close(ctx context.Context, id string, clockOut time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_activities SET
			clock_out = $1,
			clock_out_date = $2
		WHERE id = $3
		  AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query, clockOut, clockOut.Truncate(24*time.Hour), id)
	if err != nil {
		return fmt.Errorf("failed to close activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// DayBounds implements attendance.ActivityRepository.
func (a *activityRepository) DayBounds(ctx context.Context, employeeID string, date time.Time) (*attendance.DayBounds, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT MIN(clock_in), MAX(clock_out)
		FROM attendance_activities
		WHERE employee_id = $1
		  AND attendance_date = $2
	`

	var earliest *time.Time
	var latest *time.Time
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&earliest, &latest); err != nil {
		return nil, fmt.Errorf("failed to get day bounds: %w", err)
	}
	if earliest == nil {
		return nil, nil // No punches that day
	}

	return &attendance.DayBounds{
		EarliestClockIn: *earliest,
		LatestClockOut:  latest,
	}, nil
}

// ListOpenBefore implements attendance.ActivityRepository.
func (a *activityRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.ActivityEvent, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_activities ac
		WHERE ac.clock_out IS NULL
		  AND ac.attendance_date < $1
		ORDER BY ac.attendance_date ASC, ac.clock_in ASC
	`, activityColumns)

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query open activities: %w", err)
	}
	defer rows.Close()

	var events []attendance.ActivityEvent
	for rows.Next() {
		var event attendance.ActivityEvent
		if err := scanActivity(rows, &event); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

// List implements attendance.ActivityRepository.
func (a *activityRepository) List(ctx context.Context, filter attendance.ActivityFilter) ([]attendance.ActivityEvent, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := make([]interface{}, 0)
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("ac.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("ac.attendance_date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}

	baseWhere := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendance_activities ac WHERE %s`, baseWhere)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_activities ac
		WHERE %s
		ORDER BY ac.attendance_date DESC, ac.clock_in DESC
		LIMIT $%d OFFSET $%d
	`, activityColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var events []attendance.ActivityEvent
	for rows.Next() {
		var event attendance.ActivityEvent
		if err := scanActivity(rows, &event); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		events = append(events, event)
	}

	return events, total, nil
}
