package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
)

type lateComeEarlyOutRepository struct {
	db *database.DB
}

func NewLateComeEarlyOutRepository(db *database.DB) attendance.LateComeEarlyOutRepository {
	return &lateComeEarlyOutRepository{db: db}
}

// Upsert implements attendance.LateComeEarlyOutRepository.
func (l *lateComeEarlyOutRepository) Upsert(ctx context.Context, flag attendance.LateComeEarlyOut) error {
	q := GetQuerier(ctx, l.db)

	if flag.ID == "" {
		flag.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_late_come_early_out (id, attendance_id, employee_id, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (attendance_id, type) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, flag.ID, flag.AttendanceID, flag.EmployeeID, flag.Type); err != nil {
		return fmt.Errorf("failed to upsert late come early out: %w", err)
	}

	return nil
}

// ListByAttendance implements attendance.LateComeEarlyOutRepository.
func (l *lateComeEarlyOutRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.LateComeEarlyOut, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, attendance_id, employee_id, type, created_at
		FROM attendance_late_come_early_out
		WHERE attendance_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query late come early outs: %w", err)
	}
	defer rows.Close()

	var flags []attendance.LateComeEarlyOut
	for rows.Next() {
		var flag attendance.LateComeEarlyOut
		err := rows.Scan(&flag.ID, &flag.AttendanceID, &flag.EmployeeID, &flag.Type, &flag.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan late come early out: %w", err)
		}
		flags = append(flags, flag)
	}

	return flags, nil
}
