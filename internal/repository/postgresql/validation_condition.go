package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type validationConditionRepository struct {
	db *database.DB
}

func NewValidationConditionRepository(db *database.DB) attendance.ValidationConditionRepository {
	return &validationConditionRepository{db: db}
}

// Current implements attendance.ValidationConditionRepository.
func (v *validationConditionRepository) Current(ctx context.Context) (*attendance.ValidationCondition, error) {
	q := GetQuerier(ctx, v.db)

	query := `
		SELECT id, validation_at_work, minimum_overtime_to_approve, overtime_cutoff,
		       created_at, updated_at
		FROM attendance_validation_conditions
		ORDER BY created_at ASC
		LIMIT 1
	`

	var cond attendance.ValidationCondition
	err := q.QueryRow(ctx, query).Scan(
		&cond.ID, &cond.ValidationAtWork, &cond.MinimumOvertimeToApprove, &cond.OvertimeCutoff,
		&cond.CreatedAt, &cond.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Not configured yet
		}
		return nil, fmt.Errorf("failed to get validation condition: %w", err)
	}

	return &cond, nil
}

// Create implements attendance.ValidationConditionRepository.
func (v *validationConditionRepository) Create(ctx context.Context, cond attendance.ValidationCondition) (attendance.ValidationCondition, error) {
	q := GetQuerier(ctx, v.db)

	// Under read committed two racing creates would both count zero rows,
	// so the table is locked for the duration of the transaction. Create
	// must run inside one.
	if _, err := q.Exec(ctx, `LOCK TABLE attendance_validation_conditions IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return attendance.ValidationCondition{}, fmt.Errorf("failed to lock validation conditions: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_validation_conditions`).Scan(&count); err != nil {
		return attendance.ValidationCondition{}, fmt.Errorf("failed to count validation conditions: %w", err)
	}
	if count > 0 {
		return attendance.ValidationCondition{}, attendance.ErrConditionExists
	}

	if cond.ID == "" {
		cond.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_validation_conditions (
			id, validation_at_work, minimum_overtime_to_approve, overtime_cutoff
		) VALUES (
			$1, $2, $3, $4
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cond.ID,
		cond.ValidationAtWork,
		cond.MinimumOvertimeToApprove,
		cond.OvertimeCutoff,
	).Scan(&cond.CreatedAt, &cond.UpdatedAt)

	if err != nil {
		return attendance.ValidationCondition{}, fmt.Errorf("failed to create validation condition: %w", err)
	}

	return cond, nil
}
