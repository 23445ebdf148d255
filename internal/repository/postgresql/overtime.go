package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `
	o.id, o.employee_id, o.month, o.month_sequence, o.year,
	o.hour_account, o.overtime, o.hour_account_seconds, o.overtime_seconds,
	o.created_at, o.updated_at`

type overtimeLedgerRepository struct {
	db *database.DB
}

func NewOvertimeLedgerRepository(db *database.DB) attendance.OvertimeLedgerRepository {
	return &overtimeLedgerRepository{db: db}
}

func scanLedger(row pgx.Row, ledger *attendance.OvertimeLedger) error {
	return row.Scan(
		&ledger.ID, &ledger.EmployeeID, &ledger.Month, &ledger.MonthSequence, &ledger.Year,
		&ledger.HourAccount, &ledger.Overtime, &ledger.HourAccountSeconds, &ledger.OvertimeSeconds,
		&ledger.CreatedAt, &ledger.UpdatedAt,
	)
}

// Create implements attendance.OvertimeLedgerRepository.
func (o *overtimeLedgerRepository) Create(ctx context.Context, ledger attendance.OvertimeLedger) (attendance.OvertimeLedger, error) {
	q := GetQuerier(ctx, o.db)

	if ledger.ID == "" {
		ledger.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_overtime (
			id, employee_id, month, month_sequence, year,
			hour_account, overtime, hour_account_seconds, overtime_seconds
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ledger.ID,
		ledger.EmployeeID,
		ledger.Month,
		ledger.MonthSequence,
		ledger.Year,
		ledger.HourAccount,
		ledger.Overtime,
		ledger.HourAccountSeconds,
		ledger.OvertimeSeconds,
	).Scan(&ledger.CreatedAt, &ledger.UpdatedAt)

	if err != nil {
		return attendance.OvertimeLedger{}, fmt.Errorf("failed to create overtime ledger: %w", err)
	}

	return ledger, nil
}

// Get implements attendance.OvertimeLedgerRepository.
func (o *overtimeLedgerRepository) Get(ctx context.Context, employeeID, month string, year int) (*attendance.OvertimeLedger, error) {
	return o.get(ctx, employeeID, month, year, false)
}

// GetForUpdate implements attendance.OvertimeLedgerRepository.
func (o *overtimeLedgerRepository) GetForUpdate(ctx context.Context, employeeID, month string, year int) (*attendance.OvertimeLedger, error) {
	return o.get(ctx, employeeID, month, year, true)
}

func (o *overtimeLedgerRepository) get(ctx context.Context, employeeID, month string, year int, forUpdate bool) (*attendance.OvertimeLedger, error) {
	q := GetQuerier(ctx, o.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_overtime o
		WHERE o.employee_id = $1
		  AND o.month = $2
		  AND o.year = $3
		LIMIT 1
	`, ledgerColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var ledger attendance.OvertimeLedger
	err := scanLedger(q.QueryRow(ctx, query, employeeID, month, year), &ledger)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No ledger row for that month yet
		}
		return nil, fmt.Errorf("failed to get overtime ledger: %w", err)
	}

	return &ledger, nil
}

// Update implements attendance.OvertimeLedgerRepository.
func (o *overtimeLedgerRepository) Update(ctx context.Context, ledger attendance.OvertimeLedger) error {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE attendance_overtime SET
			hour_account = $1,
			overtime = $2,
			hour_account_seconds = $3,
			overtime_seconds = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query,
		ledger.HourAccount,
		ledger.Overtime,
		ledger.HourAccountSeconds,
		ledger.OvertimeSeconds,
		ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime ledger: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrLedgerNotFound
	}

	return nil
}

// List implements attendance.OvertimeLedgerRepository.
func (o *overtimeLedgerRepository) List(ctx context.Context, filter attendance.LedgerFilter) ([]attendance.OvertimeLedger, int64, error) {
	q := GetQuerier(ctx, o.db)

	conditions := []string{"1=1"}
	args := make([]interface{}, 0)
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("o.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("o.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	baseWhere := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendance_overtime o WHERE %s`, baseWhere)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime ledgers: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			   TRIM(e.first_name || ' ' || COALESCE(e.last_name, '')) AS employee_name
		FROM attendance_overtime o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE %s
		ORDER BY o.year DESC, o.month_sequence DESC, o.employee_id
		LIMIT $%d OFFSET $%d
	`, ledgerColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query overtime ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []attendance.OvertimeLedger
	for rows.Next() {
		var ledger attendance.OvertimeLedger
		err := rows.Scan(
			&ledger.ID, &ledger.EmployeeID, &ledger.Month, &ledger.MonthSequence, &ledger.Year,
			&ledger.HourAccount, &ledger.Overtime, &ledger.HourAccountSeconds, &ledger.OvertimeSeconds,
			&ledger.CreatedAt, &ledger.UpdatedAt,
			&ledger.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime ledger: %w", err)
		}
		ledgers = append(ledgers, ledger)
	}

	return ledgers, total, nil
}
