package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const employeeColumns = `
	e.id, e.badge_id, e.first_name, e.last_name, e.email, e.phone,
	e.biometric_name, e.shift_id, e.work_type_id, e.is_active,
	e.created_at, e.updated_at`

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row pgx.Row, emp *employee.Employee) error {
	return row.Scan(
		&emp.ID, &emp.BadgeID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.BiometricName, &emp.ShiftID, &emp.WorkTypeID, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employees (
			id, badge_id, first_name, last_name, email, phone,
			biometric_name, shift_id, work_type_id, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID,
		emp.BadgeID,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.BiometricName,
		emp.ShiftID,
		emp.WorkTypeID,
		emp.IsActive,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "employees_email_key":
				return employee.Employee{}, employee.ErrEmailExists
			case "employees_badge_id_key":
				return employee.Employee{}, employee.ErrBadgeIDExists
			}
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE e.id = $1`, employeeColumns)

	var emp employee.Employee
	err := scanEmployee(q.QueryRow(ctx, query, id), &emp)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// GetByBiometricName implements employee.EmployeeRepository.
func (e *employeeRepository) GetByBiometricName(ctx context.Context, name string) (*employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE e.biometric_name = $1
		  AND e.is_active = true
		LIMIT 1
	`, employeeColumns)

	var emp employee.Employee
	err := scanEmployee(q.QueryRow(ctx, query, name), &emp)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No employee registered under that device name
		}
		return nil, fmt.Errorf("failed to get employee by biometric name: %w", err)
	}

	return &emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepository) List(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`SELECT %s FROM employees e`, employeeColumns)
	if activeOnly {
		query += " WHERE e.is_active = true"
	}
	query += " ORDER BY e.first_name ASC, e.last_name ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) employee.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.name, s.minimum_working_hour, s.weekly_full_time, s.start_time, s.end_time`

// GetByID implements employee.ShiftRepository.
func (s *shiftRepository) GetByID(ctx context.Context, id string) (employee.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM shifts s WHERE s.id = $1`, shiftColumns)

	var shift employee.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&shift.ID, &shift.Name, &shift.MinimumWorkingHour, &shift.WeeklyFullTime,
		&shift.StartTime, &shift.EndTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Shift{}, employee.ErrShiftNotFound
		}
		return employee.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return shift, nil
}

// GetDefault implements employee.ShiftRepository.
func (s *shiftRepository) GetDefault(ctx context.Context) (*employee.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shifts s
		ORDER BY s.created_at ASC
		LIMIT 1
	`, shiftColumns)

	var shift employee.Shift
	err := q.QueryRow(ctx, query).Scan(
		&shift.ID, &shift.Name, &shift.MinimumWorkingHour, &shift.WeeklyFullTime,
		&shift.StartTime, &shift.EndTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No shifts configured
		}
		return nil, fmt.Errorf("failed to get default shift: %w", err)
	}

	return &shift, nil
}
