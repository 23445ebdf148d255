package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByBiometricName matches a device display name against the
	// configured biometric name. Matching is exact; a miss returns
	// (nil, nil) so ingestion can count the record as skipped.
	GetByBiometricName(ctx context.Context, name string) (*Employee, error)

	List(ctx context.Context, activeOnly bool) ([]Employee, error)
}

// ShiftRepository resolves shift references for attendance defaults.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)

	// GetDefault returns the shift used when ingestion creates a record
	// for an employee with no shift assignment, or nil when none exists.
	GetDefault(ctx context.Context) (*Shift, error)
}
