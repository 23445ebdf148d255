package employee

import "context"

// EmployeeService manages the employee directory consulted by attendance
// ingestion and reporting.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error)
}
