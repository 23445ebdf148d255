package employee

import (
	"context"
	"errors"

	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	shiftRepo    employee.ShiftRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	shiftRepo employee.ShiftRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req *employee.CreateEmployeeRequest) (*employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ShiftID != nil && *req.ShiftID != "" {
		if _, err := e.shiftRepo.GetByID(ctx, *req.ShiftID); err != nil {
			if errors.Is(err, employee.ErrShiftNotFound) {
				return nil, employee.ErrShiftNotFound
			}
			return nil, err
		}
	}

	created, err := e.employeeRepo.Create(ctx, employee.Employee{
		BadgeID:       req.BadgeID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		BiometricName: req.BiometricName,
		ShiftID:       req.ShiftID,
		WorkTypeID:    req.WorkTypeID,
		IsActive:      true,
	})
	if err != nil {
		return nil, err
	}

	return toEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (*employee.EmployeeResponse, error) {
	emp, err := e.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (e *EmployeeServiceImpl) ListEmployees(ctx context.Context, activeOnly bool) ([]employee.EmployeeResponse, error) {
	employees, err := e.employeeRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, *toEmployeeResponse(emp))
	}

	return responses, nil
}

func toEmployeeResponse(emp employee.Employee) *employee.EmployeeResponse {
	return &employee.EmployeeResponse{
		ID:            emp.ID,
		BadgeID:       emp.BadgeID,
		FullName:      emp.FullName(),
		Email:         emp.Email,
		Phone:         emp.Phone,
		BiometricName: emp.BiometricName,
		ShiftID:       emp.ShiftID,
		WorkTypeID:    emp.WorkTypeID,
		IsActive:      emp.IsActive,
	}
}
