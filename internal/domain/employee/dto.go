package employee

import (
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	BadgeID       *string `json:"badge_id,omitempty"`
	FirstName     string  `json:"first_name"`
	LastName      *string `json:"last_name,omitempty"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	BiometricName *string `json:"biometric_name,omitempty"`
	ShiftID       *string `json:"shift_id,omitempty"`
	WorkTypeID    *string `json:"work_type_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.BiometricName != nil && validator.IsEmpty(*r.BiometricName) {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric_name",
			Message: "biometric_name must not be blank when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	BadgeID       *string `json:"badge_id,omitempty"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	BiometricName *string `json:"biometric_name,omitempty"`
	ShiftID       *string `json:"shift_id,omitempty"`
	WorkTypeID    *string `json:"work_type_id,omitempty"`
	IsActive      bool    `json:"is_active"`
}
