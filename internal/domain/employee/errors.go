package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrBadgeIDExists    = errors.New("badge id already registered")
	ErrShiftNotFound    = errors.New("shift not found")
)
