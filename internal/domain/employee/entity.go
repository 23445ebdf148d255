package employee

import (
	"time"
)

type Employee struct {
	ID            string
	BadgeID       *string
	FirstName     string
	LastName      *string
	Email         string
	Phone         *string
	BiometricName *string
	ShiftID       *string
	WorkTypeID    *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name, tolerating a missing last name.
func (e Employee) FullName() string {
	if e.LastName == nil {
		return e.FirstName
	}
	return e.FirstName + " " + *e.LastName
}

// Shift is the work shift an employee is assigned to. MinimumWorkingHour is
// the "H:MM" target a day on this shift is expected to cover.
type Shift struct {
	ID                 string
	Name               string
	MinimumWorkingHour string
	WeeklyFullTime     string
	StartTime          *string
	EndTime            *string
}

// WorkType is a label for how the employee works (office, remote, ...).
type WorkType struct {
	ID   string
	Name string
}
