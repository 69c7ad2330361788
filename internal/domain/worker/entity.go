package worker

import "time"

// Worker is a tea plucker on an estate's payroll.
type Worker struct {
	ID             string
	OrganizationID string
	Name           string
	EmployeeCode   *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
