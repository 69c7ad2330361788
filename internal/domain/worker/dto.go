package worker

import (
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/validator"
)

type CreateWorkerRequest struct {
	Name         string  `json:"name"`
	EmployeeCode *string `json:"employee_code,omitempty"`
}

func (r *CreateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
	}
	if r.EmployeeCode != nil && len(*r.EmployeeCode) > 20 {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must be at most 20 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetActiveRequest struct {
	ID       string `json:"-"`
	IsActive bool   `json:"is_active"`
}

type WorkerFilter struct {
	ActiveOnly bool
}

type WorkerResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	IsActive     bool    `json:"is_active"`
}
