package models

import "strings"

// CreateEmployeeRequest is the payload for registering a new employee.
type CreateEmployeeRequest struct {
	EmployeeNumber string            `json:"employee_number"`
	BasicInfo      map[string]string `json:"basic_info"`
}

// Normalize trims surrounding whitespace from the employee number and all
// submitted basic-info values.
func (r *CreateEmployeeRequest) Normalize() {
	r.EmployeeNumber = strings.TrimSpace(r.EmployeeNumber)
	for field, value := range r.BasicInfo {
		r.BasicInfo[field] = strings.TrimSpace(value)
	}
}
