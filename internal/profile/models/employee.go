package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "personnel/pkg/domain-errors"
)

// EmployeeStatus is the lifecycle state of an employee record.
type EmployeeStatus string

const (
	EmployeeStatusActive  EmployeeStatus = "active"
	EmployeeStatusRetired EmployeeStatus = "retired"
)

// CanTransitionTo reports whether the status may move to target.
// Transitions: active ↔ retired only.
func (s EmployeeStatus) CanTransitionTo(target EmployeeStatus) bool {
	switch s {
	case EmployeeStatusActive:
		return target == EmployeeStatusRetired
	case EmployeeStatusRetired:
		return target == EmployeeStatusActive
	}
	return false
}

// Employee is the aggregate root for a personnel record.
//
// Invariants:
//   - EmployeeNumber is non-empty and unique per store
//   - BasicInfo holds only fields that passed strict basic-info validation
//   - Sections holds per-section field maps that passed section validation
//   - The raw resident registration number is stored in BasicInfo under
//     "resident_number"; it must never appear in logs or audit events
//   - CreatedAt is immutable after construction
type Employee struct {
	ID             uuid.UUID                 `json:"id"`
	EmployeeNumber string                    `json:"employee_number"`
	Status         EmployeeStatus            `json:"status"`
	BasicInfo      map[string]string         `json:"basic_info"`
	Sections       map[string]map[string]any `json:"sections,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// NewEmployee constructs an active employee with validated basic info.
func NewEmployee(id uuid.UUID, employeeNumber string, basicInfo map[string]string, now time.Time) (*Employee, error) {
	if employeeNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employee number cannot be empty")
	}
	if len(employeeNumber) > 20 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employee number must be 20 characters or less")
	}
	if basicInfo == nil {
		basicInfo = make(map[string]string)
	}
	return &Employee{
		ID:             id,
		EmployeeNumber: employeeNumber,
		Status:         EmployeeStatusActive,
		BasicInfo:      basicInfo,
		Sections:       make(map[string]map[string]any),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsActive reports whether the employee is currently employed.
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// ApplyBasicInfo replaces the basic-info fields after validation passed.
func (e *Employee) ApplyBasicInfo(info map[string]string, now time.Time) {
	e.BasicInfo = info
	e.UpdatedAt = now
}

// ApplySection replaces one section's fields after validation passed.
func (e *Employee) ApplySection(section string, fields map[string]any, now time.Time) {
	if e.Sections == nil {
		e.Sections = make(map[string]map[string]any)
	}
	e.Sections[section] = fields
	e.UpdatedAt = now
}

// Retire transitions the employee to retired.
func (e *Employee) Retire(now time.Time) error {
	if !e.Status.CanTransitionTo(EmployeeStatusRetired) {
		return dErrors.New(dErrors.CodeInvariantViolation, "employee is already retired")
	}
	e.Status = EmployeeStatusRetired
	e.UpdatedAt = now
	return nil
}

// Reinstate transitions the employee back to active.
func (e *Employee) Reinstate(now time.Time) error {
	if !e.Status.CanTransitionTo(EmployeeStatusActive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "employee is already active")
	}
	e.Status = EmployeeStatusActive
	e.UpdatedAt = now
	return nil
}
