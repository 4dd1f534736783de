// Package store persists employee records. The memory implementation backs
// development and unit tests; the postgres implementation is the production
// store. Both return sentinel errors for infrastructure facts.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"personnel/internal/profile/models"
	"personnel/pkg/platform/sentinel"
)

// InMemory stores employees in memory.
type InMemory struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]*models.Employee
	numberIdx map[string]uuid.UUID
}

// NewInMemory creates an in-memory employee store.
func NewInMemory() *InMemory {
	return &InMemory{
		employees: make(map[uuid.UUID]*models.Employee),
		numberIdx: make(map[string]uuid.UUID),
	}
}

// Create atomically inserts the employee if its number is not already taken
// (case-insensitive).
func (s *InMemory) Create(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lower := strings.ToLower(e.EmployeeNumber)
	if _, exists := s.numberIdx[lower]; exists {
		return fmt.Errorf("employee number must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	s.employees[e.ID] = e
	s.numberIdx[lower] = e.ID
	return nil
}

// FindByID retrieves an employee by UUID.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.employees[id]; ok {
		return e, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByNumber retrieves an employee by employee number (case-insensitive).
func (s *InMemory) FindByNumber(_ context.Context, number string) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.numberIdx[strings.ToLower(number)]; ok {
		return s.employees[id], nil
	}
	return nil, sentinel.ErrNotFound
}

// Update replaces an existing employee record.
func (s *InMemory) Update(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.employees[e.ID] = e
	return nil
}

// Count returns the number of stored employees.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees), nil
}
