package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "personnel/pkg/domain-errors"
)

func TestNewEmployee(t *testing.T) {
	now := time.Now()

	t.Run("valid employee", func(t *testing.T) {
		e, err := NewEmployee(uuid.New(), "EMP-0001", map[string]string{"name": "홍길동"}, now)
		require.NoError(t, err)
		assert.Equal(t, EmployeeStatusActive, e.Status)
		assert.Equal(t, now, e.CreatedAt)
		assert.True(t, e.IsActive())
	})

	t.Run("empty employee number rejected", func(t *testing.T) {
		_, err := NewEmployee(uuid.New(), "", nil, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("overlong employee number rejected", func(t *testing.T) {
		_, err := NewEmployee(uuid.New(), "EMP-000000000000000001", nil, now)
		require.Error(t, err)
	})
}

func TestEmployeeStatusTransitions(t *testing.T) {
	now := time.Now()
	e, err := NewEmployee(uuid.New(), "EMP-0001", nil, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	require.NoError(t, e.Retire(later))
	assert.Equal(t, EmployeeStatusRetired, e.Status)
	assert.Equal(t, later, e.UpdatedAt)

	assert.Error(t, e.Retire(later), "double retire rejected")

	require.NoError(t, e.Reinstate(later))
	assert.True(t, e.IsActive())
	assert.Error(t, e.Reinstate(later), "double reinstate rejected")
}

func TestApplySection(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "EMP-0002", nil, time.Now())
	require.NoError(t, err)

	e.Sections = nil // simulate a record loaded from an older row
	e.ApplySection("contract", map[string]any{"contract_type": "정규직"}, time.Now())
	assert.Equal(t, "정규직", e.Sections["contract"]["contract_type"])
}
