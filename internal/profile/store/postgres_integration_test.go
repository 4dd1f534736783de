//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"personnel/internal/profile/models"
	"personnel/internal/profile/store"
	"personnel/pkg/platform/sentinel"
	"personnel/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "employees"))
}

func newTestEmployee(number string) *models.Employee {
	e, _ := models.NewEmployee(uuid.New(), number, map[string]string{
		"name":            "홍길동",
		"resident_number": "9001011234568",
	}, time.Now().UTC().Truncate(time.Microsecond))
	return e
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	e := newTestEmployee("EMP-0001")
	e.ApplySection("contract", map[string]any{"contract_type": "정규직", "base_salary": "3200000"}, e.UpdatedAt)

	s.Require().NoError(s.store.Create(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(e.EmployeeNumber, found.EmployeeNumber)
	s.Equal(e.BasicInfo["name"], found.BasicInfo["name"])
	s.Equal("정규직", found.Sections["contract"]["contract_type"])

	byNumber, err := s.store.FindByNumber(ctx, "emp-0001")
	s.Require().NoError(err)
	s.Equal(e.ID, byNumber.ID)
}

func (s *PostgresStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	ghost := newTestEmployee("EMP-9999")
	s.ErrorIs(s.store.Update(context.Background(), ghost), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	e := newTestEmployee("EMP-0002")
	s.Require().NoError(s.store.Create(ctx, e))

	s.Require().NoError(e.Retire(time.Now().UTC()))
	s.Require().NoError(s.store.Update(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(models.EmployeeStatusRetired, found.Status)
}

// TestConcurrentUniqueNumberViolation verifies that concurrent creation
// attempts with the same employee number result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueNumberViolation() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newTestEmployee("EMP-RACE"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")
}
