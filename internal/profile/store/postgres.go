package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"personnel/internal/profile/models"
	"personnel/pkg/platform/sentinel"
)

// Postgres persists employees in PostgreSQL. Basic info and section data are
// stored as JSONB columns; the schema lives in migrations/.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed employee store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create atomically inserts the employee; a unique-violation on the employee
// number surfaces as sentinel.ErrAlreadyUsed.
func (s *Postgres) Create(ctx context.Context, e *models.Employee) error {
	if e == nil {
		return fmt.Errorf("employee is required")
	}
	basicInfo, sections, err := marshalFields(e)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO employees (id, employee_number, status, basic_info, sections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		e.ID,
		e.EmployeeNumber,
		string(e.Status),
		basicInfo,
		sections,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("employee number must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// FindByID retrieves an employee by UUID.
func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	query := `
		SELECT id, employee_number, status, basic_info, sections, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee by id: %w", err)
	}
	return e, nil
}

// FindByNumber retrieves an employee by employee number (case-insensitive).
func (s *Postgres) FindByNumber(ctx context.Context, number string) (*models.Employee, error) {
	query := `
		SELECT id, employee_number, status, basic_info, sections, created_at, updated_at
		FROM employees
		WHERE lower(employee_number) = lower($1)
	`
	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee by number: %w", err)
	}
	return e, nil
}

// Update replaces an existing employee row.
func (s *Postgres) Update(ctx context.Context, e *models.Employee) error {
	if e == nil {
		return fmt.Errorf("employee is required")
	}
	basicInfo, sections, err := marshalFields(e)
	if err != nil {
		return err
	}
	query := `
		UPDATE employees
		SET status = $2, basic_info = $3, sections = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		e.ID,
		string(e.Status),
		basicInfo,
		sections,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update employee rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Count returns the total number of employees.
func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}

func marshalFields(e *models.Employee) ([]byte, []byte, error) {
	basicInfo, err := json.Marshal(e.BasicInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal basic info: %w", err)
	}
	sections, err := json.Marshal(e.Sections)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal sections: %w", err)
	}
	return basicInfo, sections, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var (
		e         models.Employee
		status    string
		basicInfo []byte
		sections  []byte
	)
	if err := row.Scan(&e.ID, &e.EmployeeNumber, &status, &basicInfo, &sections, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = models.EmployeeStatus(status)
	if err := json.Unmarshal(basicInfo, &e.BasicInfo); err != nil {
		return nil, fmt.Errorf("unmarshal basic info: %w", err)
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &e.Sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	return &e, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
