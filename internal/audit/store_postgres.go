package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events
			(id, category, ts, actor_id, employee_id, action, section, outcome, reason, request_id, device_info, subject_id_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.ActorID,
		event.EmployeeID,
		event.Action,
		event.Section,
		event.Outcome,
		event.Reason,
		event.RequestID,
		event.DeviceInfo,
		event.SubjectIDHash,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, employeeID string) ([]Event, error) {
	query := `
		SELECT category, ts, actor_id, employee_id, action, section, outcome, reason, request_id, device_info, subject_id_hash
		FROM audit_events
		WHERE employee_id = $1
		ORDER BY ts
	`
	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var category string
		if err := rows.Scan(&category, &e.Timestamp, &e.ActorID, &e.EmployeeID, &e.Action,
			&e.Section, &e.Outcome, &e.Reason, &e.RequestID, &e.DeviceInfo, &e.SubjectIDHash); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
