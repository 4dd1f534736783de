package audit

import "context"

// Store is the persistence sink for audit events. Implementations must be
// append-only; events are never updated or deleted by this service.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Event, error)
}
