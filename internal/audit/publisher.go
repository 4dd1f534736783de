package audit

import (
	"context"
	"time"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit stamps and persists an event. The category is always derived from the
// action so callers cannot misroute events.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = CategoryFor(event.Action)
	return p.store.Append(ctx, event)
}

// List returns the audit trail for one employee record.
func (p *Publisher) List(ctx context.Context, employeeID string) ([]Event, error) {
	return p.store.ListByEmployee(ctx, employeeID)
}
