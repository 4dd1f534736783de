package audit

import (
	"context"
	"errors"
	"time"
)

// Emitter is anything able to record an audit event.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// ChannelPublisher stamps events and hands them to a background Worker via a
// channel, keeping persistence off the request path.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

// Emit queues one event. It blocks until the worker accepts it or the caller
// context is cancelled.
func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = CategoryFor(event.Action)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.inbox <- event:
		return nil
	}
}

// Fanout emits to every sink. All sinks see the event; the joined error
// reports any that failed.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
