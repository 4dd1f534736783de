package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/pkg/platform/sentinel"
)

func TestChannelPublisherFeedsWorker(t *testing.T) {
	inbox := make(chan Event, 8)
	store := NewInMemoryStore()
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub := NewChannelPublisher(inbox)
	require.NoError(t, pub.Emit(ctx, Event{
		Action:     ActionEmployeeCreated,
		EmployeeID: "emp-1",
	}))

	require.Eventually(t, func() bool {
		events, err := store.ListByEmployee(context.Background(), "emp-1")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type failingSink struct{}

func (failingSink) Emit(context.Context, Event) error { return sentinel.ErrUnavailable }

func TestGuardedSuppressesRepeatedFailures(t *testing.T) {
	guard := NewGuarded(failingSink{}, "test-sink", nil)
	event := Event{Action: ActionEmployeeCreated, EmployeeID: "emp-3"}

	// Failures below the threshold still surface.
	require.ErrorIs(t, guard.Emit(context.Background(), event), sentinel.ErrUnavailable)
	require.ErrorIs(t, guard.Emit(context.Background(), event), sentinel.ErrUnavailable)

	// The third failure opens the circuit; from then on errors are swallowed.
	assert.NoError(t, guard.Emit(context.Background(), event))
	assert.NoError(t, guard.Emit(context.Background(), event))
}

func TestFanoutReachesAllSinks(t *testing.T) {
	store := NewInMemoryStore()
	fanout := Fanout{failingSink{}, NewPublisher(store)}

	err := fanout.Emit(context.Background(), Event{
		Action:     ActionSectionUpdated,
		EmployeeID: "emp-2",
	})
	require.ErrorIs(t, err, sentinel.ErrUnavailable)

	// The failing sink must not stop later sinks.
	events, err := store.ListByEmployee(context.Background(), "emp-2")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
