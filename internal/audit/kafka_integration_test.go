//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"personnel/internal/audit"
	"personnel/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)

	const topic = "personnel.audit.test"

	pub, err := audit.NewKafkaPublisher([]string{redpanda.Broker}, topic)
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = pub.Emit(ctx, audit.Event{
		Action:        audit.ActionEmployeeCreated,
		ActorID:       "hr-admin",
		EmployeeID:    "emp-9001",
		Outcome:       "success",
		RequestID:     "req-123",
		SubjectIDHash: "abc123",
	})
	require.NoError(t, err)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "emp-9001", string(records[0].Key))

	var payload struct {
		Category      string `json:"category"`
		Action        string `json:"action"`
		ActorID       string `json:"actor_id"`
		EmployeeID    string `json:"employee_id"`
		Outcome       string `json:"outcome"`
		RequestID     string `json:"request_id"`
		SubjectIDHash string `json:"subject_id_hash"`
		Timestamp     string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))

	assert.Equal(t, string(audit.CategoryCompliance), payload.Category)
	assert.Equal(t, audit.ActionEmployeeCreated, payload.Action)
	assert.Equal(t, "hr-admin", payload.ActorID)
	assert.Equal(t, "emp-9001", payload.EmployeeID)
	assert.Equal(t, "success", payload.Outcome)
	assert.Equal(t, "req-123", payload.RequestID)
	assert.Equal(t, "abc123", payload.SubjectIDHash)
	assert.NotEmpty(t, payload.Timestamp)
}
