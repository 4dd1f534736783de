package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher ships audit events to a Kafka topic, keyed by employee ID so
// each record's trail stays ordered within a partition. It satisfies the same
// Emit contract as Publisher and is wired instead of (or alongside) the
// store-backed publisher when brokers are configured.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects a producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// kafkaPayload is the wire shape published to the topic.
type kafkaPayload struct {
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	ActorID       string `json:"actor_id,omitempty"`
	EmployeeID    string `json:"employee_id,omitempty"`
	Action        string `json:"action"`
	Section       string `json:"section,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	DeviceInfo    string `json:"device_info,omitempty"`
	SubjectIDHash string `json:"subject_id_hash,omitempty"`
}

// Emit publishes one event synchronously. Audit delivery is part of the write
// path for compliance events, so failures surface to the caller.
func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = CategoryFor(event.Action)

	payload, err := json.Marshal(kafkaPayload{
		Category:      string(event.Category),
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
		ActorID:       event.ActorID,
		EmployeeID:    event.EmployeeID,
		Action:        event.Action,
		Section:       event.Section,
		Outcome:       event.Outcome,
		Reason:        event.Reason,
		RequestID:     event.RequestID,
		DeviceInfo:    event.DeviceInfo,
		SubjectIDHash: event.SubjectIDHash,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.EmployeeID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
