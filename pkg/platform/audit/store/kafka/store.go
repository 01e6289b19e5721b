// Package kafka streams audit events to a Kafka topic as JSON records keyed
// by payment session, so every event of one order lands on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "swissshield/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client the store uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Payload is the record value.
type Payload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	Action      string `json:"action"`
	SessionID   string `json:"session_id,omitempty"`
	Canton      string `json:"canton,omitempty"`
	Confession  string `json:"confession,omitempty"`
	MatchKind   string `json:"match_kind,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
	EmailHash   string `json:"email_hash,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	DeviceClass string `json:"device_class,omitempty"`
}

// Store implements audit.Store on a Kafka topic. It is write-only.
type Store struct {
	producer Producer
	topic    string
}

func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// Append produces the event and waits for the broker ack.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()
	payload := Payload{
		ID:          uuid.NewString(),
		Category:    string(category),
		Timestamp:   event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:      event.Action,
		SessionID:   event.SessionID,
		Canton:      event.Canton,
		Confession:  event.Confession,
		MatchKind:   event.MatchKind,
		RecipientID: event.RecipientID,
		Reason:      event.Reason,
		EmailHash:   event.EmailHash,
		RequestID:   event.RequestID,
		DeviceClass: event.DeviceClass,
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic:     s.topic,
		Key:       []byte(event.SessionID),
		Value:     value,
		Timestamp: event.Timestamp,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "category", Value: []byte(category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
