package outbox

import (
	"context"
	"encoding/json"
	"time"

	"agora/internal/shared/events"
)

// Message is the outbox row persisted inside the same unit of work as the
// state change it describes. The worker relay reads pending rows and publishes
// them to the message bus.
type Message struct {
	ID         string
	EventType  string
	Topic      string
	Payload    []byte
	Status     string // pending, published, failed
	RetryCount int
	CreatedAt  time.Time
}

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// FromEnvelope serializes a canonical envelope into a pending outbox message.
func FromEnvelope(topic string, envelope events.Envelope) (Message, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:        envelope.EventID,
		EventType: envelope.EventType,
		Topic:     topic,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: envelope.OccurredAtUTC,
	}, nil
}

// Store is the relay-facing surface of a per-service outbox table. Appending
// happens inside the owning service's repository transaction, not here.
type Store interface {
	ListPending(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}
