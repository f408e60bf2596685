package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"agora/internal/shared/events"
)

// Publisher is the bus-facing side of the relay. Implemented by
// internal/platform/messaging.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Relay drains pending outbox rows to the message bus. One relay instance per
// outbox store; the worker runs them on a poll loop.
type Relay struct {
	Store     Store
	Publisher Publisher
	BatchSize int
	Logger    *slog.Logger
}

func (r Relay) RunOnce(ctx context.Context) (int, error) {
	batch := r.BatchSize
	if batch <= 0 {
		batch = 100
	}
	pending, err := r.Store.ListPending(ctx, batch)
	if err != nil {
		r.logger().Error("outbox relay list failed",
			"event", "outbox_relay_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	published := 0
	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			// A row that cannot deserialize will never succeed; park it.
			r.logger().Error("outbox row is not a valid envelope",
				"event", "outbox_relay_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"message_id", message.ID,
				"error", err.Error(),
			)
			if err := r.Store.MarkFailed(ctx, message.ID); err != nil {
				return published, err
			}
			continue
		}
		if err := r.Publisher.Publish(ctx, message.Topic, envelope); err != nil {
			r.logger().Warn("outbox publish failed, will retry",
				"event", "outbox_relay_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"message_id", message.ID,
				"topic", message.Topic,
				"error", err.Error(),
			)
			if err := r.Store.MarkFailed(ctx, message.ID); err != nil {
				return published, err
			}
			continue
		}
		if err := r.Store.MarkPublished(ctx, message.ID, time.Now().UTC()); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}

func (r Relay) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
