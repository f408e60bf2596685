package outbox

import (
	"context"
	"errors"
	"testing"

	"agora/internal/shared/events"
)

type capturingPublisher struct {
	topics []string
	types  []string
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.types = append(p.types, event.EventType)
	return nil
}

func appendEnvelope(t *testing.T, store *MemoryStore, eventType string) Message {
	t.Helper()
	message, err := FromEnvelope("community-content.interactions",
		events.NewEnvelope(eventType, "community-content/interaction-service", "content", "post-1", map[string]string{"content_id": "post-1"}))
	if err != nil {
		t.Fatalf("build message failed: %v", err)
	}
	if err := store.Append(context.Background(), message); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	return message
}

func TestRelayPublishesPendingMessages(t *testing.T) {
	store := NewMemoryStore()
	appendEnvelope(t, store, events.TypeContentLiked)
	appendEnvelope(t, store, events.TypeContentUnliked)
	publisher := &capturingPublisher{}

	published, err := Relay{Store: store, Publisher: publisher}.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if published != 2 {
		t.Fatalf("expected 2 published messages, got %d", published)
	}
	if len(publisher.types) != 2 {
		t.Fatalf("expected publisher to see 2 envelopes, got %d", len(publisher.types))
	}

	pending, err := store.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d pending", len(pending))
	}
}

func TestRelayMarksFailedOnPublishError(t *testing.T) {
	store := NewMemoryStore()
	message := appendEnvelope(t, store, events.TypeContentLiked)

	published, err := Relay{Store: store, Publisher: &capturingPublisher{fail: true}}.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected no published messages, got %d", published)
	}

	all := store.All()
	if len(all) != 1 || all[0].ID != message.ID {
		t.Fatalf("expected the message to remain, got %+v", all)
	}
	if all[0].Status != StatusFailed || all[0].RetryCount != 1 {
		t.Fatalf("expected failed status with retry count 1, got %+v", all[0])
	}
}

func TestRelayParksUndecodableRows(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Append(context.Background(), Message{
		ID:        "bad-row",
		EventType: events.TypeContentLiked,
		Topic:     "community-content.interactions",
		Payload:   []byte("not json"),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	publisher := &capturingPublisher{}
	if _, err := (Relay{Store: store, Publisher: publisher}).RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.types) != 0 {
		t.Fatalf("expected nothing published for undecodable row")
	}
	all := store.All()
	if len(all) != 1 || all[0].Status != StatusFailed {
		t.Fatalf("expected undecodable row parked as failed, got %+v", all)
	}
}
