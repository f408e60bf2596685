package events

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event shape shared by every Agora context.
// Producers append envelopes to their outbox; the worker relay publishes them.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	CorrelationID  string    `json:"correlation_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}

// Event types emitted by the community-content and moderation-safety contexts.
const (
	TypeContentLiked    = "content.liked"
	TypeContentUnliked  = "content.unliked"
	TypeReportSubmitted = "report.submitted"
	TypeReportApproved  = "report.approved"
	TypeReportRejected  = "report.rejected"
)

func NewEnvelope(eventType string, sourceService string, entityType string, entityID string, payload any) Envelope {
	return Envelope{
		EventID:        uuid.NewString(),
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  time.Now().UTC(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}
