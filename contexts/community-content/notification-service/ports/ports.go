package ports

import (
	"context"
	"time"

	"agora/contexts/community-content/notification-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ListFilter struct {
	RecipientID string
	UnreadOnly  bool
	Limit       int
	Offset      int
}

type Repository interface {
	// InsertDeduped inserts the notification unless a row with the same
	// (recipient, content, type) already exists. Returns false when the
	// existing row was left as-is.
	InsertDeduped(ctx context.Context, notification entities.Notification) (bool, error)
	Insert(ctx context.Context, notification entities.Notification) error
	Get(ctx context.Context, notificationID string) (entities.Notification, error)
	List(ctx context.Context, filter ListFilter) ([]entities.Notification, error)
	MarkRead(ctx context.Context, notificationID string, readAt time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int, error)
	// PurgeRead deletes read notifications created before the cutoff and
	// returns how many rows were removed.
	PurgeRead(ctx context.Context, cutoff time.Time) (int, error)
}
