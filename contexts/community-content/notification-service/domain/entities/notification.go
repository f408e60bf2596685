package entities

import "time"

type NotificationType string

const (
	TypeLike    NotificationType = "LIKE"
	TypeComment NotificationType = "COMMENT"
	TypeReply   NotificationType = "REPLY"
	TypeMention NotificationType = "MENTION"
	TypeSystem  NotificationType = "SYSTEM"
)

type Notification struct {
	NotificationID string
	RecipientID    string
	Type           NotificationType
	ContentID      string
	CommentID      string
	ActorUsername  string
	Message        string
	IsRead         bool
	CreatedAt      time.Time
	ReadAt         *time.Time
}

// DedupKeyed reports whether this notification type collapses repeated events
// on the same content into a single row.
func (n Notification) DedupKeyed() bool {
	return n.Type == TypeLike
}
