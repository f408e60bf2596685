package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/notification-service/domain/entities"
	domainerrors "agora/contexts/community-content/notification-service/domain/errors"
	"agora/contexts/community-content/notification-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// NotifyLike records a LIKE notification for the content owner. The dedup key
// is (recipient, content, type): a second like on the same content by any
// actor leaves the existing row untouched. Self-suppression is the caller's
// responsibility; this service trusts the recipient argument.
func (s Service) NotifyLike(ctx context.Context, recipientID string, contentID string, actorUsername string) error {
	recipientID = strings.TrimSpace(recipientID)
	contentID = strings.TrimSpace(contentID)
	if recipientID == "" || contentID == "" {
		return domainerrors.ErrInvalidRequest
	}
	notification, err := s.build(ctx, recipientID, entities.TypeLike, contentID, "", actorUsername,
		fmt.Sprintf("%s liked your content", displayName(actorUsername)))
	if err != nil {
		return err
	}
	inserted, err := s.Repo.InsertDeduped(ctx, notification)
	if err != nil {
		return err
	}
	if !inserted {
		resolveLogger(s.Logger).Debug("like notification suppressed by dedup",
			"event", "notification_like_deduped",
			"module", "community-content/notification-service",
			"layer", "application",
			"recipient_id", recipientID,
			"content_id", contentID,
		)
	}
	return nil
}

// NotifyComment records a COMMENT notification for the post owner. Each
// distinct comment produces its own row.
func (s Service) NotifyComment(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return s.notifyThreaded(ctx, entities.TypeComment, recipientID, contentID, commentID, actorUsername,
		fmt.Sprintf("%s commented on your post", displayName(actorUsername)))
}

// NotifyReply records a REPLY notification for the parent comment owner.
func (s Service) NotifyReply(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return s.notifyThreaded(ctx, entities.TypeReply, recipientID, contentID, commentID, actorUsername,
		fmt.Sprintf("%s replied to your comment", displayName(actorUsername)))
}

func (s Service) notifyThreaded(
	ctx context.Context,
	notificationType entities.NotificationType,
	recipientID string,
	contentID string,
	commentID string,
	actorUsername string,
	message string,
) error {
	recipientID = strings.TrimSpace(recipientID)
	contentID = strings.TrimSpace(contentID)
	commentID = strings.TrimSpace(commentID)
	if recipientID == "" || contentID == "" || commentID == "" {
		return domainerrors.ErrInvalidRequest
	}
	notification, err := s.build(ctx, recipientID, notificationType, contentID, commentID, actorUsername, message)
	if err != nil {
		return err
	}
	return s.Repo.Insert(ctx, notification)
}

func (s Service) List(ctx context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	filter.RecipientID = strings.TrimSpace(filter.RecipientID)
	if filter.RecipientID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.List(ctx, filter)
}

// MarkRead flips the read flag on a single notification owned by recipientID.
func (s Service) MarkRead(ctx context.Context, recipientID string, notificationID string) error {
	recipientID = strings.TrimSpace(recipientID)
	notificationID = strings.TrimSpace(notificationID)
	if recipientID == "" || notificationID == "" {
		return domainerrors.ErrInvalidRequest
	}
	notification, err := s.Repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(notification.RecipientID, recipientID) {
		return domainerrors.ErrForbidden
	}
	if notification.IsRead {
		return nil
	}
	return s.Repo.MarkRead(ctx, notificationID, s.now())
}

func (s Service) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	return s.Repo.MarkAllRead(ctx, recipientID, s.now())
}

func (s Service) build(
	ctx context.Context,
	recipientID string,
	notificationType entities.NotificationType,
	contentID string,
	commentID string,
	actorUsername string,
	message string,
) (entities.Notification, error) {
	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}
	return entities.Notification{
		NotificationID: id,
		RecipientID:    recipientID,
		Type:           notificationType,
		ContentID:      contentID,
		CommentID:      commentID,
		ActorUsername:  strings.TrimSpace(actorUsername),
		Message:        message,
		CreatedAt:      s.now(),
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func displayName(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Someone"
	}
	return username
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
