package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/community-content/notification-service/domain/entities"
	domainerrors "agora/contexts/community-content/notification-service/domain/errors"
	"agora/contexts/community-content/notification-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
	dedup         map[string]string
}

func NewStore() *Store {
	return &Store{
		notifications: map[string]entities.Notification{},
		dedup:         map[string]string{},
	}
}

func (s *Store) InsertDeduped(ctx context.Context, notification entities.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dedupKey(notification.RecipientID, notification.ContentID, notification.Type)
	if _, ok := s.dedup[key]; ok {
		return false, nil
	}
	s.notifications[notification.NotificationID] = notification
	s.dedup[key] = notification.NotificationID
	return true, nil
}

func (s *Store) Insert(ctx context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) Get(ctx context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) List(ctx context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Notification, 0, len(s.notifications))
	for _, notification := range s.notifications {
		if !strings.EqualFold(notification.RecipientID, filter.RecipientID) {
			continue
		}
		if filter.UnreadOnly && notification.IsRead {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Offset >= len(items) {
		return []entities.Notification{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Notification(nil), items[filter.Offset:end]...), nil
}

func (s *Store) MarkRead(ctx context.Context, notificationID string, readAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return domainerrors.ErrNotificationNotFound
	}
	readAt = readAt.UTC()
	notification.IsRead = true
	notification.ReadAt = &readAt
	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	readAt = readAt.UTC()
	updated := 0
	for id, notification := range s.notifications {
		if !strings.EqualFold(notification.RecipientID, recipientID) || notification.IsRead {
			continue
		}
		notification.IsRead = true
		notification.ReadAt = &readAt
		s.notifications[id] = notification
		updated++
	}
	return updated, nil
}

func (s *Store) PurgeRead(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, notification := range s.notifications {
		if !notification.IsRead || !notification.CreatedAt.Before(cutoff) {
			continue
		}
		delete(s.notifications, id)
		delete(s.dedup, dedupKey(notification.RecipientID, notification.ContentID, notification.Type))
		purged++
	}
	return purged, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func dedupKey(recipientID string, contentID string, notificationType entities.NotificationType) string {
	return strings.ToLower(strings.TrimSpace(recipientID)) + "|" +
		strings.ToLower(strings.TrimSpace(contentID)) + "|" +
		string(notificationType)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
