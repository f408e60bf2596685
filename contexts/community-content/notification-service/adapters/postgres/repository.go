package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/notification-service/domain/entities"
	domainerrors "agora/contexts/community-content/notification-service/domain/errors"
	"agora/contexts/community-content/notification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// dedupConflict targets notifications_like_dedup_idx, the partial unique
// index over (recipient_id, content_id, type) WHERE type = 'LIKE'. Partial
// indexes are only inferred as conflict arbiters when the target carries a
// WHERE implying the index predicate; a bare column list raises 42P10.
func dedupConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "recipient_id"}, {Name: "content_id"}, {Name: "type"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: "type"}, Value: string(entities.TypeLike)},
		}},
		DoNothing: true,
	}
}

// InsertDeduped collapses repeated dedup-keyed notifications into the
// existing row. DoNothing keeps that row as-is, which is exactly the
// required semantics.
func (r *Repository) InsertDeduped(ctx context.Context, notification entities.Notification) (bool, error) {
	row := modelFromEntity(notification)
	create := r.db.WithContext(ctx).Clauses(dedupConflict()).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return false, nil
		}
		return false, r.logError("notification_repo_insert_deduped_failed", create.Error,
			"recipient_id", notification.RecipientID,
			"content_id", notification.ContentID,
		)
	}
	return create.RowsAffected > 0, nil
}

func (r *Repository) Insert(ctx context.Context, notification entities.Notification) error {
	row := modelFromEntity(notification)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("notification_repo_insert_failed", err,
			"recipient_id", notification.RecipientID,
			"content_id", notification.ContentID,
		)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_failed", err,
			"notification_id", strings.TrimSpace(notificationID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]entities.Notification, error) {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ?", filter.RecipientID)
	if filter.UnreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	var rows []notificationModel
	if err := tx.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_failed", err,
			"recipient_id", filter.RecipientID,
		)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkRead(ctx context.Context, notificationID string, readAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", strings.TrimSpace(notificationID)).
		Updates(map[string]any{
			"is_read": true,
			"read_at": readAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("notification_repo_mark_read_failed", result.Error,
			"notification_id", strings.TrimSpace(notificationID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		Where("is_read = ?", false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": readAt.UTC(),
		})
	if result.Error != nil {
		return 0, r.logError("notification_repo_mark_all_read_failed", result.Error,
			"recipient_id", strings.TrimSpace(recipientID),
		)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) PurgeRead(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ?", true).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&notificationModel{})
	if result.Error != nil {
		return 0, r.logError("notification_repo_purge_read_failed", result.Error,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
		)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-content/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

type notificationModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	RecipientID   string     `gorm:"column:recipient_id"`
	Type          string     `gorm:"column:type"`
	ContentID     string     `gorm:"column:content_id"`
	CommentID     *string    `gorm:"column:comment_id"`
	ActorUsername string     `gorm:"column:actor_username"`
	Message       string     `gorm:"column:message"`
	IsRead        bool       `gorm:"column:is_read"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	ReadAt        *time.Time `gorm:"column:read_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func modelFromEntity(notification entities.Notification) notificationModel {
	row := notificationModel{
		ID:            strings.TrimSpace(notification.NotificationID),
		RecipientID:   strings.TrimSpace(notification.RecipientID),
		Type:          string(notification.Type),
		ContentID:     strings.TrimSpace(notification.ContentID),
		ActorUsername: strings.TrimSpace(notification.ActorUsername),
		Message:       notification.Message,
		IsRead:        notification.IsRead,
		CreatedAt:     notification.CreatedAt.UTC(),
	}
	if strings.TrimSpace(notification.CommentID) != "" {
		commentID := strings.TrimSpace(notification.CommentID)
		row.CommentID = &commentID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m notificationModel) toEntity() entities.Notification {
	commentID := ""
	if m.CommentID != nil {
		commentID = strings.TrimSpace(*m.CommentID)
	}
	notification := entities.Notification{
		NotificationID: m.ID,
		RecipientID:    m.RecipientID,
		Type:           entities.NotificationType(m.Type),
		ContentID:      m.ContentID,
		CommentID:      commentID,
		ActorUsername:  m.ActorUsername,
		Message:        m.Message,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt.UTC(),
	}
	if m.ReadAt != nil {
		readAt := m.ReadAt.UTC()
		notification.ReadAt = &readAt
	}
	return notification
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
