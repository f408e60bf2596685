package outbox

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type messageModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	SourceService string     `gorm:"column:source_service"`
	EventType     string     `gorm:"column:event_type"`
	Topic         string     `gorm:"column:topic"`
	Payload       []byte     `gorm:"column:payload"`
	Status        string     `gorm:"column:status"`
	RetryCount    int        `gorm:"column:retry_count"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
}

func (messageModel) TableName() string {
	return "outbox_messages"
}

// Append inserts a pending row. Callers pass the transaction handle of the
// state change the event describes so both commit or roll back together.
func Append(tx *gorm.DB, sourceService string, message Message) error {
	row := messageModel{
		ID:            message.ID,
		SourceService: sourceService,
		EventType:     message.EventType,
		Topic:         message.Topic,
		Payload:       message.Payload,
		Status:        StatusPending,
		CreatedAt:     message.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return tx.Create(&row).Error
}

// PostgresStore serves the relay side of the shared outbox table, scoped to
// one source service.
type PostgresStore struct {
	db            *gorm.DB
	sourceService string
}

func NewPostgresStore(db *gorm.DB, sourceService string) *PostgresStore {
	return &PostgresStore{db: db, sourceService: sourceService}
}

func (s *PostgresStore) ListPending(ctx context.Context, limit int) ([]Message, error) {
	var rows []messageModel
	err := s.db.WithContext(ctx).
		Where("source_service = ?", s.sourceService).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, Message{
			ID:         row.ID,
			EventType:  row.EventType,
			Topic:      row.Topic,
			Payload:    row.Payload,
			Status:     row.Status,
			RetryCount: row.RetryCount,
			CreatedAt:  row.CreatedAt,
		})
	}
	return messages, nil
}

func (s *PostgresStore) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	publishedAt = publishedAt.UTC()
	return s.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       StatusPublished,
			"published_at": publishedAt,
		}).
		Error
}

func (s *PostgresStore) MarkFailed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      StatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
		}).
		Error
}

var _ Store = (*PostgresStore)(nil)
