package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/interaction-service/domain/entities"
	domainerrors "agora/contexts/community-content/interaction-service/domain/errors"
	"agora/contexts/community-content/interaction-service/ports"
	sharedoutbox "agora/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sourceService = "community-content/interaction-service"

// toggleRetries bounds the lost-race retry loop. Unique violations and
// serialization failures mean another toggle won the row; the flip is simply
// re-run against the new state.
const toggleRetries = 3

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

func (r *Repository) GetContentInfo(ctx context.Context, contentID string) (ports.ContentInfo, error) {
	var row contentRow
	err := r.db.WithContext(ctx).
		Table("content").
		Select("id", "kind", "author_id", "is_deleted").
		Where("id = ?", strings.TrimSpace(contentID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ContentInfo{}, domainerrors.ErrContentNotFound
		}
		return ports.ContentInfo{}, r.logError("interaction_repo_get_content_failed", err,
			"content_id", strings.TrimSpace(contentID),
		)
	}
	if row.IsDeleted {
		return ports.ContentInfo{}, domainerrors.ErrContentNotFound
	}
	return ports.ContentInfo{ContentID: row.ID, Kind: row.Kind, AuthorID: row.AuthorID}, nil
}

// Toggle locks the content row, flips the edge, moves the cached counter, and
// appends the outbox message, all in one transaction. The row lock serializes
// toggles on the same content; losing a race on the edge key is retried.
func (r *Repository) Toggle(ctx context.Context, cmd ports.ToggleCommand) (ports.ToggleResult, error) {
	var lastErr error
	for attempt := 0; attempt < toggleRetries; attempt++ {
		result, err := r.toggleOnce(ctx, cmd)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, domainerrors.ErrContentNotFound) {
			return ports.ToggleResult{}, err
		}
		if !isUniqueViolation(err) && !isSerializationFailure(err) {
			return ports.ToggleResult{}, r.logError("interaction_repo_toggle_failed", err,
				"actor_id", cmd.ActorID,
				"content_id", cmd.ContentID,
				"kind", string(cmd.Kind),
			)
		}
		lastErr = err
	}
	return ports.ToggleResult{}, r.logError("interaction_repo_toggle_retries_exhausted", lastErr,
		"actor_id", cmd.ActorID,
		"content_id", cmd.ContentID,
		"kind", string(cmd.Kind),
	)
}

func (r *Repository) toggleOnce(ctx context.Context, cmd ports.ToggleCommand) (ports.ToggleResult, error) {
	result := ports.ToggleResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content contentRow
		err := tx.Table("content").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "kind", "author_id", "is_deleted", "like_count").
			Where("id = ?", cmd.ContentID).
			Take(&content).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrContentNotFound
			}
			return err
		}
		if content.IsDeleted {
			return domainerrors.ErrContentNotFound
		}

		deleted := tx.Where("actor_id = ?", cmd.ActorID).
			Where("content_id = ?", cmd.ContentID).
			Where("kind = ?", string(cmd.Kind)).
			Delete(&edgeModel{})
		if deleted.Error != nil {
			return deleted.Error
		}

		var event *sharedoutbox.Message
		if deleted.RowsAffected > 0 {
			result.Active = false
			event = cmd.RemovedEvent
			if cmd.Kind == entities.KindLike {
				if err := r.moveLikeCount(tx, cmd.ContentID, -1, cmd.Now); err != nil {
					return err
				}
			}
		} else {
			row := edgeModel{
				ID:        cmd.EdgeID,
				ActorID:   cmd.ActorID,
				ContentID: cmd.ContentID,
				Kind:      string(cmd.Kind),
				CreatedAt: cmd.Now.UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			result.Active = true
			event = cmd.CreatedEvent
			if cmd.Kind == entities.KindLike {
				if err := r.moveLikeCount(tx, cmd.ContentID, 1, cmd.Now); err != nil {
					return err
				}
			}
		}

		var count int64
		if err := tx.Model(&edgeModel{}).
			Where("content_id = ?", cmd.ContentID).
			Where("kind = ?", string(cmd.Kind)).
			Count(&count).Error; err != nil {
			return err
		}
		result.Count = int(count)

		if event != nil {
			if err := sharedoutbox.Append(tx, sourceService, *event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ports.ToggleResult{}, err
	}
	return result, nil
}

func (r *Repository) moveLikeCount(tx *gorm.DB, contentID string, delta int, now time.Time) error {
	return tx.Table("content").
		Where("id = ?", contentID).
		Updates(map[string]any{
			"like_count": gorm.Expr("GREATEST(like_count + ?, 0)", delta),
			"updated_at": now.UTC(),
		}).
		Error
}

func (r *Repository) HasEdge(ctx context.Context, actorID string, contentID string, kind entities.EdgeKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&edgeModel{}).
		Where("actor_id = ?", strings.TrimSpace(actorID)).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Where("kind = ?", string(kind)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("interaction_repo_has_edge_failed", err,
			"actor_id", strings.TrimSpace(actorID),
			"content_id", strings.TrimSpace(contentID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListBookmarks(ctx context.Context, actorID string, limit int, offset int) ([]entities.Edge, error) {
	var rows []edgeModel
	err := r.db.WithContext(ctx).
		Table("interaction_edges AS e").
		Select("e.*").
		Joins("JOIN content AS c ON c.id = e.content_id").
		Where("e.actor_id = ?", strings.TrimSpace(actorID)).
		Where("e.kind = ?", string(entities.KindBookmark)).
		Where("c.is_deleted = ?", false).
		Order("e.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("interaction_repo_list_bookmarks_failed", err,
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	edges := make([]entities.Edge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, row.toEntity())
	}
	return edges, nil
}

func (r *Repository) CountEdges(ctx context.Context, contentID string, kind entities.EdgeKind) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&edgeModel{}).
		Where("content_id = ?", strings.TrimSpace(contentID)).
		Where("kind = ?", string(kind)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("interaction_repo_count_edges_failed", err,
			"content_id", strings.TrimSpace(contentID),
		)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", sourceService,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("interaction repository operation failed", fields...)
	return err
}

// edgeModel rows carry a unique index on (actor_id, content_id, kind); the
// constraint is what turns concurrent duplicate creates into retryable races.
type edgeModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ActorID   string    `gorm:"column:actor_id"`
	ContentID string    `gorm:"column:content_id"`
	Kind      string    `gorm:"column:kind"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (edgeModel) TableName() string {
	return "interaction_edges"
}

func (m edgeModel) toEntity() entities.Edge {
	return entities.Edge{
		EdgeID:    m.ID,
		ActorID:   m.ActorID,
		ContentID: m.ContentID,
		Kind:      entities.EdgeKind(m.Kind),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type contentRow struct {
	ID        string `gorm:"column:id"`
	Kind      string `gorm:"column:kind"`
	AuthorID  string `gorm:"column:author_id"`
	IsDeleted bool   `gorm:"column:is_deleted"`
	LikeCount int    `gorm:"column:like_count"`
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

var _ ports.Repository = (*Repository)(nil)
