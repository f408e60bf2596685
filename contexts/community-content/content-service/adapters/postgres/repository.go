package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/content-service/domain/entities"
	domainerrors "agora/contexts/community-content/content-service/domain/errors"
	"agora/contexts/community-content/content-service/ports"

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

func (r *Repository) InsertPost(ctx context.Context, post entities.Content) error {
	row := modelFromEntity(post)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("content_repo_insert_post_failed", err, "content_id", post.ContentID)
	}
	return nil
}

// InsertComment writes the comment row and bumps the owning post's counter in
// one transaction, so a crash between the two statements can never leave the
// cache and the comment tree disagreeing.
func (r *Repository) InsertComment(ctx context.Context, comment entities.Content) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := modelFromEntity(comment)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		result := tx.Model(&contentModel{}).
			Where("id = ?", row.PostID).
			Updates(map[string]any{
				"comment_count": gorm.Expr("comment_count + 1"),
				"updated_at":    comment.CreatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrContentNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrContentNotFound) {
			return err
		}
		return r.logError("content_repo_insert_comment_failed", err,
			"content_id", comment.ContentID,
			"post_id", comment.PostID,
		)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.Content, error) {
	var row contentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(contentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Content{}, domainerrors.ErrContentNotFound
		}
		return entities.Content{}, r.logError("content_repo_get_failed", err,
			"content_id", strings.TrimSpace(contentID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateText(ctx context.Context, contentID string, title string, body string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("id = ?", strings.TrimSpace(contentID)).
		Updates(map[string]any{
			"title":      title,
			"body":       body,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return r.logError("content_repo_update_text_failed", result.Error,
			"content_id", strings.TrimSpace(contentID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

// SetDeleted locks the row, flips the flag when it differs, and adjusts the
// owning post's comment_count for comment rows, all in one transaction. The
// GREATEST floor mirrors the like-counter policy: never negative.
func (r *Repository) SetDeleted(ctx context.Context, contentID string, deleted bool, now time.Time) (bool, entities.Content, error) {
	var row contentModel
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(contentID)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrContentNotFound
			}
			return err
		}
		if row.IsDeleted == deleted {
			return nil
		}
		updates := map[string]any{
			"is_deleted": deleted,
			"updated_at": now.UTC(),
		}
		if deleted {
			updates["deleted_at"] = now.UTC()
		} else {
			updates["deleted_at"] = nil
		}
		if err := tx.Model(&contentModel{}).
			Where("id = ?", row.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if entities.ContentKind(row.Kind) == entities.KindComment && row.PostID != nil {
			delta := -1
			if !deleted {
				delta = 1
			}
			if err := tx.Model(&contentModel{}).
				Where("id = ?", *row.PostID).
				Updates(map[string]any{
					"comment_count": gorm.Expr("GREATEST(comment_count + ?, 0)", delta),
					"updated_at":    now.UTC(),
				}).Error; err != nil {
				return err
			}
		}
		changed = true
		row.IsDeleted = deleted
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrContentNotFound) {
			return false, entities.Content{}, err
		}
		return false, entities.Content{}, r.logError("content_repo_set_deleted_failed", err,
			"content_id", strings.TrimSpace(contentID),
			"deleted", deleted,
		)
	}
	return changed, row.toEntity(), nil
}

func (r *Repository) ListPosts(ctx context.Context, limit int, offset int) ([]entities.Content, error) {
	var rows []contentModel
	err := r.db.WithContext(ctx).
		Where("kind = ?", string(entities.KindPost)).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("content_repo_list_posts_failed", err)
	}
	return toEntities(rows), nil
}

// ListPostComments filters deleted comments and deleted parent posts in the
// query: visibility cascades at read time, descendant rows are never
// rewritten by a post-level delete.
func (r *Repository) ListPostComments(ctx context.Context, postID string, limit int, offset int) ([]entities.Content, error) {
	var rows []contentModel
	err := r.db.WithContext(ctx).
		Table("content AS c").
		Select("c.*").
		Joins("JOIN content AS p ON p.id = c.post_id").
		Where("c.post_id = ?", strings.TrimSpace(postID)).
		Where("c.is_deleted = ?", false).
		Where("p.is_deleted = ?", false).
		Order("c.created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("content_repo_list_comments_failed", err,
			"post_id", strings.TrimSpace(postID),
		)
	}
	return toEntities(rows), nil
}

func (r *Repository) CountLiveComments(ctx context.Context, postID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("post_id = ?", strings.TrimSpace(postID)).
		Where("is_deleted = ?", false).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("content_repo_count_live_comments_failed", err,
			"post_id", strings.TrimSpace(postID),
		)
	}
	return int(count), nil
}

func (r *Repository) SetCounters(ctx context.Context, postID string, likeCount int, commentCount int, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("id = ?", strings.TrimSpace(postID)).
		Updates(map[string]any{
			"like_count":    likeCount,
			"comment_count": commentCount,
			"updated_at":    now.UTC(),
		})
	if result.Error != nil {
		return r.logError("content_repo_set_counters_failed", result.Error,
			"content_id", strings.TrimSpace(postID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListRecentPostIDs(ctx context.Context, since time.Time, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Select("id").
		Where("kind = ?", string(entities.KindPost)).
		Where("updated_at > ?", since.UTC()).
		Order("updated_at ASC").
		Limit(limit).
		Scan(&ids).
		Error
	if err != nil {
		return nil, r.logError("content_repo_list_recent_posts_failed", err)
	}
	return ids, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-content/content-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("content repository operation failed", fields...)
	return err
}

type contentModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Kind            string     `gorm:"column:kind"`
	AuthorID        string     `gorm:"column:author_id"`
	PostID          *string    `gorm:"column:post_id"`
	ParentCommentID *string    `gorm:"column:parent_comment_id"`
	Title           string     `gorm:"column:title"`
	Body            string     `gorm:"column:body"`
	LikeCount       int        `gorm:"column:like_count"`
	CommentCount    int        `gorm:"column:comment_count"`
	IsDeleted       bool       `gorm:"column:is_deleted"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	DeletedAt       *time.Time `gorm:"column:deleted_at"`
}

func (contentModel) TableName() string {
	return "content"
}

func modelFromEntity(content entities.Content) contentModel {
	row := contentModel{
		ID:           strings.TrimSpace(content.ContentID),
		Kind:         string(content.Kind),
		AuthorID:     strings.TrimSpace(content.AuthorID),
		Title:        content.Title,
		Body:         content.Body,
		LikeCount:    content.LikeCount,
		CommentCount: content.CommentCount,
		IsDeleted:    content.Deleted,
		CreatedAt:    content.CreatedAt.UTC(),
		UpdatedAt:    content.UpdatedAt.UTC(),
	}
	if strings.TrimSpace(content.PostID) != "" {
		postID := strings.TrimSpace(content.PostID)
		row.PostID = &postID
	}
	if strings.TrimSpace(content.ParentCommentID) != "" {
		parentID := strings.TrimSpace(content.ParentCommentID)
		row.ParentCommentID = &parentID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m contentModel) toEntity() entities.Content {
	postID := ""
	if m.PostID != nil {
		postID = strings.TrimSpace(*m.PostID)
	}
	parentID := ""
	if m.ParentCommentID != nil {
		parentID = strings.TrimSpace(*m.ParentCommentID)
	}
	content := entities.Content{
		ContentID:       m.ID,
		Kind:            entities.ContentKind(m.Kind),
		AuthorID:        m.AuthorID,
		PostID:          postID,
		ParentCommentID: parentID,
		Title:           m.Title,
		Body:            m.Body,
		LikeCount:       m.LikeCount,
		CommentCount:    m.CommentCount,
		Deleted:         m.IsDeleted,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.DeletedAt != nil {
		deletedAt := m.DeletedAt.UTC()
		content.DeletedAt = &deletedAt
	}
	return content
}

func toEntities(rows []contentModel) []entities.Content {
	items := make([]entities.Content, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

var _ ports.Repository = (*Repository)(nil)
