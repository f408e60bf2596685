package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/content-service/domain/entities"
	domainerrors "agora/contexts/community-content/content-service/domain/errors"
	"agora/contexts/community-content/content-service/ports"
)

const maxTitleLength = 300

type Service struct {
	Repo         ports.Repository
	Capabilities ports.Capabilities
	Notifier     ports.Notifier
	Ledger       ports.LikeLedger
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (s Service) CreatePost(ctx context.Context, actorID string, title string, body string) (entities.Content, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" || len(title) > maxTitleLength {
		return entities.Content{}, domainerrors.ErrInvalidRequest
	}
	actor, err := s.Capabilities.ResolveActive(ctx, actorID)
	if err != nil {
		return entities.Content{}, err
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Content{}, err
	}
	now := s.now()
	post := entities.Content{
		ContentID: id,
		Kind:      entities.KindPost,
		AuthorID:  actor.ActorID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.InsertPost(ctx, post); err != nil {
		return entities.Content{}, err
	}
	resolveLogger(s.Logger).Info("post created",
		"event", "content_post_created",
		"module", "community-content/content-service",
		"layer", "application",
		"content_id", post.ContentID,
		"author_id", post.AuthorID,
	)
	return post, nil
}

// CreateComment inserts a comment (or reply) and bumps the owning post's
// comment count in the same unit of work, then fires the COMMENT/REPLY
// notification. Notification failures are absorbed: the comment always wins.
func (s Service) CreateComment(ctx context.Context, actorID string, postID string, parentCommentID string, body string) (entities.Content, error) {
	body = strings.TrimSpace(body)
	postID = strings.TrimSpace(postID)
	parentCommentID = strings.TrimSpace(parentCommentID)
	if body == "" || postID == "" {
		return entities.Content{}, domainerrors.ErrInvalidRequest
	}
	actor, err := s.Capabilities.ResolveActive(ctx, actorID)
	if err != nil {
		return entities.Content{}, err
	}

	post, err := s.liveContent(ctx, postID)
	if err != nil {
		return entities.Content{}, err
	}
	if !post.IsPost() {
		return entities.Content{}, domainerrors.ErrInvalidRequest
	}

	var parent entities.Content
	if parentCommentID != "" {
		parent, err = s.liveContent(ctx, parentCommentID)
		if err != nil {
			return entities.Content{}, err
		}
		if parent.Kind != entities.KindComment || parent.PostID != post.ContentID {
			return entities.Content{}, domainerrors.ErrInvalidRequest
		}
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Content{}, err
	}
	now := s.now()
	comment := entities.Content{
		ContentID:       id,
		Kind:            entities.KindComment,
		AuthorID:        actor.ActorID,
		PostID:          post.ContentID,
		ParentCommentID: parentCommentID,
		Body:            body,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.InsertComment(ctx, comment); err != nil {
		return entities.Content{}, err
	}
	resolveLogger(s.Logger).Info("comment created",
		"event", "content_comment_created",
		"module", "community-content/content-service",
		"layer", "application",
		"content_id", comment.ContentID,
		"post_id", comment.PostID,
		"author_id", comment.AuthorID,
		"is_reply", comment.IsReply(),
	)

	if parentCommentID != "" {
		s.notifyQuietly(ctx, "reply", parent.AuthorID, actor, func() error {
			return s.Notifier.NotifyReply(ctx, parent.AuthorID, post.ContentID, comment.ContentID, actor.Username)
		})
	} else {
		s.notifyQuietly(ctx, "comment", post.AuthorID, actor, func() error {
			return s.Notifier.NotifyComment(ctx, post.AuthorID, post.ContentID, comment.ContentID, actor.Username)
		})
	}
	return comment, nil
}

// EditContent updates title/body. Owner only; title edits apply to posts only.
func (s Service) EditContent(ctx context.Context, actorID string, contentID string, title string, body string) (entities.Content, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return entities.Content{}, domainerrors.ErrInvalidRequest
	}
	actor, err := s.Capabilities.ResolveActive(ctx, actorID)
	if err != nil {
		return entities.Content{}, err
	}
	content, err := s.liveContent(ctx, contentID)
	if err != nil {
		return entities.Content{}, err
	}
	if !strings.EqualFold(content.AuthorID, actor.ActorID) {
		return entities.Content{}, domainerrors.ErrForbidden
	}
	if title != "" && !content.IsPost() {
		return entities.Content{}, domainerrors.ErrInvalidRequest
	}
	if title == "" {
		title = content.Title
	}
	if body == "" {
		body = content.Body
	}
	now := s.now()
	if err := s.Repo.UpdateText(ctx, content.ContentID, title, body, now); err != nil {
		return entities.Content{}, err
	}
	content.Title = title
	content.Body = body
	content.UpdatedAt = now
	return content, nil
}

// SoftDelete flips the deletion flag on one content item. Owners may delete
// their own rows, staff anything. The flag is monotonic: deleting an already
// deleted row is a no-op, never an error.
func (s Service) SoftDelete(ctx context.Context, actorID string, contentID string) error {
	content, err := s.Repo.GetContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return err
	}
	allowed, err := s.Capabilities.CanModerate(ctx, actorID, content.AuthorID)
	if err != nil {
		return err
	}
	if !allowed {
		return domainerrors.ErrForbidden
	}
	changed, _, err := s.Repo.SetDeleted(ctx, content.ContentID, true, s.now())
	if err != nil {
		return err
	}
	if changed {
		resolveLogger(s.Logger).Info("content soft-deleted",
			"event", "content_soft_deleted",
			"module", "community-content/content-service",
			"layer", "application",
			"content_id", content.ContentID,
			"kind", string(content.Kind),
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	return nil
}

// Restore is the explicit administrative un-delete. It is a distinct action
// reserved for staff, not a state the moderation machine re-enters.
func (s Service) Restore(ctx context.Context, actorID string, contentID string) error {
	staff, err := s.Capabilities.IsStaff(ctx, actorID)
	if err != nil {
		return err
	}
	if !staff {
		return domainerrors.ErrForbidden
	}
	if _, err := s.Repo.GetContent(ctx, strings.TrimSpace(contentID)); err != nil {
		return err
	}
	changed, _, err := s.Repo.SetDeleted(ctx, strings.TrimSpace(contentID), false, s.now())
	if err != nil {
		return err
	}
	if changed {
		resolveLogger(s.Logger).Info("content restored",
			"event", "content_restored",
			"module", "community-content/content-service",
			"layer", "application",
			"content_id", strings.TrimSpace(contentID),
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	return nil
}

// BulkSetDeleted applies the same single-row flag flip to each id. The batch
// is best-effort: a partial failure leaves earlier rows flipped and reports
// which ids failed.
func (s Service) BulkSetDeleted(ctx context.Context, actorID string, ids []string, deleted bool) (ports.BulkResult, error) {
	staff, err := s.Capabilities.IsStaff(ctx, actorID)
	if err != nil {
		return ports.BulkResult{}, err
	}
	if !staff {
		return ports.BulkResult{}, domainerrors.ErrForbidden
	}
	result := ports.BulkResult{}
	now := s.now()
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			result.Failed = append(result.Failed, id)
			continue
		}
		if _, _, err := s.Repo.SetDeleted(ctx, id, deleted, now); err != nil {
			resolveLogger(s.Logger).Warn("bulk flag flip failed for row",
				"event", "content_bulk_set_deleted_row_failed",
				"module", "community-content/content-service",
				"layer", "application",
				"content_id", id,
				"deleted", deleted,
				"error", err.Error(),
			)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

func (s Service) GetPost(ctx context.Context, postID string) (entities.Content, error) {
	post, err := s.liveContent(ctx, postID)
	if err != nil {
		return entities.Content{}, err
	}
	if !post.IsPost() {
		return entities.Content{}, domainerrors.ErrContentNotFound
	}
	return post, nil
}

func (s Service) ListPosts(ctx context.Context, limit int, offset int) ([]entities.Content, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListPosts(ctx, limit, offset)
}

func (s Service) ListPostComments(ctx context.Context, postID string, limit int, offset int) ([]entities.Content, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.Repo.ListPostComments(ctx, strings.TrimSpace(postID), limit, offset)
}

// RecountPost is the reconciliation repair against the counter invariants:
// recompute both counters from their authoritative sources and overwrite the
// caches when they drifted. Drift is a bug signal and is logged loudly.
func (s Service) RecountPost(ctx context.Context, postID string) (ports.RecountResult, error) {
	post, err := s.Repo.GetContent(ctx, strings.TrimSpace(postID))
	if err != nil {
		return ports.RecountResult{}, err
	}
	if !post.IsPost() {
		return ports.RecountResult{}, domainerrors.ErrInvalidRequest
	}
	likeCount, err := s.Ledger.CountLikes(ctx, post.ContentID)
	if err != nil {
		return ports.RecountResult{}, err
	}
	commentCount, err := s.Repo.CountLiveComments(ctx, post.ContentID)
	if err != nil {
		return ports.RecountResult{}, err
	}
	result := ports.RecountResult{
		PostID:       post.ContentID,
		LikeCount:    likeCount,
		CommentCount: commentCount,
	}
	if likeCount == post.LikeCount && commentCount == post.CommentCount {
		return result, nil
	}
	resolveLogger(s.Logger).Error("counter drift detected, repairing",
		"event", "content_counter_invariant_violation",
		"module", "community-content/content-service",
		"layer", "application",
		"content_id", post.ContentID,
		"cached_like_count", post.LikeCount,
		"live_like_count", likeCount,
		"cached_comment_count", post.CommentCount,
		"live_comment_count", commentCount,
	)
	if err := s.Repo.SetCounters(ctx, post.ContentID, likeCount, commentCount, s.now()); err != nil {
		return ports.RecountResult{}, err
	}
	result.Repaired = true
	return result, nil
}

// RecountPostAs is the HTTP-facing repair entry point, gated to staff. The
// worker sweep calls RecountPost directly.
func (s Service) RecountPostAs(ctx context.Context, actorID string, postID string) (ports.RecountResult, error) {
	staff, err := s.Capabilities.IsStaff(ctx, actorID)
	if err != nil {
		return ports.RecountResult{}, err
	}
	if !staff {
		return ports.RecountResult{}, domainerrors.ErrForbidden
	}
	return s.RecountPost(ctx, postID)
}

// liveContent returns the row or ErrContentNotFound when it is absent or
// soft-deleted. Deleted rows stay addressable through GetContent only.
func (s Service) liveContent(ctx context.Context, contentID string) (entities.Content, error) {
	content, err := s.Repo.GetContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return entities.Content{}, err
	}
	if content.Deleted {
		return entities.Content{}, domainerrors.ErrContentNotFound
	}
	return content, nil
}

func (s Service) notifyQuietly(ctx context.Context, kind string, recipientID string, actor ports.ActorInfo, send func() error) {
	if s.Notifier == nil {
		return
	}
	if strings.EqualFold(strings.TrimSpace(recipientID), actor.ActorID) {
		return
	}
	if err := send(); err != nil {
		resolveLogger(s.Logger).Warn("notification fan-out failed, absorbed",
			"event", "content_notification_absorbed",
			"module", "community-content/content-service",
			"layer", "application",
			"notification_kind", kind,
			"recipient_id", strings.TrimSpace(recipientID),
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizePage(limit int, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		return 0, 0, domainerrors.ErrInvalidRequest
	}
	return limit, offset, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
