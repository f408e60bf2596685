package ports

import (
	"context"
	"time"

	"agora/contexts/community-content/content-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ActorInfo struct {
	ActorID  string
	Username string
}

// Capabilities is the single authorization surface the content store consults.
// Implemented by the identity-access context.
type Capabilities interface {
	// ResolveActive returns the actor when it exists and is not suspended.
	ResolveActive(ctx context.Context, actorID string) (ActorInfo, error)
	// CanModerate allows staff on any content and owners on their own.
	CanModerate(ctx context.Context, actorID string, contentAuthorID string) (bool, error)
	// IsStaff allows moderator/admin-only operations (restore, bulk flips).
	IsStaff(ctx context.Context, actorID string) (bool, error)
}

// Notifier is the fan-out side effect for comment creation. Callers absorb
// failures; notification delivery never fails the comment insert.
type Notifier interface {
	NotifyComment(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error
	NotifyReply(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error
}

// LikeLedger answers authoritative live-edge counts for reconciliation.
// Implemented by the interaction ledger.
type LikeLedger interface {
	CountLikes(ctx context.Context, contentID string) (int, error)
}

type Repository interface {
	InsertPost(ctx context.Context, post entities.Content) error
	// InsertComment persists the comment and increments the owning post's
	// comment_count by one in the same unit of work.
	InsertComment(ctx context.Context, comment entities.Content) error
	// GetContent returns the row regardless of its deletion flag.
	GetContent(ctx context.Context, contentID string) (entities.Content, error)
	UpdateText(ctx context.Context, contentID string, title string, body string, now time.Time) error
	// SetDeleted flips the soft-delete flag. changed is false when the row
	// already carried the requested state. Comment flips adjust the owning
	// post's comment_count in the same unit of work, floored at zero.
	SetDeleted(ctx context.Context, contentID string, deleted bool, now time.Time) (changed bool, content entities.Content, err error)
	ListPosts(ctx context.Context, limit int, offset int) ([]entities.Content, error)
	// ListPostComments returns live comments under a post (their own flag and
	// the post's flag both clear).
	ListPostComments(ctx context.Context, postID string, limit int, offset int) ([]entities.Content, error)
	CountLiveComments(ctx context.Context, postID string) (int, error)
	// SetCounters overwrites the cached counters. Reconciliation only.
	SetCounters(ctx context.Context, postID string, likeCount int, commentCount int, now time.Time) error
	// ListRecentPostIDs returns ids of posts touched since the cutoff, oldest
	// first, for the counter reconciliation sweep.
	ListRecentPostIDs(ctx context.Context, since time.Time, limit int) ([]string, error)
}

type BulkResult struct {
	Succeeded int
	Failed    []string
}

type RecountResult struct {
	PostID       string
	LikeCount    int
	CommentCount int
	Repaired     bool
}
