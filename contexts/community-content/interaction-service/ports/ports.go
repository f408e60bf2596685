package ports

import (
	"context"
	"time"

	"agora/contexts/community-content/interaction-service/domain/entities"
	"agora/internal/shared/outbox"
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

// ActorDirectory answers existence and suspension for the acting user.
// Implemented by the identity-access context.
type ActorDirectory interface {
	ResolveActive(ctx context.Context, actorID string) (ActorInfo, error)
}

type ContentInfo struct {
	ContentID string
	Kind      string // post or comment
	AuthorID  string
}

// Notifier fires the LIKE fan-out on edge creation. Callers absorb failures.
type Notifier interface {
	NotifyLike(ctx context.Context, recipientID string, contentID string, actorUsername string) error
}

type ToggleResult struct {
	Active bool
	Count  int
}

// ToggleCommand carries one edge flip plus the outbox messages for either
// outcome. The adapter persists the message matching the direction it took,
// in the same unit of work as the flip. Nil messages are skipped.
type ToggleCommand struct {
	EdgeID       string
	ActorID      string
	ContentID    string
	Kind         entities.EdgeKind
	Now          time.Time
	CreatedEvent *outbox.Message
	RemovedEvent *outbox.Message
}

type Repository interface {
	// GetContentInfo returns the live target or ErrContentNotFound when the
	// row is absent or soft-deleted.
	GetContentInfo(ctx context.Context, contentID string) (ContentInfo, error)
	// Toggle flips the edge and maintains the cached like counter atomically.
	// The flip re-checks the target inside the unit of work. The returned
	// count is the post-flip live-edge count for the command's kind.
	Toggle(ctx context.Context, cmd ToggleCommand) (ToggleResult, error)
	HasEdge(ctx context.Context, actorID string, contentID string, kind entities.EdgeKind) (bool, error)
	ListBookmarks(ctx context.Context, actorID string, limit int, offset int) ([]entities.Edge, error)
	// CountEdges answers the authoritative live-edge count for reconciliation.
	CountEdges(ctx context.Context, contentID string, kind entities.EdgeKind) (int, error)
}
