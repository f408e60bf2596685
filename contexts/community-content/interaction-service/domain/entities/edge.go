package entities

import (
	"strings"
	"time"
)

// EdgeKind discriminates ledger edges. Likes attach to posts and comments,
// bookmarks to posts only.
type EdgeKind string

const (
	KindLike     EdgeKind = "like"
	KindBookmark EdgeKind = "bookmark"
)

func ParseEdgeKind(raw string) (EdgeKind, bool) {
	switch EdgeKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindLike:
		return KindLike, true
	case KindBookmark:
		return KindBookmark, true
	default:
		return "", false
	}
}

// Edge is one live row in the interaction ledger. At most one edge exists per
// (actor, content, kind); toggling off removes the row outright.
type Edge struct {
	EdgeID    string
	ActorID   string
	ContentID string
	Kind      EdgeKind
	CreatedAt time.Time
}
