package entities

import "time"

type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// Content is one row in the content arena: a post, a top-level comment, or a
// reply. Comments point at their owning post and (for replies) their parent
// comment by id only; traversal goes through indexed lookups, never through
// object graphs.
type Content struct {
	ContentID       string
	Kind            ContentKind
	AuthorID        string
	PostID          string // owning post for comments, empty for posts
	ParentCommentID string // set for replies only
	Title           string // posts only
	Body            string
	LikeCount       int
	CommentCount    int // posts only
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

func (c Content) IsPost() bool {
	return c.Kind == KindPost
}

func (c Content) IsReply() bool {
	return c.Kind == KindComment && c.ParentCommentID != ""
}
