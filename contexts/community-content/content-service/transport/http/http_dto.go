package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CreateCommentRequest struct {
	Body            string `json:"body"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

type EditContentRequest struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

type BulkSetDeletedRequest struct {
	ContentIDs []string `json:"content_ids"`
	Deleted    bool     `json:"deleted"`
}

type ContentView struct {
	ContentID       string `json:"content_id"`
	Kind            string `json:"kind"`
	AuthorID        string `json:"author_id"`
	PostID          string `json:"post_id,omitempty"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Title           string `json:"title,omitempty"`
	Body            string `json:"body"`
	LikeCount       int    `json:"like_count"`
	CommentCount    int    `json:"comment_count"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ContentResponse struct {
	Status    string      `json:"status"`
	Content   ContentView `json:"content"`
	Timestamp string      `json:"timestamp"`
}

type ContentListResponse struct {
	Status    string        `json:"status"`
	Items     []ContentView `json:"items"`
	Timestamp string        `json:"timestamp"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type BulkSetDeletedResponse struct {
	Status    string   `json:"status"`
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"`
	Timestamp string   `json:"timestamp"`
}

type RecountResponse struct {
	Status       string `json:"status"`
	PostID       string `json:"post_id"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	Repaired     bool   `json:"repaired"`
	Timestamp    string `json:"timestamp"`
}
