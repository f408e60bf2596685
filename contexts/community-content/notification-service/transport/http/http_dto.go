package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NotificationView struct {
	NotificationID string `json:"notification_id"`
	Type           string `json:"type"`
	ContentID      string `json:"content_id,omitempty"`
	CommentID      string `json:"comment_id,omitempty"`
	ActorUsername  string `json:"actor_username,omitempty"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
	ReadAt         string `json:"read_at,omitempty"`
}

type ListNotificationsResponse struct {
	Status    string             `json:"status"`
	Items     []NotificationView `json:"items"`
	Timestamp string             `json:"timestamp"`
}

type MarkReadResponse struct {
	Status    string `json:"status"`
	Updated   int    `json:"updated"`
	Timestamp string `json:"timestamp"`
}
