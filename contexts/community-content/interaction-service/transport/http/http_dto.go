package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ToggleRequest struct {
	Kind string `json:"kind"`
}

type ToggleResponse struct {
	Status    string `json:"status"`
	Active    bool   `json:"active"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

type BookmarkView struct {
	ContentID string `json:"content_id"`
	CreatedAt string `json:"created_at"`
}

type ListBookmarksResponse struct {
	Status    string         `json:"status"`
	Items     []BookmarkView `json:"items"`
	Timestamp string         `json:"timestamp"`
}
