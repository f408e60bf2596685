package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
}

type ReviewReportRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}

type ReportView struct {
	ReportID        string `json:"report_id"`
	ReporterID      string `json:"reporter_id"`
	TargetType      string `json:"target_type"`
	TargetID        string `json:"target_id"`
	Reason          string `json:"reason"`
	Details         string `json:"details,omitempty"`
	Status          string `json:"status"`
	ReviewerID      string `json:"reviewer_id,omitempty"`
	ReviewNote      string `json:"review_note,omitempty"`
	OriginalTitle   string `json:"original_title,omitempty"`
	OriginalContent string `json:"original_content,omitempty"`
	OriginalAuthor  string `json:"original_author,omitempty"`
	CreatedAt       string `json:"created_at"`
	ReviewedAt      string `json:"reviewed_at,omitempty"`
}

type ReportResponse struct {
	Status    string     `json:"status"`
	Report    ReportView `json:"report"`
	Timestamp string     `json:"timestamp"`
}

type ReportListResponse struct {
	Status    string       `json:"status"`
	Items     []ReportView `json:"items"`
	Timestamp string       `json:"timestamp"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
