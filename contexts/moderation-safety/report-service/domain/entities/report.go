package entities

import (
	"strings"
	"time"
)

type ReportStatus string

const (
	StatusPending  ReportStatus = "PENDING"
	StatusApproved ReportStatus = "APPROVED"
	StatusRejected ReportStatus = "REJECTED"
)

func ParseStatus(raw string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

func ParseTargetType(raw string) (TargetType, bool) {
	switch TargetType(strings.ToLower(strings.TrimSpace(raw))) {
	case TargetPost:
		return TargetPost, true
	case TargetComment:
		return TargetComment, true
	default:
		return "", false
	}
}

// Snapshot placeholders used when the reported content vanished before the
// approval could copy it. The approval proceeds regardless.
const (
	PlaceholderTitle  = "[content unavailable]"
	PlaceholderBody   = "[content unavailable]"
	PlaceholderAuthor = "unknown"
)

// Report is one moderation case. Snapshot fields stay empty until an approval
// copies the offending content into them.
type Report struct {
	ReportID   string
	ReporterID string
	TargetType TargetType
	TargetID   string
	Reason     string
	Details    string
	Status     ReportStatus

	ReviewerID string
	ReviewNote string

	OriginalTitle   string
	OriginalContent string
	OriginalAuthor  string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ReviewedAt *time.Time
}

func (r Report) IsOpen() bool {
	return r.Status == StatusPending
}
