package ports

import (
	"context"
	"time"

	"agora/contexts/moderation-safety/report-service/domain/entities"
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

// Capabilities is the authorization surface the state machine consults.
// Implemented by the identity-access context.
type Capabilities interface {
	ResolveActive(ctx context.Context, actorID string) (ActorInfo, error)
	// CanReview gates the PENDING to APPROVED/REJECTED transition to staff.
	CanReview(ctx context.Context, actorID string) (bool, error)
}

// TargetInfo is the report service's view of a content row. PostID is set for
// comments only and names the owning post, whose cached comment counter must
// track the live comment set when a comment is flagged.
type TargetInfo struct {
	ContentID string
	Kind      string // post or comment
	AuthorID  string
	PostID    string
	Title     string
	Body      string
	Deleted   bool
}

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// SubmitCommand carries the new report and its outbox message. The adapter
// persists both in one unit of work and surfaces ErrDuplicateReport when the
// reporter already holds an open report on the target.
type SubmitCommand struct {
	Report entities.Report
	Event  *outbox.Message
}

// DecisionCommand finalizes one report. The adapter compare-and-sets the
// PENDING status, and for approvals snapshots and soft-deletes the target,
// all rolled back together. Lock order is report row first, content row
// second, never the reverse.
type DecisionCommand struct {
	ReportID   string
	ReviewerID string
	Decision   Decision
	Note       string
	Now        time.Time
	Event      *outbox.Message
}

type ListFilter struct {
	Status entities.ReportStatus
	Limit  int
	Offset int
}

type Repository interface {
	// GetTargetInfo returns the content row regardless of its deletion flag.
	GetTargetInfo(ctx context.Context, contentID string) (TargetInfo, error)
	Submit(ctx context.Context, cmd SubmitCommand) error
	GetReport(ctx context.Context, reportID string) (entities.Report, error)
	ListReports(ctx context.Context, filter ListFilter) ([]entities.Report, error)
	// FinalizeDecision runs the atomic PENDING transition. A lost
	// compare-and-set surfaces ErrAlreadyReviewed.
	FinalizeDecision(ctx context.Context, cmd DecisionCommand) (entities.Report, error)
	// Withdraw deletes the row outright while it is still PENDING.
	Withdraw(ctx context.Context, reportID string, reporterID string) error
}
