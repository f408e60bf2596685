package application

import (
	"context"
	"errors"
	"testing"

	"agora/contexts/moderation-safety/report-service/adapters/memory"
	"agora/contexts/moderation-safety/report-service/domain/entities"
	domainerrors "agora/contexts/moderation-safety/report-service/domain/errors"
	"agora/contexts/moderation-safety/report-service/ports"
	"agora/internal/shared/events"
)

func newService(store *memory.Store) Service {
	return Service{
		Repo:         store,
		Capabilities: store,
		Clock:        store,
		IDGen:        store,
	}
}

func TestSubmitOpensPendingReport(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "obvious ad")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rep.Status != entities.StatusPending {
		t.Fatalf("expected PENDING status, got %s", rep.Status)
	}

	messages := store.Outbox().All()
	if len(messages) != 1 || messages[0].EventType != events.TypeReportSubmitted {
		t.Fatalf("expected one %s outbox event, got %+v", events.TypeReportSubmitted, messages)
	}
}

func TestSubmitRejectsSecondOpenReportFromSameReporter(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	if _, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", ""); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam again", ""); !errors.Is(err, domainerrors.ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}
	// A different reporter holds their own open case on the same target.
	if _, err := service.Submit(context.Background(), "user-2", "post", "post-1", "also spam", ""); err != nil {
		t.Fatalf("submit by second reporter failed: %v", err)
	}
}

func TestSubmitValidatesTarget(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	store.SeedContent(ports.TargetInfo{ContentID: "post-2", Kind: "post", AuthorID: "user-2", Deleted: true})
	service := newService(store)

	if _, err := service.Submit(context.Background(), "user-1", "comment", "post-1", "spam", ""); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for kind mismatch, got %v", err)
	}
	if _, err := service.Submit(context.Background(), "user-1", "post", "post-2", "spam", ""); !errors.Is(err, domainerrors.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound for deleted target, got %v", err)
	}
	if _, err := service.Submit(context.Background(), "user-1", "post", "missing", "spam", ""); !errors.Is(err, domainerrors.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound for unknown target, got %v", err)
	}
}

func TestApprovalSnapshotsAndSoftDeletesTarget(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	reviewed, err := service.Review(context.Background(), "mod-1", rep.ReportID, "approve", "clear cut")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != entities.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", reviewed.Status)
	}
	if reviewed.OriginalTitle != "hello" || reviewed.OriginalContent != "spam spam" || reviewed.OriginalAuthor != "user-2" {
		t.Fatalf("expected snapshot of the original content, got %+v", reviewed)
	}
	if !store.ContentDeleted("post-1") {
		t.Fatalf("expected target soft-deleted on approval")
	}
}

func TestApprovingCommentReportDecrementsOwningPostCounter(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "body"})
	store.SeedContent(ports.TargetInfo{ContentID: "comment-1", Kind: "comment", AuthorID: "user-2", PostID: "post-1", Body: "spam link"})
	service := newService(store)

	if got := store.CommentCount("post-1"); got != 1 {
		t.Fatalf("expected comment count 1 before review, got %d", got)
	}
	rep, err := service.Submit(context.Background(), "user-1", "comment", "comment-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "mod-1", rep.ReportID, "approve", ""); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if !store.ContentDeleted("comment-1") {
		t.Fatalf("expected the comment soft-deleted on approval")
	}
	if got := store.CommentCount("post-1"); got != 0 {
		t.Fatalf("expected comment count back at 0 after approval, got %d", got)
	}
	// Replaying the delete must not drive the cached counter negative.
	store.SeedContent(ports.TargetInfo{ContentID: "comment-1", Kind: "comment", AuthorID: "user-2", PostID: "post-1", Body: "spam link", Deleted: true})
	if got := store.CommentCount("post-1"); got != 0 {
		t.Fatalf("expected counter floored at 0, got %d", got)
	}
}

func TestSecondReviewerLosesTheRace(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "mod-1", rep.ReportID, "reject", ""); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "mod-1", rep.ReportID, "approve", ""); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed for second decision, got %v", err)
	}
}

func TestReviewRequiresReviewCapability(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "user-2", rep.ReportID, "approve", ""); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member reviewer, got %v", err)
	}
}

func TestApprovalOnVanishedTargetUsesPlaceholders(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	// The author deletes the content while the case is still open.
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Deleted: true})

	reviewed, err := service.Review(context.Background(), "mod-1", rep.ReportID, "approve", "")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.OriginalTitle != entities.PlaceholderTitle || reviewed.OriginalAuthor != entities.PlaceholderAuthor {
		t.Fatalf("expected placeholder snapshot, got %+v", reviewed)
	}
}

func TestWithdrawReporterOnlyWhilePending(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := service.Withdraw(context.Background(), "user-2", rep.ReportID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign withdraw, got %v", err)
	}
	if err := service.Withdraw(context.Background(), "user-1", rep.ReportID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	// The slot is free again once the open case is gone.
	if _, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", ""); err != nil {
		t.Fatalf("resubmit after withdraw failed: %v", err)
	}
}

func TestWithdrawAfterReviewRejected(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "mod-1", rep.ReportID, "reject", ""); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if err := service.Withdraw(context.Background(), "user-1", rep.ReportID); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestListReportsStaffOnlyWithStatusFilter(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(ports.TargetInfo{ContentID: "post-1", Kind: "post", AuthorID: "user-2", Title: "hello", Body: "spam"})
	service := newService(store)

	rep, err := service.Submit(context.Background(), "user-1", "post", "post-1", "spam", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.Submit(context.Background(), "user-2", "post", "post-1", "spam", ""); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if _, err := service.Review(context.Background(), "mod-1", rep.ReportID, "reject", ""); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if _, err := service.ListReports(context.Background(), "user-1", "", 0, 0); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member list, got %v", err)
	}
	pending, err := service.ListReports(context.Background(), "mod-1", "pending", 0, 0)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending report, got %d", len(pending))
	}
	if _, err := service.ListReports(context.Background(), "mod-1", "bogus", 0, 0); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad status filter, got %v", err)
	}
}
