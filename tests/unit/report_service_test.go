package unit

import (
	"context"
	"errors"
	"testing"

	report "agora/contexts/moderation-safety/report-service"
	domainerrors "agora/contexts/moderation-safety/report-service/domain/errors"
	"agora/contexts/moderation-safety/report-service/ports"
	httptransport "agora/contexts/moderation-safety/report-service/transport/http"
)

func TestApprovedReportSnapshotsAndHidesComment(t *testing.T) {
	module := report.NewInMemoryModule(nil)
	module.Store.SeedContent(ports.TargetInfo{
		ContentID: "comment-1",
		Kind:      "comment",
		AuthorID:  "user-2",
		Body:      "buy cheap pills",
	})

	submitted, err := module.Handler.SubmitHandler(context.Background(), "user-1", httptransport.SubmitReportRequest{
		TargetType: "comment",
		TargetID:   "comment-1",
		Reason:     "SPAM",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.Report.Status != "PENDING" {
		t.Fatalf("expected PENDING report, got %s", submitted.Report.Status)
	}

	reviewed, err := module.Handler.ReviewHandler(context.Background(), "mod-1", submitted.Report.ReportID, httptransport.ReviewReportRequest{
		Decision: "approve",
		Note:     "confirmed spam",
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Report.Status != "APPROVED" {
		t.Fatalf("expected APPROVED report, got %s", reviewed.Report.Status)
	}
	if reviewed.Report.OriginalContent != "buy cheap pills" || reviewed.Report.OriginalAuthor != "user-2" {
		t.Fatalf("expected snapshot of the offending comment, got %+v", reviewed.Report)
	}
	if !module.Store.ContentDeleted("comment-1") {
		t.Fatalf("expected the reported comment flagged deleted on approval")
	}
}

func TestTwoReportersMayHoldOpenCasesOnSameTarget(t *testing.T) {
	module := report.NewInMemoryModule(nil)
	module.Store.SeedContent(ports.TargetInfo{
		ContentID: "post-1",
		Kind:      "post",
		AuthorID:  "mod-1",
		Title:     "giveaway",
		Body:      "totally legit",
	})

	first, err := module.Handler.SubmitHandler(context.Background(), "user-1", httptransport.SubmitReportRequest{
		TargetType: "post",
		TargetID:   "post-1",
		Reason:     "scam",
	})
	if err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	second, err := module.Handler.SubmitHandler(context.Background(), "user-2", httptransport.SubmitReportRequest{
		TargetType: "post",
		TargetID:   "post-1",
		Reason:     "scam",
	})
	if err != nil {
		t.Fatalf("second reporter's report failed: %v", err)
	}
	if first.Report.ReportID == second.Report.ReportID {
		t.Fatalf("expected distinct cases per reporter")
	}

	// The same reporter is still capped at one open case on the target.
	_, err = module.Handler.SubmitHandler(context.Background(), "user-1", httptransport.SubmitReportRequest{
		TargetType: "post",
		TargetID:   "post-1",
		Reason:     "scam again",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}
}

func TestTerminalReportRejectsFurtherDecisionsAndWithdrawals(t *testing.T) {
	module := report.NewInMemoryModule(nil)
	module.Store.SeedContent(ports.TargetInfo{
		ContentID: "post-1",
		Kind:      "post",
		AuthorID:  "user-2",
		Title:     "hello",
		Body:      "world",
	})

	submitted, err := module.Handler.SubmitHandler(context.Background(), "user-1", httptransport.SubmitReportRequest{
		TargetType: "post",
		TargetID:   "post-1",
		Reason:     "off topic",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.ReviewHandler(context.Background(), "mod-1", submitted.Report.ReportID, httptransport.ReviewReportRequest{Decision: "reject"}); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if _, err := module.Handler.ReviewHandler(context.Background(), "mod-1", submitted.Report.ReportID, httptransport.ReviewReportRequest{Decision: "approve"}); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed on second decision, got %v", err)
	}
	if _, err := module.Handler.WithdrawHandler(context.Background(), "user-1", submitted.Report.ReportID); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed on withdraw, got %v", err)
	}
}
