package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/moderation-safety/report-service/domain/entities"
	domainerrors "agora/contexts/moderation-safety/report-service/domain/errors"
	"agora/contexts/moderation-safety/report-service/ports"
	"agora/internal/shared/events"
	"agora/internal/shared/outbox"
)

const sourceService = "moderation-safety/report-service"

const maxReasonLength = 100

type Service struct {
	Repo         ports.Repository
	Capabilities ports.Capabilities
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

// Submit opens a moderation case against live content. One open report per
// reporter and target; other reporters may each hold their own.
func (s Service) Submit(ctx context.Context, reporterID string, targetTypeRaw string, targetID string, reason string, details string) (entities.Report, error) {
	targetID = strings.TrimSpace(targetID)
	reason = strings.TrimSpace(reason)
	targetType, ok := entities.ParseTargetType(targetTypeRaw)
	if !ok || targetID == "" || reason == "" || len(reason) > maxReasonLength {
		return entities.Report{}, domainerrors.ErrInvalidRequest
	}
	reporter, err := s.Capabilities.ResolveActive(ctx, reporterID)
	if err != nil {
		return entities.Report{}, err
	}
	target, err := s.Repo.GetTargetInfo(ctx, targetID)
	if err != nil {
		return entities.Report{}, err
	}
	if target.Deleted {
		return entities.Report{}, domainerrors.ErrContentNotFound
	}
	if string(targetType) != target.Kind {
		return entities.Report{}, domainerrors.ErrInvalidRequest
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Report{}, err
	}
	now := s.now()
	rep := entities.Report{
		ReportID:   id,
		ReporterID: reporter.ActorID,
		TargetType: targetType,
		TargetID:   target.ContentID,
		Reason:     reason,
		Details:    strings.TrimSpace(details),
		Status:     entities.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	event, err := s.reportEvent(events.TypeReportSubmitted, rep)
	if err != nil {
		return entities.Report{}, err
	}
	if err := s.Repo.Submit(ctx, ports.SubmitCommand{Report: rep, Event: event}); err != nil {
		return entities.Report{}, err
	}
	resolveLogger(s.Logger).Info("report submitted",
		"event", "report_submitted",
		"module", sourceService,
		"layer", "application",
		"report_id", rep.ReportID,
		"reporter_id", rep.ReporterID,
		"target_id", rep.TargetID,
		"target_type", string(rep.TargetType),
	)
	return rep, nil
}

// Review finalizes one report. Exactly one reviewer wins a race; the loser
// gets ErrAlreadyReviewed. Approval snapshots the target and soft-deletes it
// in the same unit of work.
func (s Service) Review(ctx context.Context, reviewerID string, reportID string, decisionRaw string, note string) (entities.Report, error) {
	reportID = strings.TrimSpace(reportID)
	decision, ok := parseDecision(decisionRaw)
	if reportID == "" || !ok {
		return entities.Report{}, domainerrors.ErrInvalidRequest
	}
	allowed, err := s.Capabilities.CanReview(ctx, reviewerID)
	if err != nil {
		return entities.Report{}, err
	}
	if !allowed {
		return entities.Report{}, domainerrors.ErrForbidden
	}

	rep, err := s.Repo.GetReport(ctx, reportID)
	if err != nil {
		return entities.Report{}, err
	}
	eventType := events.TypeReportRejected
	if decision == ports.DecisionApprove {
		eventType = events.TypeReportApproved
	}
	event, err := s.reportEvent(eventType, rep)
	if err != nil {
		return entities.Report{}, err
	}

	finalized, err := s.Repo.FinalizeDecision(ctx, ports.DecisionCommand{
		ReportID:   reportID,
		ReviewerID: strings.TrimSpace(reviewerID),
		Decision:   decision,
		Note:       strings.TrimSpace(note),
		Now:        s.now(),
		Event:      event,
	})
	if err != nil {
		return entities.Report{}, err
	}
	resolveLogger(s.Logger).Info("report reviewed",
		"event", "report_reviewed",
		"module", sourceService,
		"layer", "application",
		"report_id", finalized.ReportID,
		"reviewer_id", finalized.ReviewerID,
		"status", string(finalized.Status),
	)
	return finalized, nil
}

// Withdraw removes an open report. Reporter only, PENDING only; a reviewed
// report can no longer be taken back.
func (s Service) Withdraw(ctx context.Context, reporterID string, reportID string) error {
	reporter, err := s.Capabilities.ResolveActive(ctx, reporterID)
	if err != nil {
		return err
	}
	rep, err := s.Repo.GetReport(ctx, strings.TrimSpace(reportID))
	if err != nil {
		return err
	}
	if !strings.EqualFold(rep.ReporterID, reporter.ActorID) {
		return domainerrors.ErrForbidden
	}
	if err := s.Repo.Withdraw(ctx, rep.ReportID, reporter.ActorID); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("report withdrawn",
		"event", "report_withdrawn",
		"module", sourceService,
		"layer", "application",
		"report_id", rep.ReportID,
		"reporter_id", reporter.ActorID,
	)
	return nil
}

func (s Service) GetReport(ctx context.Context, actorID string, reportID string) (entities.Report, error) {
	allowed, err := s.Capabilities.CanReview(ctx, actorID)
	if err != nil {
		return entities.Report{}, err
	}
	rep, err := s.Repo.GetReport(ctx, strings.TrimSpace(reportID))
	if err != nil {
		return entities.Report{}, err
	}
	// Reporters may read their own case; everyone else needs review rights.
	if !allowed && !strings.EqualFold(rep.ReporterID, strings.TrimSpace(actorID)) {
		return entities.Report{}, domainerrors.ErrForbidden
	}
	return rep, nil
}

func (s Service) ListReports(ctx context.Context, actorID string, statusRaw string, limit int, offset int) ([]entities.Report, error) {
	allowed, err := s.Capabilities.CanReview(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domainerrors.ErrForbidden
	}
	filter := ports.ListFilter{Limit: limit, Offset: offset}
	if strings.TrimSpace(statusRaw) != "" {
		status, ok := entities.ParseStatus(statusRaw)
		if !ok {
			return nil, domainerrors.ErrInvalidRequest
		}
		filter.Status = status
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListReports(ctx, filter)
}

func (s Service) reportEvent(eventType string, rep entities.Report) (*outbox.Message, error) {
	payload := map[string]string{
		"report_id":   rep.ReportID,
		"reporter_id": rep.ReporterID,
		"target_type": string(rep.TargetType),
		"target_id":   rep.TargetID,
		"reason":      rep.Reason,
	}
	message, err := outbox.FromEnvelope("moderation-safety.reports",
		events.NewEnvelope(eventType, sourceService, "report", rep.ReportID, payload))
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func parseDecision(raw string) (ports.Decision, bool) {
	switch ports.Decision(strings.ToUpper(strings.TrimSpace(raw))) {
	case ports.DecisionApprove:
		return ports.DecisionApprove, true
	case ports.DecisionReject:
		return ports.DecisionReject, true
	default:
		return "", false
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
