package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"agora/contexts/moderation-safety/report-service/application"
	"agora/contexts/moderation-safety/report-service/domain/entities"
	httptransport "agora/contexts/moderation-safety/report-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SubmitHandler(ctx context.Context, reporterID string, req httptransport.SubmitReportRequest) (httptransport.ReportResponse, error) {
	rep, err := h.Service.Submit(ctx, reporterID, req.TargetType, req.TargetID, req.Reason, req.Details)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}
	return reportResponse(rep), nil
}

func (h Handler) ReviewHandler(ctx context.Context, reviewerID string, reportID string, req httptransport.ReviewReportRequest) (httptransport.ReportResponse, error) {
	rep, err := h.Service.Review(ctx, reviewerID, reportID, req.Decision, req.Note)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}
	return reportResponse(rep), nil
}

func (h Handler) WithdrawHandler(ctx context.Context, reporterID string, reportID string) (httptransport.StatusResponse, error) {
	if err := h.Service.Withdraw(ctx, reporterID, reportID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{
		Status:    "success",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) GetReportHandler(ctx context.Context, actorID string, reportID string) (httptransport.ReportResponse, error) {
	rep, err := h.Service.GetReport(ctx, actorID, reportID)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}
	return reportResponse(rep), nil
}

func (h Handler) ListReportsHandler(ctx context.Context, actorID string, statusRaw string, limitRaw string, offsetRaw string) (httptransport.ReportListResponse, error) {
	limit := 0
	offset := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		offset = parsed
	}
	items, err := h.Service.ListReports(ctx, actorID, statusRaw, limit, offset)
	if err != nil {
		return httptransport.ReportListResponse{}, err
	}
	resp := httptransport.ReportListResponse{
		Status:    "success",
		Items:     make([]httptransport.ReportView, 0, len(items)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapReportView(item))
	}
	return resp, nil
}

func reportResponse(rep entities.Report) httptransport.ReportResponse {
	return httptransport.ReportResponse{
		Status:    "success",
		Report:    mapReportView(rep),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func mapReportView(rep entities.Report) httptransport.ReportView {
	view := httptransport.ReportView{
		ReportID:        rep.ReportID,
		ReporterID:      rep.ReporterID,
		TargetType:      string(rep.TargetType),
		TargetID:        rep.TargetID,
		Reason:          rep.Reason,
		Details:         rep.Details,
		Status:          string(rep.Status),
		ReviewerID:      rep.ReviewerID,
		ReviewNote:      rep.ReviewNote,
		OriginalTitle:   rep.OriginalTitle,
		OriginalContent: rep.OriginalContent,
		OriginalAuthor:  rep.OriginalAuthor,
		CreatedAt:       rep.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rep.ReviewedAt != nil {
		view.ReviewedAt = rep.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return view
}
