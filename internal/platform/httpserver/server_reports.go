package httpserver

import (
	"errors"
	"net/http"
	"strings"

	reporterrors "agora/contexts/moderation-safety/report-service/domain/errors"
	reporthttp "agora/contexts/moderation-safety/report-service/transport/http"
)

func writeReportError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reporthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeReportDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reporterrors.ErrInvalidRequest):
		writeReportError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reporterrors.ErrReportNotFound):
		writeReportError(w, http.StatusNotFound, "report_not_found", err.Error())
	case errors.Is(err, reporterrors.ErrContentNotFound):
		writeReportError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, reporterrors.ErrDuplicateReport):
		writeReportError(w, http.StatusConflict, "duplicate_report", err.Error())
	case errors.Is(err, reporterrors.ErrAlreadyReviewed):
		writeReportError(w, http.StatusConflict, "already_reviewed", err.Error())
	case errors.Is(err, reporterrors.ErrForbidden):
		writeReportError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeReportError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireReportUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeReportError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	reporterID, ok := requireReportUser(w, r)
	if !ok {
		return
	}
	var req reporthttp.SubmitReportRequest
	if !s.decodeJSON(w, r, &req, writeReportError) {
		return
	}
	resp, err := s.reports.Handler.SubmitHandler(r.Context(), reporterID, req)
	if err != nil {
		writeReportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireReportUser(w, r)
	if !ok {
		return
	}
	resp, err := s.reports.Handler.ListReportsHandler(
		r.Context(),
		actorID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("limit"),
		r.URL.Query().Get("offset"),
	)
	if err != nil {
		writeReportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireReportUser(w, r)
	if !ok {
		return
	}
	resp, err := s.reports.Handler.GetReportHandler(r.Context(), actorID, r.PathValue("report_id"))
	if err != nil {
		writeReportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewReport(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireReportUser(w, r)
	if !ok {
		return
	}
	var req reporthttp.ReviewReportRequest
	if !s.decodeJSON(w, r, &req, writeReportError) {
		return
	}
	resp, err := s.reports.Handler.ReviewHandler(r.Context(), reviewerID, r.PathValue("report_id"), req)
	if err != nil {
		writeReportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawReport(w http.ResponseWriter, r *http.Request) {
	reporterID, ok := requireReportUser(w, r)
	if !ok {
		return
	}
	resp, err := s.reports.Handler.WithdrawHandler(r.Context(), reporterID, r.PathValue("report_id"))
	if err != nil {
		writeReportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
