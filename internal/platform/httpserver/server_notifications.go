package httpserver

import (
	"errors"
	"net/http"
	"strings"

	notificationerrors "agora/contexts/community-content/notification-service/domain/errors"
	notificationhttp "agora/contexts/community-content/notification-service/transport/http"
)

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidRequest):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrForbidden):
		writeNotificationError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireNotificationUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	recipientID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if recipientID == "" {
		writeNotificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return recipientID, true
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.ListHandler(
		r.Context(),
		recipientID,
		r.URL.Query().Get("unread_only"),
		r.URL.Query().Get("limit"),
		r.URL.Query().Get("offset"),
	)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), recipientID, r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkAllReadHandler(r.Context(), recipientID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
