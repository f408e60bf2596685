package httpserver

import (
	"errors"
	"net/http"
	"strings"

	interactionerrors "agora/contexts/community-content/interaction-service/domain/errors"
	interactionhttp "agora/contexts/community-content/interaction-service/transport/http"
)

func writeInteractionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, interactionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeInteractionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interactionerrors.ErrInvalidRequest):
		writeInteractionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, interactionerrors.ErrContentNotFound):
		writeInteractionError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, interactionerrors.ErrForbidden):
		writeInteractionError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeInteractionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireInteractionUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeInteractionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireInteractionUser(w, r)
	if !ok {
		return
	}
	var req interactionhttp.ToggleRequest
	if !s.decodeJSON(w, r, &req, writeInteractionError) {
		return
	}
	resp, err := s.interactions.Handler.ToggleHandler(r.Context(), actorID, r.PathValue("content_id"), req)
	if err != nil {
		writeInteractionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireInteractionUser(w, r)
	if !ok {
		return
	}
	resp, err := s.interactions.Handler.ListBookmarksHandler(
		r.Context(),
		actorID,
		r.URL.Query().Get("limit"),
		r.URL.Query().Get("offset"),
	)
	if err != nil {
		writeInteractionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
