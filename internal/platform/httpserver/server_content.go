package httpserver

import (
	"errors"
	"net/http"
	"strings"

	contenterrors "agora/contexts/community-content/content-service/domain/errors"
	contenthttp "agora/contexts/community-content/content-service/transport/http"
)

func writeContentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, contenthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeContentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contenterrors.ErrInvalidRequest):
		writeContentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, contenterrors.ErrContentNotFound):
		writeContentError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, contenterrors.ErrForbidden):
		writeContentError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, contenterrors.ErrInvariantViolation):
		writeContentError(w, http.StatusConflict, "counter_mismatch", err.Error())
	default:
		writeContentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireContentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeContentError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	var req contenthttp.CreatePostRequest
	if !s.decodeJSON(w, r, &req, writeContentError) {
		return
	}
	resp, err := s.content.Handler.CreatePostHandler(r.Context(), actorID, req)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.content.Handler.ListPostsHandler(
		r.Context(),
		r.URL.Query().Get("limit"),
		r.URL.Query().Get("offset"),
	)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	resp, err := s.content.Handler.GetPostHandler(r.Context(), r.PathValue("post_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	var req contenthttp.CreateCommentRequest
	if !s.decodeJSON(w, r, &req, writeContentError) {
		return
	}
	resp, err := s.content.Handler.CreateCommentHandler(r.Context(), actorID, r.PathValue("post_id"), req)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPostComments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.content.Handler.ListPostCommentsHandler(
		r.Context(),
		r.PathValue("post_id"),
		r.URL.Query().Get("limit"),
		r.URL.Query().Get("offset"),
	)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecountPost(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	resp, err := s.content.Handler.RecountPostHandler(r.Context(), actorID, r.PathValue("post_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	var req contenthttp.EditContentRequest
	if !s.decodeJSON(w, r, &req, writeContentError) {
		return
	}
	resp, err := s.content.Handler.EditContentHandler(r.Context(), actorID, r.PathValue("content_id"), req)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	resp, err := s.content.Handler.DeleteContentHandler(r.Context(), actorID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRestoreContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	resp, err := s.content.Handler.RestoreContentHandler(r.Context(), actorID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkSetDeleted(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireContentUser(w, r)
	if !ok {
		return
	}
	var req contenthttp.BulkSetDeletedRequest
	if !s.decodeJSON(w, r, &req, writeContentError) {
		return
	}
	resp, err := s.content.Handler.BulkSetDeletedHandler(r.Context(), actorID, req)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
