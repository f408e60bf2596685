package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	content "agora/contexts/community-content/content-service"
	interaction "agora/contexts/community-content/interaction-service"
	notification "agora/contexts/community-content/notification-service"
	report "agora/contexts/moderation-safety/report-service"
	_ "agora/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	content       content.Module
	interactions  interaction.Module
	reports       report.Module
	notifications notification.Module
}

func New(
	contentModule content.Module,
	interactionModule interaction.Module,
	reportModule report.Module,
	notificationModule notification.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		content:       contentModule,
		interactions:  interactionModule,
		reports:       reportModule,
		notifications: notificationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/content/v1/posts", s.handleCreatePost)
	s.mux.HandleFunc("GET /api/content/v1/posts", s.handleListPosts)
	s.mux.HandleFunc("GET /api/content/v1/posts/{post_id}", s.handleGetPost)
	s.mux.HandleFunc("POST /api/content/v1/posts/{post_id}/comments", s.handleCreateComment)
	s.mux.HandleFunc("GET /api/content/v1/posts/{post_id}/comments", s.handleListPostComments)
	s.mux.HandleFunc("POST /api/content/v1/posts/{post_id}/recount", s.handleRecountPost)
	s.mux.HandleFunc("PATCH /api/content/v1/content/{content_id}", s.handleEditContent)
	s.mux.HandleFunc("DELETE /api/content/v1/content/{content_id}", s.handleDeleteContent)
	s.mux.HandleFunc("POST /api/content/v1/content/{content_id}/restore", s.handleRestoreContent)
	s.mux.HandleFunc("POST /api/content/v1/content/bulk-delete", s.handleBulkSetDeleted)

	s.mux.HandleFunc("POST /api/interactions/v1/content/{content_id}/toggle", s.handleToggle)
	s.mux.HandleFunc("GET /api/interactions/v1/bookmarks", s.handleListBookmarks)

	s.mux.HandleFunc("POST /api/reports/v1/reports", s.handleSubmitReport)
	s.mux.HandleFunc("GET /api/reports/v1/reports", s.handleListReports)
	s.mux.HandleFunc("GET /api/reports/v1/reports/{report_id}", s.handleGetReport)
	s.mux.HandleFunc("POST /api/reports/v1/reports/{report_id}/review", s.handleReviewReport)
	s.mux.HandleFunc("DELETE /api/reports/v1/reports/{report_id}", s.handleWithdrawReport)

	s.mux.HandleFunc("GET /api/notifications/v1/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /api/notifications/v1/notifications/{notification_id}/read", s.handleMarkNotificationRead)
	s.mux.HandleFunc("POST /api/notifications/v1/notifications/read-all", s.handleMarkAllNotificationsRead)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeJSON decodes the request body, reporting failures through the
// caller's error writer so each context keeps its own error envelope.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any, writeError func(http.ResponseWriter, int, string, string)) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
