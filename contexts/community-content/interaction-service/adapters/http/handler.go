package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"agora/contexts/community-content/interaction-service/application"
	httptransport "agora/contexts/community-content/interaction-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ToggleHandler(ctx context.Context, actorID string, contentID string, req httptransport.ToggleRequest) (httptransport.ToggleResponse, error) {
	result, err := h.Service.Toggle(ctx, actorID, contentID, req.Kind)
	if err != nil {
		return httptransport.ToggleResponse{}, err
	}
	return httptransport.ToggleResponse{
		Status:    "success",
		Active:    result.Active,
		Count:     result.Count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) ListBookmarksHandler(ctx context.Context, actorID string, limitRaw string, offsetRaw string) (httptransport.ListBookmarksResponse, error) {
	limit := 0
	offset := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		offset = parsed
	}
	edges, err := h.Service.ListBookmarks(ctx, actorID, limit, offset)
	if err != nil {
		return httptransport.ListBookmarksResponse{}, err
	}
	resp := httptransport.ListBookmarksResponse{
		Status:    "success",
		Items:     make([]httptransport.BookmarkView, 0, len(edges)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, edge := range edges {
		resp.Items = append(resp.Items, httptransport.BookmarkView{
			ContentID: edge.ContentID,
			CreatedAt: edge.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
