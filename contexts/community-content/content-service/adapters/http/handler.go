package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"agora/contexts/community-content/content-service/application"
	"agora/contexts/community-content/content-service/domain/entities"
	httptransport "agora/contexts/community-content/content-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreatePostHandler(ctx context.Context, actorID string, req httptransport.CreatePostRequest) (httptransport.ContentResponse, error) {
	post, err := h.Service.CreatePost(ctx, actorID, req.Title, req.Body)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return contentResponse(post), nil
}

func (h Handler) CreateCommentHandler(ctx context.Context, actorID string, postID string, req httptransport.CreateCommentRequest) (httptransport.ContentResponse, error) {
	comment, err := h.Service.CreateComment(ctx, actorID, postID, req.ParentCommentID, req.Body)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return contentResponse(comment), nil
}

func (h Handler) EditContentHandler(ctx context.Context, actorID string, contentID string, req httptransport.EditContentRequest) (httptransport.ContentResponse, error) {
	content, err := h.Service.EditContent(ctx, actorID, contentID, req.Title, req.Body)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return contentResponse(content), nil
}

func (h Handler) DeleteContentHandler(ctx context.Context, actorID string, contentID string) (httptransport.StatusResponse, error) {
	if err := h.Service.SoftDelete(ctx, actorID, contentID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return statusResponse(), nil
}

func (h Handler) RestoreContentHandler(ctx context.Context, actorID string, contentID string) (httptransport.StatusResponse, error) {
	if err := h.Service.Restore(ctx, actorID, contentID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return statusResponse(), nil
}

func (h Handler) BulkSetDeletedHandler(ctx context.Context, actorID string, req httptransport.BulkSetDeletedRequest) (httptransport.BulkSetDeletedResponse, error) {
	result, err := h.Service.BulkSetDeleted(ctx, actorID, req.ContentIDs, req.Deleted)
	if err != nil {
		return httptransport.BulkSetDeletedResponse{}, err
	}
	return httptransport.BulkSetDeletedResponse{
		Status:    "success",
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) GetPostHandler(ctx context.Context, postID string) (httptransport.ContentResponse, error) {
	post, err := h.Service.GetPost(ctx, postID)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return contentResponse(post), nil
}

func (h Handler) ListPostsHandler(ctx context.Context, limitRaw string, offsetRaw string) (httptransport.ContentListResponse, error) {
	limit, offset := parsePage(limitRaw, offsetRaw)
	items, err := h.Service.ListPosts(ctx, limit, offset)
	if err != nil {
		return httptransport.ContentListResponse{}, err
	}
	return contentListResponse(items), nil
}

func (h Handler) ListPostCommentsHandler(ctx context.Context, postID string, limitRaw string, offsetRaw string) (httptransport.ContentListResponse, error) {
	limit, offset := parsePage(limitRaw, offsetRaw)
	items, err := h.Service.ListPostComments(ctx, postID, limit, offset)
	if err != nil {
		return httptransport.ContentListResponse{}, err
	}
	return contentListResponse(items), nil
}

func (h Handler) RecountPostHandler(ctx context.Context, actorID string, postID string) (httptransport.RecountResponse, error) {
	result, err := h.Service.RecountPostAs(ctx, actorID, postID)
	if err != nil {
		return httptransport.RecountResponse{}, err
	}
	return httptransport.RecountResponse{
		Status:       "success",
		PostID:       result.PostID,
		LikeCount:    result.LikeCount,
		CommentCount: result.CommentCount,
		Repaired:     result.Repaired,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func parsePage(limitRaw string, offsetRaw string) (int, int) {
	limit := 0
	offset := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		offset = parsed
	}
	return limit, offset
}

func contentResponse(content entities.Content) httptransport.ContentResponse {
	return httptransport.ContentResponse{
		Status:    "success",
		Content:   mapContentView(content),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func contentListResponse(items []entities.Content) httptransport.ContentListResponse {
	resp := httptransport.ContentListResponse{
		Status:    "success",
		Items:     make([]httptransport.ContentView, 0, len(items)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapContentView(item))
	}
	return resp
}

func statusResponse() httptransport.StatusResponse {
	return httptransport.StatusResponse{
		Status:    "success",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func mapContentView(content entities.Content) httptransport.ContentView {
	return httptransport.ContentView{
		ContentID:       content.ContentID,
		Kind:            string(content.Kind),
		AuthorID:        content.AuthorID,
		PostID:          content.PostID,
		ParentCommentID: content.ParentCommentID,
		Title:           content.Title,
		Body:            content.Body,
		LikeCount:       content.LikeCount,
		CommentCount:    content.CommentCount,
		CreatedAt:       content.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       content.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
