package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"agora/contexts/community-content/notification-service/application"
	"agora/contexts/community-content/notification-service/domain/entities"
	"agora/contexts/community-content/notification-service/ports"
	httptransport "agora/contexts/community-content/notification-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListHandler(ctx context.Context, recipientID string, unreadRaw string, limitRaw string, offsetRaw string) (httptransport.ListNotificationsResponse, error) {
	filter := ports.ListFilter{
		RecipientID: strings.TrimSpace(recipientID),
		UnreadOnly:  strings.EqualFold(strings.TrimSpace(unreadRaw), "true"),
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		filter.Limit = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil {
		filter.Offset = parsed
	}
	items, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.ListNotificationsResponse{}, err
	}
	resp := httptransport.ListNotificationsResponse{
		Status:    "success",
		Items:     make([]httptransport.NotificationView, 0, len(items)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapNotificationView(item))
	}
	return resp, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, recipientID string, notificationID string) (httptransport.MarkReadResponse, error) {
	if err := h.Service.MarkRead(ctx, recipientID, notificationID); err != nil {
		return httptransport.MarkReadResponse{}, err
	}
	return httptransport.MarkReadResponse{
		Status:    "success",
		Updated:   1,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) MarkAllReadHandler(ctx context.Context, recipientID string) (httptransport.MarkReadResponse, error) {
	updated, err := h.Service.MarkAllRead(ctx, recipientID)
	if err != nil {
		return httptransport.MarkReadResponse{}, err
	}
	return httptransport.MarkReadResponse{
		Status:    "success",
		Updated:   updated,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func mapNotificationView(notification entities.Notification) httptransport.NotificationView {
	view := httptransport.NotificationView{
		NotificationID: notification.NotificationID,
		Type:           string(notification.Type),
		ContentID:      notification.ContentID,
		CommentID:      notification.CommentID,
		ActorUsername:  notification.ActorUsername,
		Message:        notification.Message,
		IsRead:         notification.IsRead,
		CreatedAt:      notification.CreatedAt.UTC().Format(time.RFC3339),
	}
	if notification.ReadAt != nil {
		view.ReadAt = notification.ReadAt.UTC().Format(time.RFC3339)
	}
	return view
}
