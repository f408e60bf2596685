package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/community-content/interaction-service/domain/entities"
	domainerrors "agora/contexts/community-content/interaction-service/domain/errors"
	"agora/contexts/community-content/interaction-service/ports"
	"agora/internal/shared/events"
	"agora/internal/shared/outbox"
)

const sourceService = "community-content/interaction-service"

type Service struct {
	Repo     ports.Repository
	Actors   ports.ActorDirectory
	Notifier ports.Notifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Toggle flips one ledger edge. A missing edge is created, an existing edge is
// removed; the cached counter moves with it in the same unit of work. Repeat
// calls are never an error.
func (s Service) Toggle(ctx context.Context, actorID string, contentID string, kindRaw string) (ports.ToggleResult, error) {
	contentID = strings.TrimSpace(contentID)
	kind, ok := entities.ParseEdgeKind(kindRaw)
	if contentID == "" || !ok {
		return ports.ToggleResult{}, domainerrors.ErrInvalidRequest
	}
	actor, err := s.Actors.ResolveActive(ctx, actorID)
	if err != nil {
		return ports.ToggleResult{}, err
	}
	content, err := s.Repo.GetContentInfo(ctx, contentID)
	if err != nil {
		return ports.ToggleResult{}, err
	}
	if kind == entities.KindBookmark && content.Kind != "post" {
		return ports.ToggleResult{}, domainerrors.ErrInvalidRequest
	}

	edgeID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.ToggleResult{}, err
	}
	cmd := ports.ToggleCommand{
		EdgeID:    edgeID,
		ActorID:   actor.ActorID,
		ContentID: content.ContentID,
		Kind:      kind,
		Now:       s.now(),
	}
	if kind == entities.KindLike {
		created, removed, err := s.likeEvents(actor.ActorID, content.ContentID)
		if err != nil {
			return ports.ToggleResult{}, err
		}
		cmd.CreatedEvent = created
		cmd.RemovedEvent = removed
	}

	result, err := s.Repo.Toggle(ctx, cmd)
	if err != nil {
		return ports.ToggleResult{}, err
	}
	resolveLogger(s.Logger).Info("edge toggled",
		"event", "interaction_edge_toggled",
		"module", sourceService,
		"layer", "application",
		"actor_id", actor.ActorID,
		"content_id", content.ContentID,
		"kind", string(kind),
		"active", result.Active,
		"count", result.Count,
	)

	if kind == entities.KindLike && result.Active {
		s.notifyLikeQuietly(ctx, content, actor)
	}
	return result, nil
}

func (s Service) ListBookmarks(ctx context.Context, actorID string, limit int, offset int) ([]entities.Edge, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	actor, err := s.Actors.ResolveActive(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListBookmarks(ctx, actor.ActorID, limit, offset)
}

func (s Service) HasEdge(ctx context.Context, actorID string, contentID string, kindRaw string) (bool, error) {
	kind, ok := entities.ParseEdgeKind(kindRaw)
	if !ok {
		return false, domainerrors.ErrInvalidRequest
	}
	return s.Repo.HasEdge(ctx, strings.TrimSpace(actorID), strings.TrimSpace(contentID), kind)
}

// CountLikes serves the content store's reconciliation job.
func (s Service) CountLikes(ctx context.Context, contentID string) (int, error) {
	return s.Repo.CountEdges(ctx, strings.TrimSpace(contentID), entities.KindLike)
}

func (s Service) likeEvents(actorID string, contentID string) (*outbox.Message, *outbox.Message, error) {
	payload := map[string]string{
		"actor_id":   actorID,
		"content_id": contentID,
	}
	created, err := outbox.FromEnvelope("community-content.interactions",
		events.NewEnvelope(events.TypeContentLiked, sourceService, "content", contentID, payload))
	if err != nil {
		return nil, nil, err
	}
	removed, err := outbox.FromEnvelope("community-content.interactions",
		events.NewEnvelope(events.TypeContentUnliked, sourceService, "content", contentID, payload))
	if err != nil {
		return nil, nil, err
	}
	return &created, &removed, nil
}

// notifyLikeQuietly suppresses self-likes and absorbs delivery failures. A
// like must never fail because the fan-out did.
func (s Service) notifyLikeQuietly(ctx context.Context, content ports.ContentInfo, actor ports.ActorInfo) {
	if s.Notifier == nil {
		return
	}
	if strings.EqualFold(content.AuthorID, actor.ActorID) {
		return
	}
	if err := s.Notifier.NotifyLike(ctx, content.AuthorID, content.ContentID, actor.Username); err != nil {
		resolveLogger(s.Logger).Warn("like notification failed, absorbed",
			"event", "interaction_notification_absorbed",
			"module", sourceService,
			"layer", "application",
			"recipient_id", content.AuthorID,
			"content_id", content.ContentID,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizePage(limit int, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		return 0, 0, domainerrors.ErrInvalidRequest
	}
	return limit, offset, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
