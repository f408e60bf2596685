package application

import (
	"context"
	"log/slog"
	"strings"

	"agora/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "agora/contexts/identity-access/authorization-service/domain/errors"
	"agora/contexts/identity-access/authorization-service/ports"
)

type Service struct {
	Actors ports.ActorRepository
	Logger *slog.Logger
}

// ResolveActiveActor returns the actor or ErrForbidden when the account is
// suspended. Every mutating operation in the platform goes through this check.
func (s Service) ResolveActiveActor(ctx context.Context, actorID string) (entities.Actor, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return entities.Actor{}, domainerrors.ErrInvalidRequest
	}
	actor, err := s.Actors.GetActor(ctx, actorID)
	if err != nil {
		return entities.Actor{}, err
	}
	if actor.Suspended {
		resolveLogger(s.Logger).Warn("suspended actor rejected",
			"event", "authz_suspended_actor_rejected",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"actor_id", actorID,
		)
		return entities.Actor{}, domainerrors.ErrForbidden
	}
	return actor, nil
}

// CanReview reports whether the actor may review moderation reports.
func (s Service) CanReview(ctx context.Context, actorID string) (bool, error) {
	actor, err := s.ResolveActiveActor(ctx, actorID)
	if err != nil {
		return false, err
	}
	return actor.IsStaff(), nil
}

// CanModerate reports whether the actor may soft-delete or restore the given
// content: staff always, the owner only for their own rows.
func (s Service) CanModerate(ctx context.Context, actorID string, contentAuthorID string) (bool, error) {
	actor, err := s.ResolveActiveActor(ctx, actorID)
	if err != nil {
		return false, err
	}
	if actor.IsStaff() {
		return true, nil
	}
	return strings.EqualFold(strings.TrimSpace(actorID), strings.TrimSpace(contentAuthorID)), nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
