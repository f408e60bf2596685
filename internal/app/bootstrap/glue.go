package bootstrap

import (
	"context"
	"errors"

	contenterrors "agora/contexts/community-content/content-service/domain/errors"
	contentports "agora/contexts/community-content/content-service/ports"
	interactionapp "agora/contexts/community-content/interaction-service/application"
	interactionerrors "agora/contexts/community-content/interaction-service/domain/errors"
	interactionports "agora/contexts/community-content/interaction-service/ports"
	notificationapp "agora/contexts/community-content/notification-service/application"
	authzapp "agora/contexts/identity-access/authorization-service/application"
	authzerrors "agora/contexts/identity-access/authorization-service/domain/errors"
	reporterrors "agora/contexts/moderation-safety/report-service/domain/errors"
	reportports "agora/contexts/moderation-safety/report-service/ports"
)

// Cross-context glue. Each consuming service declares its own port and
// sentinel errors; these adapters translate the identity-access results into
// the consumer's vocabulary. An unknown actor is indistinguishable from a
// suspended one on purpose.

type contentCapabilities struct {
	authz authzapp.Service
}

func (c contentCapabilities) ResolveActive(ctx context.Context, actorID string) (contentports.ActorInfo, error) {
	actor, err := c.authz.ResolveActiveActor(ctx, actorID)
	if err != nil {
		return contentports.ActorInfo{}, mapAuthzError(err, contenterrors.ErrInvalidRequest, contenterrors.ErrForbidden)
	}
	return contentports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

func (c contentCapabilities) CanModerate(ctx context.Context, actorID string, contentAuthorID string) (bool, error) {
	allowed, err := c.authz.CanModerate(ctx, actorID, contentAuthorID)
	if err != nil {
		return false, mapAuthzError(err, contenterrors.ErrInvalidRequest, contenterrors.ErrForbidden)
	}
	return allowed, nil
}

func (c contentCapabilities) IsStaff(ctx context.Context, actorID string) (bool, error) {
	staff, err := c.authz.CanReview(ctx, actorID)
	if err != nil {
		return false, mapAuthzError(err, contenterrors.ErrInvalidRequest, contenterrors.ErrForbidden)
	}
	return staff, nil
}

type interactionActors struct {
	authz authzapp.Service
}

func (a interactionActors) ResolveActive(ctx context.Context, actorID string) (interactionports.ActorInfo, error) {
	actor, err := a.authz.ResolveActiveActor(ctx, actorID)
	if err != nil {
		return interactionports.ActorInfo{}, mapAuthzError(err, interactionerrors.ErrInvalidRequest, interactionerrors.ErrForbidden)
	}
	return interactionports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

type reportCapabilities struct {
	authz authzapp.Service
}

func (c reportCapabilities) ResolveActive(ctx context.Context, actorID string) (reportports.ActorInfo, error) {
	actor, err := c.authz.ResolveActiveActor(ctx, actorID)
	if err != nil {
		return reportports.ActorInfo{}, mapAuthzError(err, reporterrors.ErrInvalidRequest, reporterrors.ErrForbidden)
	}
	return reportports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

func (c reportCapabilities) CanReview(ctx context.Context, actorID string) (bool, error) {
	allowed, err := c.authz.CanReview(ctx, actorID)
	if err != nil {
		return false, mapAuthzError(err, reporterrors.ErrInvalidRequest, reporterrors.ErrForbidden)
	}
	return allowed, nil
}

type likeNotifier struct {
	notifications notificationapp.Service
}

func (n likeNotifier) NotifyLike(ctx context.Context, recipientID string, contentID string, actorUsername string) error {
	return n.notifications.NotifyLike(ctx, recipientID, contentID, actorUsername)
}

type threadNotifier struct {
	notifications notificationapp.Service
}

func (n threadNotifier) NotifyComment(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return n.notifications.NotifyComment(ctx, recipientID, contentID, commentID, actorUsername)
}

func (n threadNotifier) NotifyReply(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return n.notifications.NotifyReply(ctx, recipientID, contentID, commentID, actorUsername)
}

type interactionLedger struct {
	interactions interactionapp.Service
}

func (l interactionLedger) CountLikes(ctx context.Context, contentID string) (int, error) {
	return l.interactions.CountLikes(ctx, contentID)
}

func mapAuthzError(err error, invalid error, forbidden error) error {
	switch {
	case errors.Is(err, authzerrors.ErrInvalidRequest):
		return invalid
	case errors.Is(err, authzerrors.ErrActorNotFound), errors.Is(err, authzerrors.ErrForbidden):
		return forbidden
	default:
		return err
	}
}

var _ contentports.Capabilities = contentCapabilities{}
var _ contentports.Notifier = threadNotifier{}
var _ contentports.LikeLedger = interactionLedger{}
var _ interactionports.ActorDirectory = interactionActors{}
var _ interactionports.Notifier = likeNotifier{}
var _ reportports.Capabilities = reportCapabilities{}
