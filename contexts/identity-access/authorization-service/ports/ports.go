package ports

import (
	"context"

	"agora/contexts/identity-access/authorization-service/domain/entities"
)

type ActorRepository interface {
	GetActor(ctx context.Context, actorID string) (entities.Actor, error)
}
