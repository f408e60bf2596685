package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"agora/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "agora/contexts/identity-access/authorization-service/domain/errors"
	"agora/contexts/identity-access/authorization-service/ports"
)

type Store struct {
	mu     sync.RWMutex
	actors map[string]entities.Actor
}

func NewStore() *Store {
	now := time.Now().UTC()
	return &Store{
		actors: map[string]entities.Actor{
			"user-1": {ActorID: "user-1", Username: "ada", Role: entities.RoleMember, CreatedAt: now},
			"user-2": {ActorID: "user-2", Username: "brook", Role: entities.RoleMember, CreatedAt: now},
			"mod-1":  {ActorID: "mod-1", Username: "casey", Role: entities.RoleModerator, CreatedAt: now},
			"admin-1": {
				ActorID: "admin-1", Username: "root", Role: entities.RoleAdmin, CreatedAt: now,
			},
		},
	}
}

func (s *Store) GetActor(ctx context.Context, actorID string) (entities.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actors[strings.TrimSpace(actorID)]
	if !ok {
		return entities.Actor{}, domainerrors.ErrActorNotFound
	}
	return actor, nil
}

// PutActor seeds or replaces an actor row. Test helper.
func (s *Store) PutActor(actor entities.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[actor.ActorID] = actor
}

// Suspend flips the suspension flag for an existing actor. Test helper.
func (s *Store) Suspend(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if actor, ok := s.actors[actorID]; ok {
		actor.Suspended = true
		s.actors[actorID] = actor
	}
}

var _ ports.ActorRepository = (*Store)(nil)
