package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/community-content/interaction-service/domain/entities"
	domainerrors "agora/contexts/community-content/interaction-service/domain/errors"
	"agora/contexts/community-content/interaction-service/ports"
	"agora/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store backs the interaction service in tests and local development. It keeps
// its own content and actor projections plus an in-memory outbox so a single
// store serves every port the service needs.
type Store struct {
	mu       sync.Mutex
	edges    map[string]entities.Edge
	contents map[string]ContentRow
	actors   map[string]actorRow
	outbox   *outbox.MemoryStore
}

// ContentRow is the store's projection of the content table: just enough to
// validate targets and mirror the cached like counter.
type ContentRow struct {
	ContentID string
	Kind      string
	AuthorID  string
	Deleted   bool
	LikeCount int
}

type actorRow struct {
	ActorID   string
	Username  string
	Suspended bool
}

func NewStore() *Store {
	return &Store{
		edges:    map[string]entities.Edge{},
		contents: map[string]ContentRow{},
		actors: map[string]actorRow{
			"user-1": {ActorID: "user-1", Username: "ada"},
			"user-2": {ActorID: "user-2", Username: "brook"},
			"mod-1":  {ActorID: "mod-1", Username: "casey"},
		},
		outbox: outbox.NewMemoryStore(),
	}
}

func (s *Store) GetContentInfo(ctx context.Context, contentID string) (ports.ContentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.contents[strings.TrimSpace(contentID)]
	if !ok || row.Deleted {
		return ports.ContentInfo{}, domainerrors.ErrContentNotFound
	}
	return ports.ContentInfo{ContentID: row.ContentID, Kind: row.Kind, AuthorID: row.AuthorID}, nil
}

func (s *Store) Toggle(ctx context.Context, cmd ports.ToggleCommand) (ports.ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.contents[cmd.ContentID]
	if !ok || row.Deleted {
		return ports.ToggleResult{}, domainerrors.ErrContentNotFound
	}

	// Flip, counter move, and outbox append share one critical section,
	// matching the single-transaction guarantee of the SQL adapter.
	key := edgeKey(cmd.ActorID, cmd.ContentID, cmd.Kind)
	var event *outbox.Message
	result := ports.ToggleResult{}
	if _, exists := s.edges[key]; exists {
		delete(s.edges, key)
		if cmd.Kind == entities.KindLike && row.LikeCount > 0 {
			row.LikeCount--
		}
		event = cmd.RemovedEvent
	} else {
		s.edges[key] = entities.Edge{
			EdgeID:    cmd.EdgeID,
			ActorID:   cmd.ActorID,
			ContentID: cmd.ContentID,
			Kind:      cmd.Kind,
			CreatedAt: cmd.Now.UTC(),
		}
		if cmd.Kind == entities.KindLike {
			row.LikeCount++
		}
		result.Active = true
		event = cmd.CreatedEvent
	}
	s.contents[row.ContentID] = row
	result.Count = s.countEdgesLocked(cmd.ContentID, cmd.Kind)
	if event != nil {
		if err := s.outbox.Append(ctx, *event); err != nil {
			return ports.ToggleResult{}, err
		}
	}
	return result, nil
}

func (s *Store) HasEdge(ctx context.Context, actorID string, contentID string, kind entities.EdgeKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.edges[edgeKey(actorID, contentID, kind)]
	return ok, nil
}

func (s *Store) ListBookmarks(ctx context.Context, actorID string, limit int, offset int) ([]entities.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Edge, 0)
	for _, edge := range s.edges {
		if edge.Kind != entities.KindBookmark || !strings.EqualFold(edge.ActorID, actorID) {
			continue
		}
		if row, ok := s.contents[edge.ContentID]; !ok || row.Deleted {
			continue
		}
		items = append(items, edge)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if offset >= len(items) {
		return []entities.Edge{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Edge(nil), items[offset:end]...), nil
}

func (s *Store) CountEdges(ctx context.Context, contentID string, kind entities.EdgeKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countEdgesLocked(strings.TrimSpace(contentID), kind), nil
}

func (s *Store) ResolveActive(ctx context.Context, actorID string) (ports.ActorInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.actors[strings.TrimSpace(actorID)]
	if !ok || actor.Suspended {
		return ports.ActorInfo{}, domainerrors.ErrForbidden
	}
	return ports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Outbox exposes the in-memory outbox for relay wiring and tests.
func (s *Store) Outbox() *outbox.MemoryStore {
	return s.outbox
}

// SeedContent installs a row in the content projection. Test helper.
func (s *Store) SeedContent(row ContentRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[row.ContentID] = row
}

// LikeCount reads the cached counter from the content projection. Test helper.
func (s *Store) LikeCount(contentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contents[contentID].LikeCount
}

// SuspendActor flips the suspension flag in the actor projection. Test helper.
func (s *Store) SuspendActor(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if actor, ok := s.actors[actorID]; ok {
		actor.Suspended = true
		s.actors[actorID] = actor
	}
}

func (s *Store) countEdgesLocked(contentID string, kind entities.EdgeKind) int {
	count := 0
	for _, edge := range s.edges {
		if edge.ContentID == contentID && edge.Kind == kind {
			count++
		}
	}
	return count
}

func edgeKey(actorID string, contentID string, kind entities.EdgeKind) string {
	return strings.ToLower(strings.TrimSpace(actorID)) + "|" +
		strings.TrimSpace(contentID) + "|" +
		string(kind)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.ActorDirectory = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
