package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/community-content/content-service/domain/entities"
	domainerrors "agora/contexts/community-content/content-service/domain/errors"
	"agora/contexts/community-content/content-service/ports"

	"github.com/google/uuid"
)

// Store backs the content service in tests and local development. It also
// carries small actor and like-ledger projections so a single store can stand
// in for every port the service needs.
type Store struct {
	mu       sync.RWMutex
	contents map[string]entities.Content
	actors   map[string]actorRow
	likes    map[string]map[string]struct{} // content id -> actor ids
}

type actorRow struct {
	ActorID   string
	Username  string
	Staff     bool
	Suspended bool
}

func NewStore() *Store {
	return &Store{
		contents: map[string]entities.Content{},
		actors: map[string]actorRow{
			"user-1": {ActorID: "user-1", Username: "ada"},
			"user-2": {ActorID: "user-2", Username: "brook"},
			"mod-1":  {ActorID: "mod-1", Username: "casey", Staff: true},
		},
		likes: map[string]map[string]struct{}{},
	}
}

func (s *Store) InsertPost(ctx context.Context, post entities.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[post.ContentID] = post
	return nil
}

func (s *Store) InsertComment(ctx context.Context, comment entities.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.contents[comment.PostID]
	if !ok {
		return domainerrors.ErrContentNotFound
	}
	// Insert and counter bump happen inside one critical section, matching the
	// single-transaction guarantee of the SQL adapter.
	s.contents[comment.ContentID] = comment
	post.CommentCount++
	post.UpdatedAt = comment.CreatedAt
	s.contents[post.ContentID] = post
	return nil
}

func (s *Store) GetContent(ctx context.Context, contentID string) (entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[strings.TrimSpace(contentID)]
	if !ok {
		return entities.Content{}, domainerrors.ErrContentNotFound
	}
	return content, nil
}

func (s *Store) UpdateText(ctx context.Context, contentID string, title string, body string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.contents[strings.TrimSpace(contentID)]
	if !ok {
		return domainerrors.ErrContentNotFound
	}
	content.Title = title
	content.Body = body
	content.UpdatedAt = now.UTC()
	s.contents[content.ContentID] = content
	return nil
}

func (s *Store) SetDeleted(ctx context.Context, contentID string, deleted bool, now time.Time) (bool, entities.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.contents[strings.TrimSpace(contentID)]
	if !ok {
		return false, entities.Content{}, domainerrors.ErrContentNotFound
	}
	if content.Deleted == deleted {
		return false, content, nil
	}
	now = now.UTC()
	content.Deleted = deleted
	content.UpdatedAt = now
	if deleted {
		content.DeletedAt = &now
	} else {
		content.DeletedAt = nil
	}
	s.contents[content.ContentID] = content

	if content.Kind == entities.KindComment {
		if post, ok := s.contents[content.PostID]; ok {
			if deleted {
				if post.CommentCount > 0 {
					post.CommentCount--
				}
			} else {
				post.CommentCount++
			}
			post.UpdatedAt = now
			s.contents[post.ContentID] = post
		}
	}
	return true, content, nil
}

func (s *Store) ListPosts(ctx context.Context, limit int, offset int) ([]entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Content, 0, len(s.contents))
	for _, content := range s.contents {
		if content.IsPost() && !content.Deleted {
			items = append(items, content)
		}
	}
	sortNewestFirst(items)
	return page(items, limit, offset), nil
}

func (s *Store) ListPostComments(ctx context.Context, postID string, limit int, offset int) ([]entities.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.contents[strings.TrimSpace(postID)]
	if !ok || post.Deleted {
		return []entities.Content{}, nil
	}
	items := make([]entities.Content, 0)
	for _, content := range s.contents {
		if content.Kind == entities.KindComment && content.PostID == post.ContentID && !content.Deleted {
			items = append(items, content)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return page(items, limit, offset), nil
}

func (s *Store) CountLiveComments(ctx context.Context, postID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, content := range s.contents {
		if content.Kind == entities.KindComment && content.PostID == strings.TrimSpace(postID) && !content.Deleted {
			count++
		}
	}
	return count, nil
}

func (s *Store) SetCounters(ctx context.Context, postID string, likeCount int, commentCount int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.contents[strings.TrimSpace(postID)]
	if !ok {
		return domainerrors.ErrContentNotFound
	}
	post.LikeCount = likeCount
	post.CommentCount = commentCount
	post.UpdatedAt = now.UTC()
	s.contents[post.ContentID] = post
	return nil
}

func (s *Store) ListRecentPostIDs(ctx context.Context, since time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Content, 0)
	for _, content := range s.contents {
		if content.IsPost() && content.UpdatedAt.After(since) {
			items = append(items, content)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.Before(items[j].UpdatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	ids := make([]string, 0, len(items))
	for _, content := range items {
		ids = append(ids, content.ContentID)
	}
	return ids, nil
}

func (s *Store) ResolveActive(ctx context.Context, actorID string) (ports.ActorInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actors[strings.TrimSpace(actorID)]
	if !ok {
		return ports.ActorInfo{}, domainerrors.ErrForbidden
	}
	if actor.Suspended {
		return ports.ActorInfo{}, domainerrors.ErrForbidden
	}
	return ports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

func (s *Store) CanModerate(ctx context.Context, actorID string, contentAuthorID string) (bool, error) {
	if _, err := s.ResolveActive(ctx, actorID); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor := s.actors[strings.TrimSpace(actorID)]
	if actor.Staff {
		return true, nil
	}
	return strings.EqualFold(strings.TrimSpace(actorID), strings.TrimSpace(contentAuthorID)), nil
}

func (s *Store) IsStaff(ctx context.Context, actorID string) (bool, error) {
	if _, err := s.ResolveActive(ctx, actorID); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actors[strings.TrimSpace(actorID)].Staff, nil
}

func (s *Store) CountLikes(ctx context.Context, contentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.likes[strings.TrimSpace(contentID)]), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SeedLike records a live like edge in the ledger projection. Test helper.
func (s *Store) SeedLike(contentID string, actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likes[contentID] == nil {
		s.likes[contentID] = map[string]struct{}{}
	}
	s.likes[contentID][actorID] = struct{}{}
}

// CorruptLikeCount overwrites the cached counter without touching the ledger
// projection, simulating drift for reconciliation tests.
func (s *Store) CorruptLikeCount(contentID string, likeCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := s.contents[contentID]; ok {
		content.LikeCount = likeCount
		s.contents[contentID] = content
	}
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

func sortNewestFirst(items []entities.Content) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func page(items []entities.Content, limit int, offset int) []entities.Content {
	if offset >= len(items) {
		return []entities.Content{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Content(nil), items[offset:end]...)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Capabilities = (*Store)(nil)
var _ ports.LikeLedger = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
