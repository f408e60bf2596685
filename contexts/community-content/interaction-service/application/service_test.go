package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"agora/contexts/community-content/interaction-service/adapters/memory"
	domainerrors "agora/contexts/community-content/interaction-service/domain/errors"
	"agora/internal/shared/events"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (n *recordingNotifier) NotifyLike(_ context.Context, recipientID string, contentID string, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("notification channel down")
	}
	n.calls = append(n.calls, recipientID+"|"+contentID)
	return nil
}

func newService(store *memory.Store, notifier *recordingNotifier) Service {
	service := Service{
		Repo:   store,
		Actors: store,
		Clock:  store,
		IDGen:  store,
	}
	if notifier != nil {
		service.Notifier = notifier
	}
	return service
}

func TestToggleCreatesAndRemovesLikeEdge(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-2"})
	service := newService(store, nil)

	first, err := service.Toggle(context.Background(), "user-1", "post-1", "like")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !first.Active || first.Count != 1 {
		t.Fatalf("expected active edge with count 1, got active=%v count=%d", first.Active, first.Count)
	}
	if store.LikeCount("post-1") != 1 {
		t.Fatalf("expected cached like count 1, got %d", store.LikeCount("post-1"))
	}

	second, err := service.Toggle(context.Background(), "user-1", "post-1", "like")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if second.Active || second.Count != 0 {
		t.Fatalf("expected removed edge with count 0, got active=%v count=%d", second.Active, second.Count)
	}
	if store.LikeCount("post-1") != 0 {
		t.Fatalf("expected cached like count 0 after flip back, got %d", store.LikeCount("post-1"))
	}
}

func TestToggleEmitsOutboxEventPerFlip(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-2"})
	service := newService(store, nil)

	if _, err := service.Toggle(context.Background(), "user-1", "post-1", "like"); err != nil {
		t.Fatalf("like toggle failed: %v", err)
	}
	if _, err := service.Toggle(context.Background(), "user-1", "post-1", "like"); err != nil {
		t.Fatalf("unlike toggle failed: %v", err)
	}

	messages := store.Outbox().All()
	if len(messages) != 2 {
		t.Fatalf("expected 2 outbox messages, got %d", len(messages))
	}
	if messages[0].EventType != events.TypeContentLiked {
		t.Fatalf("expected first event %s, got %s", events.TypeContentLiked, messages[0].EventType)
	}
	if messages[1].EventType != events.TypeContentUnliked {
		t.Fatalf("expected second event %s, got %s", events.TypeContentUnliked, messages[1].EventType)
	}
}

func TestToggleBookmarkRequiresPostTarget(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "comment-1", Kind: "comment", AuthorID: "user-2"})
	service := newService(store, nil)

	_, err := service.Toggle(context.Background(), "user-1", "comment-1", "bookmark")
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bookmark on comment, got %v", err)
	}
}

func TestToggleRejectsUnknownContentAndSuspendedActor(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-2"})
	service := newService(store, nil)

	if _, err := service.Toggle(context.Background(), "user-1", "missing", "like"); !errors.Is(err, domainerrors.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}

	store.SuspendActor("user-1")
	if _, err := service.Toggle(context.Background(), "user-1", "post-1", "like"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for suspended actor, got %v", err)
	}
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-1"})
	notifier := &recordingNotifier{}
	service := newService(store, notifier)

	if _, err := service.Toggle(context.Background(), "user-1", "post-1", "like"); err != nil {
		t.Fatalf("self like failed: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notification for self-like, got %d", len(notifier.calls))
	}

	if _, err := service.Toggle(context.Background(), "user-2", "post-1", "like"); err != nil {
		t.Fatalf("like by another actor failed: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected one notification for foreign like, got %d", len(notifier.calls))
	}
}

func TestToggleAbsorbsNotifierFailure(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-2"})
	service := newService(store, &recordingNotifier{fail: true})

	result, err := service.Toggle(context.Background(), "user-1", "post-1", "like")
	if err != nil {
		t.Fatalf("toggle must not fail when the notifier does: %v", err)
	}
	if !result.Active {
		t.Fatalf("expected edge to be created despite notifier failure")
	}
}

func TestConcurrentTogglesKeepCounterConsistent(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "mod-1"})
	service := newService(store, nil)

	var wg sync.WaitGroup
	for _, actorID := range []string{"user-1", "user-2"} {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func(actor string) {
				defer wg.Done()
				if _, err := service.Toggle(context.Background(), actor, "post-1", "like"); err != nil {
					t.Errorf("toggle failed: %v", err)
				}
			}(actorID)
		}
	}
	wg.Wait()

	live, err := service.CountLikes(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("count likes failed: %v", err)
	}
	if cached := store.LikeCount("post-1"); cached != live {
		t.Fatalf("cached counter %d diverged from live edge count %d", cached, live)
	}
	// 25 toggles per actor is odd, so both edges must end up present.
	if live != 2 {
		t.Fatalf("expected 2 live edges after odd toggle counts, got %d", live)
	}
}

func TestBookmarksListedNewestFirstAndScopedToActor(t *testing.T) {
	store := memory.NewStore()
	store.SeedContent(memory.ContentRow{ContentID: "post-1", Kind: "post", AuthorID: "user-2"})
	store.SeedContent(memory.ContentRow{ContentID: "post-2", Kind: "post", AuthorID: "user-2"})
	service := newService(store, nil)

	if _, err := service.Toggle(context.Background(), "user-1", "post-1", "bookmark"); err != nil {
		t.Fatalf("bookmark post-1 failed: %v", err)
	}
	if _, err := service.Toggle(context.Background(), "user-2", "post-2", "bookmark"); err != nil {
		t.Fatalf("bookmark by other actor failed: %v", err)
	}

	edges, err := service.ListBookmarks(context.Background(), "user-1", 0, 0)
	if err != nil {
		t.Fatalf("list bookmarks failed: %v", err)
	}
	if len(edges) != 1 || edges[0].ContentID != "post-1" {
		t.Fatalf("expected only user-1's bookmark of post-1, got %+v", edges)
	}
}
