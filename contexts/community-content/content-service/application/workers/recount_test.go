package workers

import (
	"context"
	"testing"
	"time"

	"agora/contexts/community-content/content-service/adapters/memory"
	"agora/contexts/community-content/content-service/application"
)

func TestReconcilerRepairsDriftedPosts(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{
		Repo:         store,
		Capabilities: store,
		Ledger:       store,
		Clock:        store,
		IDGen:        store,
	}

	clean, err := service.CreatePost(context.Background(), "user-1", "clean", "no drift here")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	drifted, err := service.CreatePost(context.Background(), "user-1", "drifted", "counter is wrong")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	store.SeedLike(drifted.ContentID, "user-2")
	store.CorruptLikeCount(drifted.ContentID, 7)

	reconciler := CounterReconciler{
		Repo:      store,
		Service:   service,
		Window:    time.Hour,
		BatchSize: 10,
	}
	repaired, err := reconciler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("expected exactly 1 repaired post, got %d", repaired)
	}

	refreshed, err := service.GetPost(context.Background(), drifted.ContentID)
	if err != nil {
		t.Fatalf("get post failed: %v", err)
	}
	if refreshed.LikeCount != 1 {
		t.Fatalf("expected repaired like count 1, got %d", refreshed.LikeCount)
	}
	untouched, err := service.GetPost(context.Background(), clean.ContentID)
	if err != nil {
		t.Fatalf("get post failed: %v", err)
	}
	if untouched.LikeCount != 0 {
		t.Fatalf("expected clean post untouched, got like count %d", untouched.LikeCount)
	}
}
