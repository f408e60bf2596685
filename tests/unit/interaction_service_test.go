package unit

import (
	"context"
	"testing"

	interaction "agora/contexts/community-content/interaction-service"
	"agora/contexts/community-content/interaction-service/adapters/memory"
	httptransport "agora/contexts/community-content/interaction-service/transport/http"
)

func TestLikeToggleOnAndOff(t *testing.T) {
	module := interaction.NewInMemoryModule(nil, nil)
	module.Store.SeedContent(memory.ContentRow{
		ContentID: "post-1",
		Kind:      "post",
		AuthorID:  "user-2",
	})

	on, err := module.Handler.ToggleHandler(context.Background(), "user-1", "post-1", httptransport.ToggleRequest{Kind: "like"})
	if err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !on.Active || on.Count != 1 {
		t.Fatalf("expected active=true count=1, got active=%v count=%d", on.Active, on.Count)
	}

	off, err := module.Handler.ToggleHandler(context.Background(), "user-1", "post-1", httptransport.ToggleRequest{Kind: "like"})
	if err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if off.Active || off.Count != 0 {
		t.Fatalf("expected active=false count=0, got active=%v count=%d", off.Active, off.Count)
	}
	if module.Store.LikeCount("post-1") != 0 {
		t.Fatalf("expected cached counter back at 0, got %d", module.Store.LikeCount("post-1"))
	}
}

func TestBookmarkToggleAndListing(t *testing.T) {
	module := interaction.NewInMemoryModule(nil, nil)
	module.Store.SeedContent(memory.ContentRow{
		ContentID: "post-1",
		Kind:      "post",
		AuthorID:  "user-2",
	})

	if _, err := module.Handler.ToggleHandler(context.Background(), "user-1", "post-1", httptransport.ToggleRequest{Kind: "bookmark"}); err != nil {
		t.Fatalf("bookmark toggle failed: %v", err)
	}

	list, err := module.Handler.ListBookmarksHandler(context.Background(), "user-1", "", "")
	if err != nil {
		t.Fatalf("list bookmarks failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ContentID != "post-1" {
		t.Fatalf("expected one bookmark on post-1, got %+v", list.Items)
	}

	if _, err := module.Handler.ToggleHandler(context.Background(), "user-1", "post-1", httptransport.ToggleRequest{Kind: "bookmark"}); err != nil {
		t.Fatalf("bookmark untoggle failed: %v", err)
	}
	list, err = module.Handler.ListBookmarksHandler(context.Background(), "user-1", "", "")
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(list.Items) != 0 {
		t.Fatalf("expected empty bookmark list after untoggle, got %+v", list.Items)
	}
}
