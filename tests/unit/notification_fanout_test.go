package unit

import (
	"context"
	"testing"

	content "agora/contexts/community-content/content-service"
	httptransport "agora/contexts/community-content/content-service/transport/http"
	interaction "agora/contexts/community-content/interaction-service"
	interactionmemory "agora/contexts/community-content/interaction-service/adapters/memory"
	interactionhttp "agora/contexts/community-content/interaction-service/transport/http"
	notification "agora/contexts/community-content/notification-service"
	notificationapp "agora/contexts/community-content/notification-service/application"
	notificationports "agora/contexts/community-content/notification-service/ports"
)

// fanoutBridge carries notifications across module boundaries the way the
// composition root does in production wiring.
type fanoutBridge struct {
	notifications notificationapp.Service
}

func (b fanoutBridge) NotifyLike(ctx context.Context, recipientID string, contentID string, actorUsername string) error {
	return b.notifications.NotifyLike(ctx, recipientID, contentID, actorUsername)
}

func (b fanoutBridge) NotifyComment(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return b.notifications.NotifyComment(ctx, recipientID, contentID, commentID, actorUsername)
}

func (b fanoutBridge) NotifyReply(ctx context.Context, recipientID string, contentID string, commentID string, actorUsername string) error {
	return b.notifications.NotifyReply(ctx, recipientID, contentID, commentID, actorUsername)
}

func TestCommentFanOutReachesPostOwner(t *testing.T) {
	notifications := notification.NewInMemoryModule(nil)
	contents := content.NewInMemoryModule(fanoutBridge{notifications: notifications.Service}, nil)

	post, err := contents.Handler.CreatePostHandler(context.Background(), "user-1", httptransport.CreatePostRequest{
		Title: "hello",
		Body:  "first post",
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	comment, err := contents.Handler.CreateCommentHandler(context.Background(), "user-2", post.Content.ContentID, httptransport.CreateCommentRequest{
		Body: "nice one",
	})
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if _, err := contents.Handler.CreateCommentHandler(context.Background(), "mod-1", post.Content.ContentID, httptransport.CreateCommentRequest{
		Body:            "agreed",
		ParentCommentID: comment.Content.ContentID,
	}); err != nil {
		t.Fatalf("create reply failed: %v", err)
	}

	ownerInbox, err := notifications.Handler.ListHandler(context.Background(), "user-1", "", "", "")
	if err != nil {
		t.Fatalf("list owner inbox failed: %v", err)
	}
	if len(ownerInbox.Items) != 1 || ownerInbox.Items[0].Type != "COMMENT" {
		t.Fatalf("expected one COMMENT notification for the post owner, got %+v", ownerInbox.Items)
	}

	commenterInbox, err := notifications.Handler.ListHandler(context.Background(), "user-2", "", "", "")
	if err != nil {
		t.Fatalf("list commenter inbox failed: %v", err)
	}
	if len(commenterInbox.Items) != 1 || commenterInbox.Items[0].Type != "REPLY" {
		t.Fatalf("expected one REPLY notification for the parent author, got %+v", commenterInbox.Items)
	}
}

func TestLikeFanOutIsDedupedAndSelfSuppressed(t *testing.T) {
	notifications := notification.NewInMemoryModule(nil)
	interactions := interaction.NewInMemoryModule(fanoutBridge{notifications: notifications.Service}, nil)
	interactions.Store.SeedContent(interactionmemory.ContentRow{
		ContentID: "post-1",
		Kind:      "post",
		AuthorID:  "user-1",
	})

	// The owner's own like must not reach their inbox.
	if _, err := interactions.Handler.ToggleHandler(context.Background(), "user-1", "post-1", interactionhttp.ToggleRequest{Kind: "like"}); err != nil {
		t.Fatalf("self like failed: %v", err)
	}
	// Two foreign likes collapse into a single LIKE row.
	for _, actorID := range []string{"user-2", "mod-1"} {
		if _, err := interactions.Handler.ToggleHandler(context.Background(), actorID, "post-1", interactionhttp.ToggleRequest{Kind: "like"}); err != nil {
			t.Fatalf("like by %s failed: %v", actorID, err)
		}
	}

	inbox, err := notifications.Service.List(context.Background(), notificationports.ListFilter{RecipientID: "user-1"})
	if err != nil {
		t.Fatalf("list inbox failed: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Type != "LIKE" {
		t.Fatalf("expected exactly one LIKE notification, got %+v", inbox)
	}
}
