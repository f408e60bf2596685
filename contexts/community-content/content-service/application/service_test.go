package application

import (
	"context"
	"errors"
	"testing"

	"agora/contexts/community-content/content-service/adapters/memory"
	domainerrors "agora/contexts/community-content/content-service/domain/errors"
)

type recordingNotifier struct {
	comments []string
	replies  []string
	fail     bool
}

func (n *recordingNotifier) NotifyComment(_ context.Context, recipientID string, _ string, _ string, _ string) error {
	if n.fail {
		return errors.New("notification channel down")
	}
	n.comments = append(n.comments, recipientID)
	return nil
}

func (n *recordingNotifier) NotifyReply(_ context.Context, recipientID string, _ string, _ string, _ string) error {
	if n.fail {
		return errors.New("notification channel down")
	}
	n.replies = append(n.replies, recipientID)
	return nil
}

func newService(store *memory.Store, notifier *recordingNotifier) Service {
	service := Service{
		Repo:         store,
		Capabilities: store,
		Ledger:       store,
		Clock:        store,
		IDGen:        store,
	}
	if notifier != nil {
		service.Notifier = notifier
	}
	return service
}

func TestCreatePostValidatesTitleAndBody(t *testing.T) {
	service := newService(memory.NewStore(), nil)

	if _, err := service.CreatePost(context.Background(), "user-1", "", "body"); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty title, got %v", err)
	}
	if _, err := service.CreatePost(context.Background(), "user-1", "title", "  "); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank body, got %v", err)
	}
}

func TestCreateCommentBumpsPostCounterAndNotifies(t *testing.T) {
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	service := newService(store, notifier)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	comment, err := service.CreateComment(context.Background(), "user-2", post.ContentID, "", "nice one")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if comment.PostID != post.ContentID {
		t.Fatalf("expected comment to point at post %s, got %s", post.ContentID, comment.PostID)
	}

	refreshed, err := service.GetPost(context.Background(), post.ContentID)
	if err != nil {
		t.Fatalf("get post failed: %v", err)
	}
	if refreshed.CommentCount != 1 {
		t.Fatalf("expected comment count 1, got %d", refreshed.CommentCount)
	}
	if len(notifier.comments) != 1 || notifier.comments[0] != "user-1" {
		t.Fatalf("expected one COMMENT notification to user-1, got %+v", notifier.comments)
	}
}

func TestReplyNotifiesParentCommentAuthor(t *testing.T) {
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	service := newService(store, notifier)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	parent, err := service.CreateComment(context.Background(), "user-2", post.ContentID, "", "nice one")
	if err != nil {
		t.Fatalf("create parent comment failed: %v", err)
	}
	reply, err := service.CreateComment(context.Background(), "mod-1", post.ContentID, parent.ContentID, "agreed")
	if err != nil {
		t.Fatalf("create reply failed: %v", err)
	}
	if !reply.IsReply() {
		t.Fatalf("expected reply shape, got %+v", reply)
	}
	if len(notifier.replies) != 1 || notifier.replies[0] != "user-2" {
		t.Fatalf("expected one REPLY notification to user-2, got %+v", notifier.replies)
	}
	// The post owner does not hear about replies, only top-level comments.
	if len(notifier.comments) != 1 {
		t.Fatalf("expected no extra COMMENT notification, got %+v", notifier.comments)
	}
}

func TestSelfCommentDoesNotNotify(t *testing.T) {
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	service := newService(store, notifier)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := service.CreateComment(context.Background(), "user-1", post.ContentID, "", "bump"); err != nil {
		t.Fatalf("self comment failed: %v", err)
	}
	if len(notifier.comments) != 0 {
		t.Fatalf("expected no notification for self-comment, got %+v", notifier.comments)
	}
}

func TestCreateCommentSurvivesNotifierFailure(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, &recordingNotifier{fail: true})

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := service.CreateComment(context.Background(), "user-2", post.ContentID, "", "nice one"); err != nil {
		t.Fatalf("comment must not fail when the notifier does: %v", err)
	}
}

func TestCreateCommentOnDeletedPostRejected(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := service.SoftDelete(context.Background(), "user-1", post.ContentID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if _, err := service.CreateComment(context.Background(), "user-2", post.ContentID, "", "too late"); !errors.Is(err, domainerrors.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound for deleted post, got %v", err)
	}
}

func TestSoftDeleteIsMonotonic(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	comment, err := service.CreateComment(context.Background(), "user-2", post.ContentID, "", "nice one")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}

	if err := service.SoftDelete(context.Background(), "user-2", comment.ContentID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// Repeating the delete is a no-op and must not decrement the counter twice.
	if err := service.SoftDelete(context.Background(), "user-2", comment.ContentID); err != nil {
		t.Fatalf("repeat delete failed: %v", err)
	}

	refreshed, err := service.GetPost(context.Background(), post.ContentID)
	if err != nil {
		t.Fatalf("get post failed: %v", err)
	}
	if refreshed.CommentCount != 0 {
		t.Fatalf("expected comment count 0 after delete, got %d", refreshed.CommentCount)
	}
}

func TestSoftDeleteRequiresOwnershipOrStaff(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := service.SoftDelete(context.Background(), "user-2", post.ContentID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}
	if err := service.SoftDelete(context.Background(), "mod-1", post.ContentID); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
}

func TestRestoreIsStaffOnly(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := service.SoftDelete(context.Background(), "user-1", post.ContentID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if err := service.Restore(context.Background(), "user-1", post.ContentID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner restore, got %v", err)
	}
	if err := service.Restore(context.Background(), "mod-1", post.ContentID); err != nil {
		t.Fatalf("staff restore failed: %v", err)
	}
	if _, err := service.GetPost(context.Background(), post.ContentID); err != nil {
		t.Fatalf("expected post visible after restore: %v", err)
	}
}

func TestEditContentOwnerOnly(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := service.EditContent(context.Background(), "user-2", post.ContentID, "hijacked", ""); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner edit, got %v", err)
	}
	updated, err := service.EditContent(context.Background(), "user-1", post.ContentID, "hello again", "")
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if updated.Title != "hello again" || updated.Body != "first post" {
		t.Fatalf("expected title change with body preserved, got %+v", updated)
	}
}

func TestBulkSetDeletedReportsPartialFailure(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	if _, err := service.BulkSetDeleted(context.Background(), "user-1", []string{post.ContentID}, true); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-staff bulk delete, got %v", err)
	}

	result, err := service.BulkSetDeleted(context.Background(), "mod-1", []string{post.ContentID, "missing"}, true)
	if err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("expected 1 succeeded row, got %d", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "missing" {
		t.Fatalf("expected failed list [missing], got %+v", result.Failed)
	}
}

func TestRecountRepairsDriftedCounters(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	store.SeedLike(post.ContentID, "user-2")
	store.SeedLike(post.ContentID, "mod-1")
	store.CorruptLikeCount(post.ContentID, 9)

	result, err := service.RecountPost(context.Background(), post.ContentID)
	if err != nil {
		t.Fatalf("recount failed: %v", err)
	}
	if !result.Repaired || result.LikeCount != 2 {
		t.Fatalf("expected repair to like count 2, got %+v", result)
	}

	again, err := service.RecountPost(context.Background(), post.ContentID)
	if err != nil {
		t.Fatalf("second recount failed: %v", err)
	}
	if again.Repaired {
		t.Fatalf("expected clean counters on second pass, got %+v", again)
	}
}

func TestRecountPostAsRequiresStaff(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)

	post, err := service.CreatePost(context.Background(), "user-1", "hello", "first post")
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := service.RecountPostAs(context.Background(), "user-1", post.ContentID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member recount, got %v", err)
	}
	if _, err := service.RecountPostAs(context.Background(), "mod-1", post.ContentID); err != nil {
		t.Fatalf("staff recount failed: %v", err)
	}
}
