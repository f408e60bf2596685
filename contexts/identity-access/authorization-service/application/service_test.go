package application

import (
	"context"
	"errors"
	"testing"

	"agora/contexts/identity-access/authorization-service/adapters/memory"
	domainerrors "agora/contexts/identity-access/authorization-service/domain/errors"
)

func TestResolveActiveActorRejectsSuspendedAndUnknown(t *testing.T) {
	store := memory.NewStore()
	service := Service{Actors: store}

	if _, err := service.ResolveActiveActor(context.Background(), "ghost"); !errors.Is(err, domainerrors.ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}
	if _, err := service.ResolveActiveActor(context.Background(), " "); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank id, got %v", err)
	}

	store.Suspend("user-1")
	if _, err := service.ResolveActiveActor(context.Background(), "user-1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for suspended actor, got %v", err)
	}
}

func TestCanReviewIsStaffOnly(t *testing.T) {
	service := Service{Actors: memory.NewStore()}

	staff, err := service.CanReview(context.Background(), "mod-1")
	if err != nil || !staff {
		t.Fatalf("expected moderator to review, got staff=%v err=%v", staff, err)
	}
	member, err := service.CanReview(context.Background(), "user-1")
	if err != nil || member {
		t.Fatalf("expected member not to review, got staff=%v err=%v", member, err)
	}
}

func TestCanModerateOwnerOrStaff(t *testing.T) {
	service := Service{Actors: memory.NewStore()}

	owner, err := service.CanModerate(context.Background(), "user-1", "user-1")
	if err != nil || !owner {
		t.Fatalf("expected owner to moderate own content, got %v err=%v", owner, err)
	}
	other, err := service.CanModerate(context.Background(), "user-2", "user-1")
	if err != nil || other {
		t.Fatalf("expected foreign member rejected, got %v err=%v", other, err)
	}
	staff, err := service.CanModerate(context.Background(), "admin-1", "user-1")
	if err != nil || !staff {
		t.Fatalf("expected admin to moderate anything, got %v err=%v", staff, err)
	}
}
