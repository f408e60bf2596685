package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"agora/internal/platform/config"
	"agora/internal/shared/outbox"
)

// failingOutbox simulates a transient store outage: every drain attempt errors.
type failingOutbox struct {
	calls int32
}

func (f *failingOutbox) ListPending(_ context.Context, _ int) ([]outbox.Message, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, errors.New("connection reset")
}

func (f *failingOutbox) MarkPublished(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *failingOutbox) MarkFailed(_ context.Context, _ string) error {
	return nil
}

func TestWorkerRunSurvivesFailingJobPass(t *testing.T) {
	store := &failingOutbox{}
	worker := &WorkerApp{
		interactionRelay: outbox.Relay{Store: store},
		reportRelay:      outbox.Relay{Store: store},
		cfg: config.Config{
			WorkerPollInterval: time.Millisecond,
			EnableOutboxRelay:  true,
		},
		logger: slog.Default(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := worker.Run(ctx); err != nil {
		t.Fatalf("expected shutdown to be the only way out, got %v", err)
	}
	// Both relays fail on every tick; the loop must keep coming back anyway.
	if got := atomic.LoadInt32(&store.calls); got < 4 {
		t.Fatalf("expected at least two full passes despite failures, got %d drain attempts", got)
	}
}
