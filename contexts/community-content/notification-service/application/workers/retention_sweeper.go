package workers

import (
	"context"
	"log/slog"
	"time"

	"agora/contexts/community-content/notification-service/ports"
)

// RetentionSweeper garbage-collects notifications that are both read and older
// than the configured retention window.
type RetentionSweeper struct {
	Repo      ports.Repository
	Clock     ports.Clock
	Retention time.Duration
	Logger    *slog.Logger
}

func (w RetentionSweeper) RunOnce(ctx context.Context) error {
	cutoff := w.now().Add(-w.retention())
	purged, err := w.Repo.PurgeRead(ctx, cutoff)
	if err != nil {
		w.logger().Error("notification retention sweep failed",
			"event", "notification_retention_sweep_failed",
			"module", "community-content/notification-service",
			"layer", "application",
			"cutoff", cutoff.Format(time.RFC3339),
			"error", err.Error(),
		)
		return err
	}
	if purged > 0 {
		w.logger().Info("notification retention sweep completed",
			"event", "notification_retention_sweep_completed",
			"module", "community-content/notification-service",
			"layer", "application",
			"purged", purged,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
	return nil
}

func (w RetentionSweeper) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (w RetentionSweeper) retention() time.Duration {
	if w.Retention <= 0 {
		return 30 * 24 * time.Hour
	}
	return w.Retention
}

func (w RetentionSweeper) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
