package workers

import (
	"context"
	"log/slog"
	"time"

	"agora/contexts/community-content/content-service/application"
	"agora/contexts/community-content/content-service/ports"
)

// CounterReconciler sweeps recently touched posts and repairs cached counters
// that drifted from their authoritative sources.
type CounterReconciler struct {
	Repo      ports.Repository
	Service   application.Service
	Window    time.Duration
	BatchSize int
	Logger    *slog.Logger
}

func (w CounterReconciler) RunOnce(ctx context.Context) (int, error) {
	since := time.Now().UTC().Add(-w.window())
	ids, err := w.Repo.ListRecentPostIDs(ctx, since, w.batchSize())
	if err != nil {
		w.logger().Error("counter reconciliation sweep failed",
			"event", "content_recount_sweep_failed",
			"module", "community-content/content-service",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}
	repaired := 0
	for _, id := range ids {
		result, err := w.Service.RecountPost(ctx, id)
		if err != nil {
			// One bad row must not abort the sweep; the next pass retries it.
			w.logger().Warn("counter recount failed for post",
				"event", "content_recount_row_failed",
				"module", "community-content/content-service",
				"layer", "application",
				"post_id", id,
				"error", err.Error(),
			)
			continue
		}
		if result.Repaired {
			repaired++
		}
	}
	if repaired > 0 {
		w.logger().Info("counter reconciliation sweep completed",
			"event", "content_recount_sweep_completed",
			"module", "community-content/content-service",
			"layer", "application",
			"scanned", len(ids),
			"repaired", repaired,
		)
	}
	return repaired, nil
}

func (w CounterReconciler) window() time.Duration {
	if w.Window <= 0 {
		return 24 * time.Hour
	}
	return w.Window
}

func (w CounterReconciler) batchSize() int {
	if w.BatchSize <= 0 {
		return 200
	}
	return w.BatchSize
}

func (w CounterReconciler) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}
