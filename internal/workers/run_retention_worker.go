package workers

import (
	"context"
	"time"

	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
)

// RunPruner is the slice of the import history repository the worker needs
type RunPruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// RunRetentionWorker deletes import history older than the retention window
type RunRetentionWorker struct {
	runs      RunPruner
	retention time.Duration
	interval  time.Duration
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewRunRetentionWorker(runs RunPruner, retention, interval time.Duration, m *metrics.MetricsRegistry) *RunRetentionWorker {
	return &RunRetentionWorker{
		runs:      runs,
		retention: retention,
		interval:  interval,
		metrics:   m,
		now:       time.Now,
	}
}

// Start prunes once immediately and then on every tick until ctx is done
func (w *RunRetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.pruneOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Run retention worker stopped")
			return
		case <-ticker.C:
			w.pruneOnce(ctx)
		}
	}
}

func (w *RunRetentionWorker) pruneOnce(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	removed, err := w.runs.Prune(ctx, cutoff)
	if err != nil {
		logging.Error("Failed to prune import history", "error", err.Error(), "cutoff", cutoff)
		return 0
	}
	if removed > 0 {
		logging.Info("Pruned import history", "removed", removed, "cutoff", cutoff)
	}
	if w.metrics != nil {
		w.metrics.RunsPrunedTotal.Add(float64(removed))
	}
	return removed
}
