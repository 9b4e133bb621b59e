package workers

import (
	"context"
	"time"

	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
)

type WorkersContainer struct {
	RunRetention *RunRetentionWorker
}

// InitWorkers starts the background workers. A zero retention leaves history untouched.
func InitWorkers(ctx context.Context, runs RunPruner, retention time.Duration, m *metrics.MetricsRegistry) *WorkersContainer {
	c := &WorkersContainer{}
	if runs == nil || retention <= 0 {
		logging.Info("Run retention disabled")
		return c
	}

	interval := retention / 24
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}

	c.RunRetention = NewRunRetentionWorker(runs, retention, interval, m)
	go c.RunRetention.Start(ctx)

	logging.Info("Run retention worker started", "retention", retention, "interval", interval)
	return c
}
