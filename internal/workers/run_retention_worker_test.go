package workers

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (f *fakePruner) Prune(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	return f.removed, f.err
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRunRetentionWorker_PruneOnce(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	p := &fakePruner{removed: 3}
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	w := NewRunRetentionWorker(p, 72*time.Hour, time.Hour, m)
	w.now = func() time.Time { return now }

	assert.Equal(t, int64(3), w.pruneOnce(context.Background()))
	require.Len(t, p.cutoffs, 1)
	assert.Equal(t, now.Add(-72*time.Hour), p.cutoffs[0])
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RunsPrunedTotal))

	p.err = errors.New("db gone")
	assert.Zero(t, w.pruneOnce(context.Background()))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RunsPrunedTotal))
}

func TestRunRetentionWorker_StartStops(t *testing.T) {
	p := &fakePruner{}
	w := NewRunRetentionWorker(p, time.Hour, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestInitWorkers_Disabled(t *testing.T) {
	assert.Nil(t, InitWorkers(context.Background(), &fakePruner{}, 0, nil).RunRetention)
	assert.Nil(t, InitWorkers(context.Background(), nil, time.Hour, nil).RunRetention)
}
