//go:build unit

package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-booking/internal/infra/memstore"
	"marketplace-booking/internal/infra/notify"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	failOn map[string]bool
	sent   []uuid.UUID
}

func (s *recordingSender) Send(_ context.Context, job *shared.NotificationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[job.Topic] {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, job.ID)
	return nil
}

func enqueue(t *testing.T, store *memstore.Store, topic string, runAt time.Time) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, "booking_created", topic, []byte(`{}`), runAt)
	})
	require.NoError(t, err)
}

func jobByTopic(t *testing.T, store *memstore.Store, topic string) shared.NotificationJob {
	t.Helper()
	for _, j := range store.Jobs() {
		if j.Topic == topic {
			return j
		}
	}
	t.Fatalf("job %q not found", topic)
	return shared.NotificationJob{}
}

func TestDispatcher_DispatchDue(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("sends due jobs once and leaves future jobs queued", func(t *testing.T) {
		store := memstore.New()
		clk := clock.NewMockClock(now)
		sender := &recordingSender{}
		m := metrics.NewMetrics(config.MetricsConfig{Namespace: "test"})
		d := notify.NewDispatcher(store, sender, clk, m, 10)

		enqueue(t, store, "client:a", now.Add(-time.Minute))
		enqueue(t, store, "client:b", now)
		enqueue(t, store, "client:c", now.Add(time.Hour))

		n, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, sender.sent, 2)
		assert.Equal(t, 1, jobByTopic(t, store, "client:a").Attempts)
		assert.Equal(t, 0, jobByTopic(t, store, "client:c").Attempts)
		assert.InDelta(t, 2, promtestutil.ToFloat64(m.NotificationsSent.WithLabelValues("sent")), 0)

		n, err = d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "sent jobs are not claimed again")

		clk.Add(time.Hour)
		n, err = d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("failed send is rescheduled with backoff", func(t *testing.T) {
		store := memstore.New()
		clk := clock.NewMockClock(now)
		sender := &recordingSender{failOn: map[string]bool{"client:down": true}}
		d := notify.NewDispatcher(store, sender, clk, nil, 10)

		enqueue(t, store, "client:down", now)
		enqueue(t, store, "client:up", now)

		n, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		failed := jobByTopic(t, store, "client:down")
		assert.Equal(t, 1, failed.Attempts)
		assert.True(t, failed.RunAt.Equal(now.Add(30*time.Second)), "got %s", failed.RunAt)

		clk.Add(30 * time.Second)
		_, err = d.DispatchDue(ctx)
		require.NoError(t, err)

		failed = jobByTopic(t, store, "client:down")
		assert.Equal(t, 2, failed.Attempts)
		assert.True(t, failed.RunAt.Equal(now.Add(30*time.Second+2*time.Minute)), "got %s", failed.RunAt)
	})

	t.Run("batch size bounds one run", func(t *testing.T) {
		store := memstore.New()
		sender := &recordingSender{}
		d := notify.NewDispatcher(store, sender, clock.NewMockClock(now), nil, 2)

		for _, topic := range []string{"t1", "t2", "t3"} {
			enqueue(t, store, topic, now)
		}

		n, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestNewScheduler(t *testing.T) {
	d := notify.NewDispatcher(memstore.New(), notify.NewLogSender(), clock.NewMockClock(time.Now()), nil, 0)

	s, err := notify.NewScheduler(config.NotifyConfig{Schedule: "@every 1s"}, d)
	require.NoError(t, err)
	s.Start()
	require.NoError(t, s.Stop(context.Background()))

	_, err = notify.NewScheduler(config.NotifyConfig{Schedule: "not a spec"}, d)
	assert.Error(t, err)
}
