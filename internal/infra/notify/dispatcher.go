package notify

import (
	"context"
	"log/slog"
	"time"

	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/shared"
)

// Sender delivers one outbox job. Delivery channels (mail, push, chat) live
// behind it.
type Sender interface {
	Send(ctx context.Context, job *shared.NotificationJob) error
}

// LogSender writes jobs to the structured log.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, job *shared.NotificationJob) error {
	slog.Info("notification dispatched",
		"job_id", job.ID.String(),
		"kind", job.Kind,
		"topic", job.Topic,
		"payload", string(job.Payload))
	return nil
}

const retryBase = 30 * time.Second

// Dispatcher drains due outbox jobs in batches.
type Dispatcher struct {
	uow       shared.UnitOfWork
	sender    Sender
	clock     clock.Clock
	metrics   *metrics.Metrics
	batchSize int
}

func NewDispatcher(uow shared.UnitOfWork, sender Sender, clk clock.Clock, m *metrics.Metrics, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{
		uow:       uow,
		sender:    sender,
		clock:     clk,
		metrics:   m,
		batchSize: batchSize,
	}
}

// DispatchDue sends one batch and returns how many jobs were delivered.
// A failed send is rescheduled with quadratic backoff.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	sent := 0
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := d.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, now, d.batchSize)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if serr := d.sender.Send(ctx, job); serr != nil {
				attempt := job.Attempts + 1
				next := now.Add(time.Duration(attempt*attempt) * retryBase)
				slog.Warn("notification send failed",
					"job_id", job.ID.String(),
					"kind", job.Kind,
					"attempt", attempt,
					"error", serr.Error())
				d.metrics.NotificationDispatched("failed")
				if err := tx.Notifications().MarkFailed(ctx, job.ID, serr.Error(), next); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, job.ID, now); err != nil {
				return err
			}
			d.metrics.NotificationDispatched("sent")
			sent++
		}
		return nil
	})
	return sent, err
}
