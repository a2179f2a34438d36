package notify

import (
	"context"
	"log/slog"
	"time"

	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the dispatcher on a cron spec. Overlapping runs are skipped.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	timeout    time.Duration
}

func NewScheduler(cfg config.NotifyConfig, dispatcher *Dispatcher) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s := &Scheduler{cron: c, dispatcher: dispatcher, timeout: time.Minute}

	if _, err := c.AddFunc(cfg.Schedule, s.run); err != nil {
		return nil, errs.Wrapf(err, "invalid notify schedule %q", cfg.Schedule)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("notification scheduler started")
}

// Stop waits for a running dispatch to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.dispatcher.DispatchDue(ctx)
	if err != nil {
		slog.Error("notification dispatch failed", "error", err.Error())
		return
	}
	if n > 0 {
		slog.Info("notifications dispatched", "count", n)
	}
}
