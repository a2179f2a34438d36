package components

import (
	"context"

	"marketplace-booking/internal/infra/notify"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		fx.Annotate(
			notify.NewLogSender,
			fx.As(new(notify.Sender)),
		),
		func(uow shared.UnitOfWork, sender notify.Sender, clk clock.Clock, m *metrics.Metrics, cfg config.Config) *notify.Dispatcher {
			return notify.NewDispatcher(uow, sender, clk, m, cfg.Notify.BatchSize)
		},
	),
	fx.Invoke(startNotificationScheduler),
)

func startNotificationScheduler(lc fx.Lifecycle, cfg config.Config, d *notify.Dispatcher) error {
	if !cfg.Notify.Enabled {
		return nil
	}
	s, err := notify.NewScheduler(cfg.Notify, d)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
	return nil
}
