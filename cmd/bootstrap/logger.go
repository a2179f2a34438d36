package bootstrap

import (
	"log/slog"

	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/metrics"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		func(cfg config.Config) *metrics.Metrics {
			return metrics.NewMetrics(cfg.Metrics)
		},
	),
)

// NewLogger also installs the logger as the slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
