package components

import (
	"context"
	"log/slog"
	"time"

	"marketplace-booking/internal/infra/slotlock"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

const memoryHoldCleanupInterval = time.Minute

var HoldStoreModule = fx.Module("holds",
	fx.Provide(NewSlotHoldStore),
)

// NewSlotHoldStore picks Redis when REDIS_URL is set so holds are shared
// across instances; otherwise holds live in this process.
func NewSlotHoldStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (shared.SlotHoldStore, error) {
	if cfg.Redis.URL == "" {
		slog.Info("slot holds kept in memory")
		return slotlock.NewMemoryStore(clk, memoryHoldCleanupInterval), nil
	}

	client, err := slotlock.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	slog.Info("slot holds kept in redis", "prefix", cfg.Redis.KeyPrefix)
	return slotlock.NewRedisStore(client, cfg.Redis, clk), nil
}
