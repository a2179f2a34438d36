//go:build e2e

package slotlock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"marketplace-booking/internal/infra/slotlock"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/usecase/shared"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	cfg := config.RedisConfig{
		URL:       fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
		KeyPrefix: "slot_lock_test",
		Timeout:   2 * time.Second,
	}
	client, err := slotlock.NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runHoldStoreContract(t, func(clk clock.Clock) shared.SlotHoldStore {
		return slotlock.NewRedisStore(client, cfg, clk)
	})
}
