//go:build unit

package shared_test

import (
	"testing"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingSettings(t *testing.T) {
	t.Run("maps booking config onto the policy", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Booking.InitialStatus = "pending"
		cfg.Booking.TimeZone = "Europe/Berlin"

		settings, err := shared.NewBookingSettings(cfg)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, settings.Policy.InitialStatus)
		assert.Equal(t, "Europe/Berlin", settings.Location.String())
		assert.Equal(t, 5*time.Minute, settings.HoldTTL)
	})

	testCases := []struct {
		name   string
		mutate func(*config.BookingConfig)
	}{
		{name: "unknown initial status", mutate: func(b *config.BookingConfig) { b.InitialStatus = "approved" }},
		{name: "terminal initial status", mutate: func(b *config.BookingConfig) { b.InitialStatus = "cancelled" }},
		{name: "unknown time zone", mutate: func(b *config.BookingConfig) { b.TimeZone = "Nowhere/Special" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tc.mutate(&cfg.Booking)

			_, err := shared.NewBookingSettings(cfg)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
		})
	}
}

func TestBookingSettings_DayBounds(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Booking.TimeZone = "Asia/Tokyo"
	settings, err := shared.NewBookingSettings(cfg)
	require.NoError(t, err)

	start, end := settings.DayBounds(time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
