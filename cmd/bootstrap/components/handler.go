package components

import (
	"marketplace-booking/internal/handler"
	"marketplace-booking/internal/handler/api"
	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		func(cfg config.Config) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit)
		},
		func(a *api.AvailabilityHandler, b *api.BookingHandler) handler.Handlers {
			return handler.Handlers{Availability: a, Booking: b}
		},
	),
	fx.Invoke(handler.NewRouter),
)
