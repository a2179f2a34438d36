package booking

import (
	"github.com/google/uuid"
)

type PriceContext struct {
	ServiceID           uuid.UUID
	BasePriceCents      int64
	BaseDurationMinutes int
}

type PriceCalculator interface {
	CalculatePriceCents(ctx PriceContext, durationMinutes int) int64
}

// DefaultPriceCalculator scales the base price linearly with duration,
// rounding half up to the nearest cent.
type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

func (pc *DefaultPriceCalculator) CalculatePriceCents(ctx PriceContext, durationMinutes int) int64 {
	if ctx.BaseDurationMinutes <= 0 || durationMinutes <= 0 {
		return 0
	}
	base := int64(ctx.BaseDurationMinutes)
	return (ctx.BasePriceCents*int64(durationMinutes) + base/2) / base
}
