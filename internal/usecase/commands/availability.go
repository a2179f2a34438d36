package commands

import (
	"context"
	"log/slog"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type TimeWindowInput struct {
	Start string
	End   string
}

type SetDayAvailabilityInput struct {
	ServiceID uuid.UUID
	DayOfWeek int
	Windows   []TimeWindowInput
}

type AvailabilityCommands interface {
	SetDayAvailability(ctx context.Context, in SetDayAvailabilityInput, actor shared.Actor) (*availability.Rule, error)
	DeleteDayAvailability(ctx context.Context, serviceID uuid.UUID, day int, actor shared.Actor) error
}

type availabilityCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAvailabilityCommands(uow shared.UnitOfWork, clk clock.Clock) AvailabilityCommands {
	return &availabilityCommandsImpl{uow: uow, clock: clk}
}

// SetDayAvailability replaces the whole window list of one weekday.
// An empty list closes the day.
func (uc *availabilityCommandsImpl) SetDayAvailability(ctx context.Context, in SetDayAvailabilityInput, actor shared.Actor) (*availability.Rule, error) {
	day, err := availability.NewDayOfWeek(in.DayOfWeek)
	if err != nil {
		return nil, classify(err)
	}
	windows := make([]availability.TimeWindow, 0, len(in.Windows))
	for _, w := range in.Windows {
		tw, perr := availability.ParseTimeWindow(w.Start, w.End)
		if perr != nil {
			return nil, classify(perr)
		}
		windows = append(windows, tw)
	}
	rule, err := availability.NewRule(in.ServiceID, day, windows, uc.clock.Now())
	if err != nil {
		return nil, classify(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		svc, derr := tx.Services().FindByID(ctx, in.ServiceID)
		if derr != nil {
			return derr
		}
		if err := authorizeOwner(svc, actor); err != nil {
			return err
		}
		return tx.Availability().Upsert(ctx, rule)
	})
	if err != nil {
		return nil, classify(err)
	}

	slog.Info("availability saved",
		"service_id", in.ServiceID.String(),
		"day_of_week", day.Int(),
		"windows", len(windows))
	return rule, nil
}

func (uc *availabilityCommandsImpl) DeleteDayAvailability(ctx context.Context, serviceID uuid.UUID, dayOfWeek int, actor shared.Actor) error {
	day, err := availability.NewDayOfWeek(dayOfWeek)
	if err != nil {
		return classify(err)
	}
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		svc, derr := tx.Services().FindByID(ctx, serviceID)
		if derr != nil {
			return derr
		}
		if err := authorizeOwner(svc, actor); err != nil {
			return err
		}
		return tx.Availability().Delete(ctx, serviceID, day)
	})
	return classify(err)
}

func authorizeOwner(svc *catalog.Service, actor shared.Actor) error {
	if svc.IsOwnedBy(actor.ID) || actor.IsAdmin() {
		return nil
	}
	return errs.Wrapf(ErrServiceNotOwned, "service %s", svc.ID())
}
