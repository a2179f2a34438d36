package queries

import (
	"context"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/infra"

	"github.com/google/uuid"
)

type ServiceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceView, error)
}

type AvailabilityReadStore interface {
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*availability.Rule, error)
	FindByDay(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error)
}

type AvailabilityQueries interface {
	GetAvailability(ctx context.Context, serviceID uuid.UUID) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	services ServiceReadStore
	rules    AvailabilityReadStore
}

func NewAvailabilityQueries(services ServiceReadStore, rules AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{services: services, rules: rules}
}

// GetAvailability returns the weekly schedule ordered Monday first. Days
// without a rule are left out.
func (q *availabilityQueriesImpl) GetAvailability(ctx context.Context, serviceID uuid.UUID) (*AvailabilityView, error) {
	if _, err := q.services.FindByID(ctx, serviceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	rules, err := q.rules.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	schedule := availability.NewWeeklySchedule(serviceID, rules...)

	view := &AvailabilityView{ServiceID: serviceID, Days: []DayAvailabilityView{}}
	for _, day := range schedule.Days() {
		rule := schedule.Rule(day)
		windows := make([]WindowView, 0, len(rule.Windows()))
		for _, w := range rule.Windows() {
			windows = append(windows, WindowView{Start: w.Start().String(), End: w.End().String()})
		}
		view.Days = append(view.Days, DayAvailabilityView{
			DayOfWeek: day.Int(),
			DayName:   day.String(),
			Windows:   windows,
			UpdatedAt: rule.UpdatedAt(),
		})
	}
	return view, nil
}
