//go:build unit

package queries_test

import (
	"context"
	"testing"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/queries"
	"marketplace-booking/tests/common/builder"
	queriesmock "marketplace-booking/tests/mock/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAvailabilityQueries_GetAvailability(t *testing.T) {
	ctx := context.Background()
	svc := builder.NewServiceBuilder()

	rule := func(day availability.DayOfWeek, start, end string) *availability.Rule {
		var ws []availability.TimeWindow
		if start != "" {
			w, err := availability.ParseTimeWindow(start, end)
			require.NoError(t, err)
			ws = append(ws, w)
		}
		r, err := availability.NewRule(svc.ID, day, ws, now)
		require.NoError(t, err)
		return r
	}

	t.Run("open days only, Monday first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		services := queriesmock.NewMockServiceReadStore(ctrl)
		rules := queriesmock.NewMockAvailabilityReadStore(ctrl)
		services.EXPECT().FindByID(ctx, svc.ID).Return(svc.BuildViewQuery(), nil)
		rules.EXPECT().ListByService(ctx, svc.ID).Return([]*availability.Rule{
			rule(availability.Friday, "10:00", "14:00"),
			rule(availability.Sunday, "", ""),
			rule(availability.Monday, "09:00", "17:00"),
		}, nil)

		view, err := queries.NewAvailabilityQueries(services, rules).GetAvailability(ctx, svc.ID)
		require.NoError(t, err)
		require.Len(t, view.Days, 2)
		assert.Equal(t, "monday", view.Days[0].DayName)
		assert.Equal(t, []queries.WindowView{{Start: "09:00", End: "17:00"}}, view.Days[0].Windows)
		assert.Equal(t, 4, view.Days[1].DayOfWeek)
	})

	t.Run("unknown service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		services := queriesmock.NewMockServiceReadStore(ctrl)
		rules := queriesmock.NewMockAvailabilityReadStore(ctrl)
		services.EXPECT().FindByID(ctx, svc.ID).Return(nil, infra.WrapRepoErr("service not found", nil, infra.KindNotFound))

		_, err := queries.NewAvailabilityQueries(services, rules).GetAvailability(ctx, svc.ID)
		assert.True(t, errs.Is(err, errs.ErrNotFound), "got %v", err)
	})
}
