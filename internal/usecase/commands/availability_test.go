//go:build unit

package commands_test

import (
	"context"
	"testing"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/infra/memstore"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/commands"
	"marketplace-booking/internal/usecase/shared"
	"marketplace-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCommands(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := builder.NewServiceBuilder().BuildReconstructed()
	store.AddService(svc)
	cmds := commands.NewAvailabilityCommands(store, clock.NewMockClock(now))

	owner := shared.Actor{ID: svc.ProviderID(), Role: user.RoleSeller}
	input := func(day int, windows ...string) commands.SetDayAvailabilityInput {
		in := commands.SetDayAvailabilityInput{ServiceID: svc.ID(), DayOfWeek: day}
		for i := 0; i+1 < len(windows); i += 2 {
			in.Windows = append(in.Windows, commands.TimeWindowInput{Start: windows[i], End: windows[i+1]})
		}
		return in
	}

	testCases := []struct {
		name  string
		in    commands.SetDayAvailabilityInput
		actor shared.Actor
		kind  error
	}{
		{name: "owner sets windows", in: input(1, "14:00", "18:00", "09:00", "12:00"), actor: owner},
		{name: "admin may edit any service", in: input(2, "09:00", "10:00"), actor: shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}},
		{name: "empty list closes the day", in: input(3), actor: owner},
		{name: "other seller is refused", in: input(1, "09:00", "10:00"), actor: shared.Actor{ID: uuid.New(), Role: user.RoleSeller}, kind: errs.ErrUnauthorizedAction},
		{name: "overlapping windows", in: input(1, "09:00", "12:00", "11:00", "13:00"), actor: owner, kind: errs.ErrValidation},
		{name: "end before start", in: input(1, "12:00", "09:00"), actor: owner, kind: errs.ErrValidation},
		{name: "malformed time", in: input(1, "9am", "10:00"), actor: owner, kind: errs.ErrValidation},
		{name: "day out of range", in: input(7, "09:00", "10:00"), actor: owner, kind: errs.ErrValidation},
		{
			name:  "unknown service",
			in:    commands.SetDayAvailabilityInput{ServiceID: uuid.New(), DayOfWeek: 1},
			actor: owner,
			kind:  errs.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := cmds.SetDayAvailability(ctx, tc.in, tc.actor)
			if tc.kind != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, availability.DayOfWeek(tc.in.DayOfWeek), rule.Day())
			assert.Len(t, rule.Windows(), len(tc.in.Windows))
		})
	}

	t.Run("replace is whole-day", func(t *testing.T) {
		_, err := cmds.SetDayAvailability(ctx, input(4, "09:00", "10:00", "11:00", "12:00"), owner)
		require.NoError(t, err)
		_, err = cmds.SetDayAvailability(ctx, input(4, "13:00", "14:00"), owner)
		require.NoError(t, err)

		rule, err := store.ReadStore().FindByDay(ctx, svc.ID(), availability.Friday)
		require.NoError(t, err)
		require.Len(t, rule.Windows(), 1)
		assert.Equal(t, "13:00-14:00", rule.Windows()[0].String())
	})

	t.Run("delete", func(t *testing.T) {
		err := cmds.DeleteDayAvailability(ctx, svc.ID(), 4, shared.Actor{ID: uuid.New(), Role: user.RoleBuyer})
		assert.True(t, errs.Is(err, errs.ErrUnauthorizedAction), "got %v", err)

		require.NoError(t, cmds.DeleteDayAvailability(ctx, svc.ID(), 4, owner))
		rule, err := store.ReadStore().FindByDay(ctx, svc.ID(), availability.Friday)
		require.NoError(t, err)
		assert.True(t, rule.IsClosed())

		err = cmds.DeleteDayAvailability(ctx, svc.ID(), 4, owner)
		assert.True(t, errs.Is(err, errs.ErrNotFound), "got %v", err)
	})
}
