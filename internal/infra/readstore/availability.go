package readstore

import (
	"context"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/repository/converter"
	"marketplace-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AvailabilityViewQueries interface {
	GetAvailabilityRule(ctx context.Context, db pgquery.DBTX, serviceID uuid.UUID, dayOfWeek int16) (pgquery.AvailabilityRule, error)
	ListAvailabilityRules(ctx context.Context, db pgquery.DBTX, serviceID uuid.UUID) ([]pgquery.AvailabilityRule, error)
}

type AvailabilityReadStore struct {
	queries AvailabilityViewQueries
	db      pgquery.DBTX
}

func NewAvailabilityReadStore(queries AvailabilityViewQueries, db pgquery.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *AvailabilityReadStore) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*availability.Rule, error) {
	rows, err := r.queries.ListAvailabilityRules(ctx, r.db, serviceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list availability rules", err)
	}
	rules := make([]*availability.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := converter.RuleFromInfra(row)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt availability rule", err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *AvailabilityReadStore) FindByDay(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error) {
	row, err := r.queries.GetAvailabilityRule(ctx, r.db, serviceID, int16(day.Int())) // #nosec G115 -- 0..6
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to get availability rule", err)
	}
	rule, err := converter.RuleFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt availability rule", err)
	}
	return rule, nil
}
