package repository

import (
	"context"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/repository/converter"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AvailabilityQueries interface {
	UpsertAvailabilityRule(ctx context.Context, db pgquery.DBTX, arg pgquery.UpsertAvailabilityRuleParams) error
	DeleteAvailabilityRule(ctx context.Context, db pgquery.DBTX, serviceID uuid.UUID, dayOfWeek int16) (int64, error)
	GetAvailabilityRule(ctx context.Context, db pgquery.DBTX, serviceID uuid.UUID, dayOfWeek int16) (pgquery.AvailabilityRule, error)
}

type AvailabilityRepository struct {
	queries AvailabilityQueries
	db      pgquery.DBTX
}

func NewAvailabilityRepository(queries AvailabilityQueries, db pgquery.DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{
		queries: queries,
		db:      db,
	}
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, rule *availability.Rule) error {
	params, err := converter.RuleToInfra(rule)
	if err != nil {
		return err
	}
	if err := r.queries.UpsertAvailabilityRule(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to upsert availability rule", err)
	}
	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) error {
	n, err := r.queries.DeleteAvailabilityRule(ctx, r.db, serviceID, int16(day.Int())) // #nosec G115 -- 0..6
	if err != nil {
		return infra.WrapRepoErr("failed to delete availability rule", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("availability rule not found", errs.Newf("no rule for %s", day), infra.KindNotFound)
	}
	return nil
}

func (r *AvailabilityRepository) FindByDay(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error) {
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
