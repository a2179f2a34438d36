package readstore

import (
	"context"

	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/pkg/pgconv"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ServiceViewQueries interface {
	GetServiceByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Service, error)
}

type ServiceReadStore struct {
	queries ServiceViewQueries
	db      pgquery.DBTX
}

func NewServiceReadStore(queries ServiceViewQueries, db pgquery.DBTX) *ServiceReadStore {
	return &ServiceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ServiceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	row, err := r.queries.GetServiceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get service view", err)
	}
	return &queries.ServiceView{
		ID:                  row.ID,
		ProviderID:          row.ProviderID,
		Title:               row.Title,
		BasePriceCents:      row.BasePriceCents,
		BaseDurationMinutes: int(row.BaseDurationMinutes),
	}, nil
}
