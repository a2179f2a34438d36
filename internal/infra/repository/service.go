package repository

import (
	"context"

	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/repository/converter"
	"marketplace-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ServiceQueries interface {
	GetServiceByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Service, error)
	GetServiceForUpdate(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Service, error)
	CreateService(ctx context.Context, db pgquery.DBTX, arg pgquery.CreateServiceParams) error
}

type ServiceRepository struct {
	queries ServiceQueries
	db      pgquery.DBTX
}

func NewServiceRepository(queries ServiceQueries, db pgquery.DBTX) *ServiceRepository {
	return &ServiceRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	row, err := r.queries.GetServiceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get service", err)
	}
	return converter.ServiceFromInfra(row), nil
}

func (r *ServiceRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	row, err := r.queries.GetServiceForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock service", err)
	}
	return converter.ServiceFromInfra(row), nil
}

// Create is used by seeding and tests; the catalog itself is managed elsewhere.
func (r *ServiceRepository) Create(ctx context.Context, s *catalog.Service) error {
	if err := r.queries.CreateService(ctx, r.db, converter.ServiceToInfra(s)); err != nil {
		return infra.WrapRepoErr("failed to create service", err)
	}
	return nil
}
