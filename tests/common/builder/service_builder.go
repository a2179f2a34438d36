//go:build unit || e2e

package builder

import (
	"time"

	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ServiceBuilder struct {
	ID                  uuid.UUID
	ProviderID          uuid.UUID
	Title               string
	BasePriceCents      int64
	BaseDurationMinutes int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func NewServiceBuilder() *ServiceBuilder {
	now := time.Now()
	return &ServiceBuilder{
		ID:                  uuid.New(),
		ProviderID:          uuid.New(),
		Title:               "Portrait photography session",
		BasePriceCents:      6000,
		BaseDurationMinutes: 60,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (b *ServiceBuilder) With(mutate func(*ServiceBuilder)) *ServiceBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ServiceBuilder) BuildDomain() (*catalog.Service, error) {
	return catalog.NewService(b.ID, b.ProviderID, b.Title, b.BasePriceCents, b.BaseDurationMinutes)
}

func (b *ServiceBuilder) BuildReconstructed() *catalog.Service {
	return catalog.ReconstructService(b.ID, b.ProviderID, b.Title, b.BasePriceCents, b.BaseDurationMinutes, b.CreatedAt, b.UpdatedAt)
}

func (b *ServiceBuilder) BuildInfra() pgquery.Service {
	return pgquery.Service{
		ID:                  b.ID,
		ProviderID:          b.ProviderID,
		Title:               b.Title,
		BasePriceCents:      b.BasePriceCents,
		BaseDurationMinutes: int32(b.BaseDurationMinutes),
		CreatedAt:           pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:           pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}

func (b *ServiceBuilder) BuildViewQuery() *queries.ServiceView {
	return &queries.ServiceView{
		ID:                  b.ID,
		ProviderID:          b.ProviderID,
		Title:               b.Title,
		BasePriceCents:      b.BasePriceCents,
		BaseDurationMinutes: b.BaseDurationMinutes,
	}
}
