package converter

import (
	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/pkg/pgconv"
)

func ServiceFromInfra(row pgquery.Service) *catalog.Service {
	return catalog.ReconstructService(
		row.ID,
		row.ProviderID,
		row.Title,
		row.BasePriceCents,
		int(row.BaseDurationMinutes),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func ServiceToInfra(s *catalog.Service) pgquery.CreateServiceParams {
	return pgquery.CreateServiceParams{
		ID:                  s.ID(),
		ProviderID:          s.ProviderID(),
		Title:               s.Title(),
		BasePriceCents:      s.BasePriceCents(),
		BaseDurationMinutes: int32(s.BaseDurationMinutes()), // #nosec G115 -- validated on construction
		CreatedAt:           pgconv.TimeToPgtype(s.CreatedAt()),
		UpdatedAt:           pgconv.TimeToPgtype(s.UpdatedAt()),
	}
}
