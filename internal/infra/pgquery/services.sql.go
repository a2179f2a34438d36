package pgquery

import (
	"context"

	"github.com/google/uuid"
)

const serviceColumns = `id, provider_id, title, base_price_cents, base_duration_min, created_at, updated_at`

const getServiceByID = `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

func (q *Queries) GetServiceByID(ctx context.Context, db DBTX, id uuid.UUID) (Service, error) {
	return scanService(db.QueryRow(ctx, getServiceByID, id))
}

const getServiceForUpdate = `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 FOR UPDATE`

func (q *Queries) GetServiceForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Service, error) {
	return scanService(db.QueryRow(ctx, getServiceForUpdate, id))
}

const createService = `INSERT INTO services (id, provider_id, title, base_price_cents, base_duration_min, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

type CreateServiceParams = Service

func (q *Queries) CreateService(ctx context.Context, db DBTX, arg CreateServiceParams) error {
	_, err := db.Exec(ctx, createService,
		arg.ID,
		arg.ProviderID,
		arg.Title,
		arg.BasePriceCents,
		arg.BaseDurationMinutes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

func scanService(row interface{ Scan(...any) error }) (Service, error) {
	var i Service
	err := row.Scan(
		&i.ID,
		&i.ProviderID,
		&i.Title,
		&i.BasePriceCents,
		&i.BaseDurationMinutes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
