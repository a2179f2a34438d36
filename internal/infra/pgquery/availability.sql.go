package pgquery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const upsertAvailabilityRule = `INSERT INTO availability_rules (service_id, day_of_week, windows, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (service_id, day_of_week)
DO UPDATE SET windows = EXCLUDED.windows, updated_at = EXCLUDED.updated_at`

type UpsertAvailabilityRuleParams struct {
	ServiceID uuid.UUID
	DayOfWeek int16
	Windows   []byte
	UpdatedAt pgtype.Timestamptz
}

func (q *Queries) UpsertAvailabilityRule(ctx context.Context, db DBTX, arg UpsertAvailabilityRuleParams) error {
	_, err := db.Exec(ctx, upsertAvailabilityRule, arg.ServiceID, arg.DayOfWeek, arg.Windows, arg.UpdatedAt)
	return err
}

const deleteAvailabilityRule = `DELETE FROM availability_rules WHERE service_id = $1 AND day_of_week = $2`

// DeleteAvailabilityRule returns the number of rows removed.
func (q *Queries) DeleteAvailabilityRule(ctx context.Context, db DBTX, serviceID uuid.UUID, dayOfWeek int16) (int64, error) {
	tag, err := db.Exec(ctx, deleteAvailabilityRule, serviceID, dayOfWeek)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getAvailabilityRule = `SELECT service_id, day_of_week, windows, updated_at
FROM availability_rules WHERE service_id = $1 AND day_of_week = $2`

func (q *Queries) GetAvailabilityRule(ctx context.Context, db DBTX, serviceID uuid.UUID, dayOfWeek int16) (AvailabilityRule, error) {
	var i AvailabilityRule
	err := db.QueryRow(ctx, getAvailabilityRule, serviceID, dayOfWeek).Scan(
		&i.ServiceID,
		&i.DayOfWeek,
		&i.Windows,
		&i.UpdatedAt,
	)
	return i, err
}

const listAvailabilityRules = `SELECT service_id, day_of_week, windows, updated_at
FROM availability_rules WHERE service_id = $1 ORDER BY day_of_week`

func (q *Queries) ListAvailabilityRules(ctx context.Context, db DBTX, serviceID uuid.UUID) ([]AvailabilityRule, error) {
	rows, err := db.Query(ctx, listAvailabilityRules, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AvailabilityRule
	for rows.Next() {
		var i AvailabilityRule
		if err := rows.Scan(
			&i.ServiceID,
			&i.DayOfWeek,
			&i.Windows,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
