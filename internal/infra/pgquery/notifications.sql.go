package pgquery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `INSERT INTO notification_jobs (id, kind, topic, payload, run_at, attempts, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 0, 'queued', now(), now())`

type CreateNotificationJobParams struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.ID, arg.Kind, arg.Topic, arg.Payload, arg.RunAt)
	return err
}

// SKIP LOCKED lets several dispatchers drain the outbox without overlap.
const claimDueNotificationJobs = `SELECT id, kind, topic, payload, run_at, attempts, status, last_error, created_at, updated_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJob
	for rows.Next() {
		var i NotificationJob
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.Payload,
			&i.RunAt,
			&i.Attempts,
			&i.Status,
			&i.LastError,
			&i.CreatedAt,
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

const markNotificationJobSent = `UPDATE notification_jobs
SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = $2
WHERE id = $1`

func (q *Queries) MarkNotificationJobSent(ctx context.Context, db DBTX, id uuid.UUID, at pgtype.Timestamptz) error {
	_, err := db.Exec(ctx, markNotificationJobSent, id, at)
	return err
}

const markNotificationJobFailed = `UPDATE notification_jobs
SET attempts = attempts + 1,
    last_error = $2,
    run_at = $3,
    status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
    updated_at = now()
WHERE id = $1`

type MarkNotificationJobFailedParams struct {
	ID          uuid.UUID
	LastError   pgtype.Text
	NextRunAt   pgtype.Timestamptz
	MaxAttempts int32
}

func (q *Queries) MarkNotificationJobFailed(ctx context.Context, db DBTX, arg MarkNotificationJobFailedParams) error {
	_, err := db.Exec(ctx, markNotificationJobFailed, arg.ID, arg.LastError, arg.NextRunAt, arg.MaxAttempts)
	return err
}
