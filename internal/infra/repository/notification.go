package repository

import (
	"context"
	"time"

	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/pkg/pgconv"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MaxNotificationAttempts moves a job to failed after this many sends.
const MaxNotificationAttempts = 5

type NotificationQueries interface {
	CreateNotificationJob(ctx context.Context, db pgquery.DBTX, arg pgquery.CreateNotificationJobParams) error
	ClaimDueNotificationJobs(ctx context.Context, db pgquery.DBTX, now pgtype.Timestamptz, limit int32) ([]pgquery.NotificationJob, error)
	MarkNotificationJobSent(ctx context.Context, db pgquery.DBTX, id uuid.UUID, at pgtype.Timestamptz) error
	MarkNotificationJobFailed(ctx context.Context, db pgquery.DBTX, arg pgquery.MarkNotificationJobFailedParams) error
}

type NotificationRepository struct {
	queries NotificationQueries
	db      pgquery.DBTX
}

func NewNotificationRepository(queries NotificationQueries, db pgquery.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	params := pgquery.CreateNotificationJobParams{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
	}
	if err := r.queries.CreateNotificationJob(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*shared.NotificationJob, error) {
	rows, err := r.queries.ClaimDueNotificationJobs(ctx, r.db, pgconv.TimeToPgtype(now), int32(limit)) // #nosec G115 -- small batch size
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	jobs := make([]*shared.NotificationJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, &shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			RunAt:    pgconv.TimeFromPgtype(row.RunAt),
			Attempts: int(row.Attempts),
		})
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := r.queries.MarkNotificationJobSent(ctx, r.db, id, pgconv.TimeToPgtype(at)); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextRunAt time.Time) error {
	err := r.queries.MarkNotificationJobFailed(ctx, r.db, pgquery.MarkNotificationJobFailedParams{
		ID:          id,
		LastError:   pgconv.TextFromString(lastError),
		NextRunAt:   pgconv.TimeToPgtype(nextRunAt),
		MaxAttempts: MaxNotificationAttempts,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
