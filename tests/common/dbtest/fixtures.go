//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestService(t *testing.T, db DBLike, providerID uuid.UUID, title string, basePriceCents int64, baseDurationMinutes int) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO services (id, provider_id, title, base_price_cents, base_duration_min) VALUES ($1, $2, $3, $4, $5)",
		serviceID, providerID, title, basePriceCents, baseDurationMinutes)
	require.NoError(t, err)

	return serviceID
}

// SetTestAvailability writes one weekday rule; windows are "HH:MM" pairs.
func SetTestAvailability(t *testing.T, db DBLike, serviceID uuid.UUID, dayOfWeek int, windows ...[2]string) {
	t.Helper()

	type window struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	ws := make([]window, len(windows))
	for i, w := range windows {
		ws[i] = window{Start: w[0], End: w[1]}
	}
	raw, err := json.Marshal(ws)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `
		INSERT INTO availability_rules (service_id, day_of_week, windows) VALUES ($1, $2, $3)
		ON CONFLICT (service_id, day_of_week) DO UPDATE SET windows = EXCLUDED.windows, updated_at = now()`,
		serviceID, dayOfWeek, raw)
	require.NoError(t, err)
}

func CountBookings(t *testing.T, db DBLike, serviceID uuid.UUID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE service_id = $1 AND status = $2", serviceID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
