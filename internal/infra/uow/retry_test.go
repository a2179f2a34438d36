//go:build unit

package uow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	serialization := &pgconn.PgError{Code: pgErrCodeSerializationFailure}
	deadlock := &pgconn.PgError{Code: pgErrCodeDeadlockDetected}

	testCases := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{name: "serialization failure on first attempt", err: serialization, attempt: 0, want: true},
		{name: "wrapped deadlock", err: fmt.Errorf("insert booking: %w", deadlock), attempt: 1, want: true},
		{name: "retries exhausted", err: serialization, attempt: 3, want: false},
		{name: "exclusion violation is final", err: &pgconn.PgError{Code: "23P01"}, attempt: 0, want: false},
		{name: "plain error", err: errors.New("boom"), attempt: 0, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldRetry(tc.err, tc.attempt, DefaultRetryPolicy.MaxRetries))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		floor := time.Duration(1<<attempt) * base
		got := calculateBackoff(attempt, base)
		assert.GreaterOrEqual(t, got, floor)
		assert.Less(t, got, floor+floor/5+time.Nanosecond)
	}
}
