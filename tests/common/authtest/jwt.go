//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg, clock.NewRealClock()).IssueToken(userID, role)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken issues a token that lapsed well outside the leeway.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	issued := clock.NewMockClock(time.Now().Add(-h.cfg.Duration - h.cfg.Leeway - time.Hour))
	token, err := jwt.NewService(h.cfg, issued).IssueToken(userID, role)
	require.NoError(t, err)
	return token
}
