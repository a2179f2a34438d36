//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newService(clk clock.Clock, mutate func(*config.JWTConfig)) *jwt.Service {
	cfg := config.JWTConfig{Secret: "test-secret", Duration: time.Hour, Leeway: 30 * time.Second}
	if mutate != nil {
		mutate(&cfg)
	}
	return jwt.NewService(cfg, clk)
}

func TestService_RoundTrip(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	svc := newService(clk, nil)
	userID := uuid.New()

	token, err := svc.IssueToken(userID, user.RoleSeller)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, user.RoleSeller, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestService_Expiry(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	svc := newService(clk, nil)
	token, err := svc.IssueToken(uuid.New(), user.RoleBuyer)
	require.NoError(t, err)

	clk.Add(time.Hour + 10*time.Second)
	_, err = svc.ValidateToken(token)
	require.NoError(t, err, "within leeway")

	clk.Add(time.Minute)
	_, err = svc.ValidateToken(token)
	assert.True(t, errs.Is(err, jwt.ErrExpiredToken), "got %v", err)
}

func TestService_Rejections(t *testing.T) {
	clk := clock.NewMockClock(issuedAt)
	svc := newService(clk, func(c *config.JWTConfig) { c.Issuer = "marketplace-auth" })

	sign := func(claims gojwt.Claims, method gojwt.SigningMethod, key any) string {
		token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := func(mutate func(*jwt.Claims)) jwt.Claims {
		c := jwt.Claims{
			UserID: uuid.New(),
			Role:   user.RoleBuyer,
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    "marketplace-auth",
				ExpiresAt: gojwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		}
		if mutate != nil {
			mutate(&c)
		}
		return c
	}

	ok, err := svc.ValidateToken(sign(valid(nil), gojwt.SigningMethodHS256, []byte("test-secret")))
	require.NoError(t, err)
	assert.Equal(t, user.RoleBuyer, ok.Role)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: sign(valid(nil), gojwt.SigningMethodHS256, []byte("other"))},
		{name: "other hmac algorithm", token: sign(valid(nil), gojwt.SigningMethodHS512, []byte("test-secret"))},
		{name: "unknown role", token: sign(valid(func(c *jwt.Claims) { c.Role = "moderator" }), gojwt.SigningMethodHS256, []byte("test-secret"))},
		{name: "nil account", token: sign(valid(func(c *jwt.Claims) { c.UserID = uuid.Nil }), gojwt.SigningMethodHS256, []byte("test-secret"))},
		{name: "foreign issuer", token: sign(valid(func(c *jwt.Claims) { c.Issuer = "elsewhere" }), gojwt.SigningMethodHS256, []byte("test-secret"))},
		{name: "no expiry", token: sign(valid(func(c *jwt.Claims) { c.ExpiresAt = nil }), gojwt.SigningMethodHS256, []byte("test-secret"))},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tc.token)
			assert.True(t, errs.Is(err, jwt.ErrInvalidToken), "got %v", err)
		})
	}
}
