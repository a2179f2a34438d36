//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/handler/httperr"
	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/usecase/shared"
	"marketplace-booking/tests/common/httptest"
	usecasemock "marketplace-booking/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *usecasemock.MockTokenValidator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	validator := usecasemock.NewMockTokenValidator(ctrl)
	auth := middleware.NewAuthMiddleware(validator)

	echo := func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": id.String(), "role": string(role)})
	}

	r := gin.New()
	r.GET("/private", auth.RequireAuth(), echo)
	r.GET("/provider", auth.RequireAuth(), auth.RequireProvider(), echo)
	r.GET("/public", auth.OptionalAuth(), echo)
	return r, validator
}

type echoBody struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
}

func TestRequireAuth(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Role: user.RoleBuyer}

	t.Run("valid token sets the actor", func(t *testing.T) {
		r, v := newAuthRouter(t)
		v.EXPECT().ValidateToken("good").Return(actor, nil)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "good")

		var body echoBody
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, actor.ID.String(), body.UserID)
		assert.Equal(t, "buyer", body.Role)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	t.Run("rejected token is 401", func(t *testing.T) {
		r, v := newAuthRouter(t)
		v.EXPECT().ValidateToken("expired").Return(shared.Actor{}, errors.New("token expired"))

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "expired")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRequireProvider(t *testing.T) {
	testCases := []struct {
		role       user.Role
		expectCode int
	}{
		{role: user.RoleSeller, expectCode: http.StatusOK},
		{role: user.RoleAdmin, expectCode: http.StatusOK},
		{role: user.RoleBuyer, expectCode: http.StatusForbidden},
	}
	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			r, v := newAuthRouter(t)
			v.EXPECT().ValidateToken("tok").Return(shared.Actor{ID: uuid.New(), Role: tc.role}, nil)

			rec := httptest.PerformRequest(t, r, http.MethodGet, "/provider", nil, "tok")
			assert.Equal(t, tc.expectCode, rec.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")

		var body echoBody
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.False(t, body.Authenticated)
	})

	t.Run("bad token is ignored", func(t *testing.T) {
		r, v := newAuthRouter(t)
		v.EXPECT().ValidateToken("junk").Return(shared.Actor{}, errors.New("malformed"))

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "junk")

		var body echoBody
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.False(t, body.Authenticated)
	})
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	t.Run("burst is enforced per caller", func(t *testing.T) {
		rl := middleware.NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2, IdleTTL: time.Minute})
		alice, bob := uuid.New(), uuid.New()
		r := gin.New()
		r.POST("/lock", func(c *gin.Context) {
			id := alice
			if c.GetHeader("Authorization") == "Bearer bob" {
				id = bob
			}
			c.Set("user_id", id)
			c.Next()
		}, rl.RateLimit(), ok)

		for range 2 {
			rec := httptest.PerformRequest(t, r, http.MethodPost, "/lock", nil, "alice")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
		rec := httptest.PerformRequest(t, r, http.MethodPost, "/lock", nil, "alice")
		httptest.AssertErrorCode(t, rec, http.StatusTooManyRequests, httperr.CodeRateLimited)

		rec = httptest.PerformRequest(t, r, http.MethodPost, "/lock", nil, "bob")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("disabled limiter lets everything through", func(t *testing.T) {
		rl := middleware.NewRateLimiter(config.RateLimitConfig{Enabled: false, RPS: 0.001, Burst: 1, IdleTTL: time.Minute})
		r := gin.New()
		r.POST("/lock", rl.RateLimit(), ok)

		for range 5 {
			rec := httptest.PerformRequest(t, r, http.MethodPost, "/lock", nil, "")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
	})
}
