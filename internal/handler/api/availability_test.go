//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/handler/api"
	resdto "marketplace-booking/internal/handler/dto/response"
	"marketplace-booking/internal/handler/httperr"
	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/commands"
	"marketplace-booking/internal/usecase/queries"
	"marketplace-booking/internal/usecase/shared"
	"marketplace-booking/tests/common/httptest"
	"marketplace-booking/tests/common/testutil"
	commandsmock "marketplace-booking/tests/mock/commands"
	queriesmock "marketplace-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAvailabilityCommands
	mockQueries  *queriesmock.MockAvailabilityQueries
	sellerID     uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(middleware.RegisterValidators())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAvailabilityCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	handler := api.NewAvailabilityHandler(s.mockCommands, s.mockQueries)
	s.sellerID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.sellerID)
		c.Set("user_role", user.RoleSeller)
		c.Next()
	}

	s.router.POST("/availability", authMiddleware, handler.Set)
	s.router.GET("/availability/:service_id", handler.Get)
	s.router.DELETE("/availability/:service_id/:day_of_week", authMiddleware, handler.Delete)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) rule(serviceID uuid.UUID, day availability.DayOfWeek, windows ...[2]string) *availability.Rule {
	tw := make([]availability.TimeWindow, len(windows))
	for i, w := range windows {
		start, err := availability.ParseTimeOfDay(w[0])
		s.Require().NoError(err)
		end, err := availability.ParseTimeOfDay(w[1])
		s.Require().NoError(err)
		tw[i] = availability.NewTimeWindow(start, end)
	}
	r, err := availability.NewRule(serviceID, day, tw, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return r
}

// ================================================================================
// TestSet
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestSet() {
	url := "/availability"
	serviceID := uuid.New()
	reqBody := map[string]any{
		"service_id":  serviceID.String(),
		"day_of_week": 0,
		"time_slots": []map[string]any{
			{"start": "09:00", "end": "12:00"},
			{"start": "13:00", "end": "17:00"},
		},
	}

	s.Run("success: returns 200 with the stored rule", func() {
		s.mockCommands.EXPECT().
			SetDayAvailability(gomock.Any(), gomock.Any(), shared.Actor{ID: s.sellerID, Role: user.RoleSeller}).
			DoAndReturn(func(_ any, in commands.SetDayAvailabilityInput, _ shared.Actor) (*availability.Rule, error) {
				s.Equal(serviceID, in.ServiceID)
				s.Equal(0, in.DayOfWeek)
				s.Len(in.Windows, 2)
				return s.rule(serviceID, availability.Monday, [2]string{"09:00", "12:00"}, [2]string{"13:00", "17:00"}), nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, "POST", url, reqBody, "bearer-token")

		var body resdto.AvailabilityRuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(serviceID, body.ServiceID)
		s.Equal("monday", body.DayName)
		s.Equal([]resdto.TimeSlotResponse{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}, body.Windows)
	})

	s.Run("success: empty list closes the day", func() {
		s.mockCommands.EXPECT().SetDayAvailability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(s.rule(serviceID, availability.Monday), nil)

		req := testutil.DtoMap(s.T(), reqBody, testutil.Field("time_slots", []any{}))
		rec := httptest.PerformRequest(s.T(), s.router, "POST", url, req, "bearer-token")

		var body resdto.AvailabilityRuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Windows)
	})

	bindingCases := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{name: "missing service_id", mutate: testutil.Field("service_id", nil)},
		{name: "missing day_of_week", mutate: testutil.Field("day_of_week", nil)},
		{name: "day_of_week out of range", mutate: testutil.Field("day_of_week", 7)},
		{name: "negative day_of_week", mutate: testutil.Field("day_of_week", -1)},
		{name: "missing time_slots", mutate: testutil.Field("time_slots", nil)},
		{name: "malformed time", mutate: testutil.Field("time_slots", []map[string]any{{"start": "9am", "end": "12:00"}})},
		{name: "minute out of range", mutate: testutil.Field("time_slots", []map[string]any{{"start": "09:60", "end": "12:00"}})},
	}
	for _, tc := range bindingCases {
		s.Run("error: 400 on "+tc.name, func() {
			req := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, "POST", url, req, "bearer-token")
			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
		})
	}

	useCaseErrors := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "overlapping windows",
			err:    errs.Mark(&availability.ValidationError{Reason: "windows overlap"}, errs.ErrValidation),
			status: http.StatusBadRequest,
			code:   httperr.CodeValidation,
		},
		{name: "foreign service", err: errs.Mark(errs.New("not owner"), errs.ErrUnauthorizedAction), status: http.StatusForbidden, code: httperr.CodeForbidden},
		{name: "unknown service", err: errs.Mark(errs.New("service"), errs.ErrNotFound), status: http.StatusNotFound, code: httperr.CodeNotFound},
		{name: "storage failure", err: errs.New("db down"), status: http.StatusInternalServerError, code: httperr.CodeInternal},
	}
	for _, tc := range useCaseErrors {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().SetDayAvailability(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)
			rec := httptest.PerformRequest(s.T(), s.router, "POST", url, reqBody, "bearer-token")
			httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
		})
	}

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, "POST", url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 400 on malformed JSON", func() {
		rec := httptest.PerformRawRequest(s.T(), s.router, "POST", url, `{"service_id":`, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGet() {
	serviceID := uuid.New()

	s.Run("success: returns configured days", func() {
		view := &queries.AvailabilityView{
			ServiceID: serviceID,
			Days: []queries.DayAvailabilityView{
				{DayOfWeek: 0, DayName: "monday", Windows: []queries.WindowView{{Start: "09:00", End: "12:00"}}},
				{DayOfWeek: 4, DayName: "friday", Windows: []queries.WindowView{{Start: "10:00", End: "14:00"}}},
			},
		}
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), serviceID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, "GET", "/availability/"+serviceID.String(), nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Days, 2)
		s.Equal("friday", body.Days[1].DayName)
		s.Equal("10:00", body.Days[1].Windows[0].Start)
	})

	s.Run("error: 404 for unknown service", func() {
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), serviceID).
			Return(nil, errs.Mark(errs.New("service"), errs.ErrNotFound))

		rec := httptest.PerformRequest(s.T(), s.router, "GET", "/availability/"+serviceID.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})

	s.Run("error: 400 for malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, "GET", "/availability/not-a-uuid", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestDelete() {
	serviceID := uuid.New()
	url := "/availability/" + serviceID.String() + "/2"

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().DeleteDayAvailability(gomock.Any(), serviceID, 2, gomock.Any()).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, "DELETE", url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when no rule exists", func() {
		s.mockCommands.EXPECT().DeleteDayAvailability(gomock.Any(), serviceID, 2, gomock.Any()).
			Return(errs.Mark(errs.New("rule"), errs.ErrNotFound))

		rec := httptest.PerformRequest(s.T(), s.router, "DELETE", url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})

	s.Run("error: 400 for non numeric day", func() {
		rec := httptest.PerformRequest(s.T(), s.router, "DELETE", "/availability/"+serviceID.String()+"/monday", nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}
