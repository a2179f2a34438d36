package api

import (
	"net/http"
	"strconv"

	reqdto "marketplace-booking/internal/handler/dto/request"
	resdto "marketplace-booking/internal/handler/dto/response"
	"marketplace-booking/internal/handler/httperr"
	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/commands"
	"marketplace-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	cmds commands.AvailabilityCommands
	q    queries.AvailabilityQueries
}

func NewAvailabilityHandler(cmds commands.AvailabilityCommands, q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{cmds: cmds, q: q}
}

// @Summary Set day availability
// @Description Replace the time windows of one weekday for a service. An empty list closes the day.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SetAvailabilityRequest true "Availability for one weekday"
// @Success 200 {object} resdto.AvailabilityRuleResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability [post]
func (h *AvailabilityHandler) Set(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", middleware.BindingErrors(err))
		return
	}
	rule, err := h.cmds.SetDayAvailability(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRule(rule))
}

// @Summary Get availability
// @Description Weekly availability of a service, one entry per configured weekday
// @Tags availability
// @Produce json
// @Param service_id path string true "Service ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability/{service_id} [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service id", nil)
		return
	}
	view, err := h.q.GetAvailability(c.Request.Context(), serviceID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	res, err := resdto.FromAvailabilityView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Delete day availability
// @Description Remove the rule of one weekday, closing it
// @Tags availability
// @Security BearerAuth
// @Param service_id path string true "Service ID"
// @Param day_of_week path int true "Day of week, 0 = Monday"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability/{service_id}/{day_of_week} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	serviceID, err := uuid.Parse(c.Param("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service id", nil)
		return
	}
	day, err := strconv.Atoi(c.Param("day_of_week"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid day of week", nil)
		return
	}
	if err := h.cmds.DeleteDayAvailability(c.Request.Context(), serviceID, day, actor); err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	c.Status(http.StatusNoContent)
}
