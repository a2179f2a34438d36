package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	reqdto "marketplace-booking/internal/handler/dto/request"
	resdto "marketplace-booking/internal/handler/dto/response"
	"marketplace-booking/internal/handler/httperr"
	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/commands"
	"marketplace-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds  commands.BookingCommands
	slots queries.SlotQueries
	q     queries.BookingQueries
	clock clock.Clock
}

func NewBookingHandler(cmds commands.BookingCommands, slots queries.SlotQueries, q queries.BookingQueries, clk clock.Clock) *BookingHandler {
	return &BookingHandler{cmds: cmds, slots: slots, q: q, clock: clk}
}

// @Summary List slots
// @Description Candidate slots of one date. Taken or held slots are returned with available=false.
// @Tags bookings
// @Produce json
// @Param service_id path string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD) in the booking time zone"
// @Param duration query int false "Slot length in minutes (defaults to the base granularity)"
// @Success 200 {object} resdto.SlotsResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/available-slots/{service_id} [get]
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("service_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service id", nil)
		return
	}
	date := c.Query("date")
	if date == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, queries.ErrInvalidDate, "date is required", nil)
		return
	}
	duration := 0
	if v := c.Query("duration"); v != "" {
		if duration, err = strconv.Atoi(v); err != nil || duration <= 0 {
			httperr.AbortWithError(c, http.StatusBadRequest, queries.ErrInvalidDuration, "Invalid duration", nil)
			return
		}
	}
	// Anonymous callers see every hold as locked.
	viewerID, _ := middleware.GetUserID(c)

	view, err := h.slots.AvailableSlots(c.Request.Context(), serviceID, date, duration, viewerID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	res, err := resdto.FromSlotsView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Lock slot
// @Description Place a short hold on a slot. Failure is not fatal for the caller; create re-validates.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.LockSlotRequest true "Slot to hold"
// @Success 200 {object} resdto.SlotReservationResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /bookings/lock-slot [post]
func (h *BookingHandler) LockSlot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.LockSlotRequest
	if !bindBookingJSON(c, &req) {
		return
	}
	hold, err := h.cmds.LockSlot(c.Request.Context(), req.ToInput(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusUnprocessableEntity)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotReservation(hold, h.clock.Now()))
}

// @Summary Release slot
// @Description Drop the caller's own hold on a slot. Releasing a slot that is not held succeeds.
// @Tags bookings
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.LockSlotRequest true "Slot to release"
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/release-slot [post]
func (h *BookingHandler) ReleaseSlot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.LockSlotRequest
	if !bindBookingJSON(c, &req) {
		return
	}
	if err := h.cmds.ReleaseSlot(c.Request.Context(), req.ToInput(), userID); err != nil {
		httperr.AbortWithKind(c, err, http.StatusUnprocessableEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create booking
// @Description Book a slot. Validation and insert run atomically; a taken slot yields 409.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /bookings/create [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if !bindBookingJSON(c, &req) {
		return
	}
	result, err := h.cmds.CreateBooking(c.Request.Context(), req.ToInput(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusUnprocessableEntity)
		return
	}
	view, err := h.q.GetBooking(c.Request.Context(), result.BookingID, userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	middleware.SetBookingID(c, result.BookingID.String())
	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	c.JSON(http.StatusCreated, res)
}

// @Summary Get booking
// @Description Booking details, visible to its client and provider only
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetBooking(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary List my bookings
// @Description Caller's bookings, newest start first, with keyset pagination
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param as query string false "client (default) or provider"
// @Param status query string false "Comma separated statuses"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings/my-bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	filter := queries.BookingFilter{
		UserID: userID,
		As:     queries.BookingRole(c.DefaultQuery("as", string(queries.AsClient))),
	}
	if v := c.Query("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			if st = strings.TrimSpace(st); st != "" {
				filter.Statuses = append(filter.Statuses, st)
			}
		}
	}
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListMyBookings(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusBadRequest)
		return
	}
	res, err := resdto.FromBookingList(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Cancel booking
// @Description Client or provider cancels a pending or confirmed booking before it starts
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cmds.CancelBooking)
}

// @Summary Complete booking
// @Description Provider marks a confirmed booking completed
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.cmds.CompleteBooking)
}

// @Summary Confirm booking
// @Description Provider confirms a pending booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.cmds.ConfirmBooking)
}

// @Summary Attach meeting link
// @Description Provider attaches a meeting link to a confirmed booking; an empty link generates one
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.MeetingLinkRequest false "Meeting link"
// @Success 200 {object} resdto.MeetingLinkResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/meeting-link [post]
func (h *BookingHandler) AttachMeetingLink(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.MeetingLinkRequest
	if c.Request.ContentLength != 0 && !bindBookingJSON(c, &req) {
		return
	}
	link, err := h.cmds.AttachMeetingLink(c.Request.Context(), id, req.MeetingLink, userID)
	if err != nil {
		httperr.AbortWithKind(c, err, http.StatusUnprocessableEntity)
		return
	}
	c.JSON(http.StatusOK, resdto.MeetingLinkResponse{BookingID: id, MeetingLink: link.String()})
}

func (h *BookingHandler) transition(c *gin.Context, apply func(ctx context.Context, bookingID, actorID uuid.UUID) error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing actor"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := apply(c.Request.Context(), id, userID); err != nil {
		httperr.AbortWithKind(c, err, http.StatusUnprocessableEntity)
		return
	}
	view, err := h.q.GetBooking(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindBookingJSON answers 422 for rule violations and 400 for unreadable bodies.
func bindBookingJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if fields := middleware.BindingErrors(err); fields != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request", fields)
		return false
	}
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	return false
}
