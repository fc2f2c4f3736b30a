package api

import (
	"errors"
	"net/http"

	resdto "slotboard/internal/handler/dto/response"
	"slotboard/internal/handler/httperr"
	"slotboard/internal/handler/middleware"
	"slotboard/internal/pkg/errs"
	"slotboard/internal/realtime"
	"slotboard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

var (
	errNoPrincipal    = errs.New("authenticated principal missing from context")
	errSessionHeader  = errs.New("session header missing")
	errSessionUnknown = errs.New("session not registered with broker")
	errSessionOwner   = errs.New("session owned by another user")
)

type SlotHandler struct {
	coordinator *realtime.Coordinator
	slotQueries queries.SlotQueries
}

func NewSlotHandler(coordinator *realtime.Coordinator, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		coordinator: coordinator,
		slotQueries: slotQueries,
	}
}

// @Summary Hold slot
// @Description Place a time-bounded exclusive hold on a free slot
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param X-Session-ID header string true "Streaming session id"
// @Param slotID path string true "Slot ID"
// @Success 200 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{slotID}/hold [post]
func (h *SlotHandler) HoldSlot(c *gin.Context) {
	sess, slotID, ok := h.resolveAction(c)
	if !ok {
		return
	}

	expiresAt, err := h.coordinator.HoldSlot(c.Request.Context(), sess, slotID)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.HoldResponse{SlotID: slotID, ExpiresAt: expiresAt})
}

// @Summary Release hold
// @Description Release a hold you own
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param X-Session-ID header string true "Streaming session id"
// @Param slotID path string true "Slot ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{slotID}/release [post]
func (h *SlotHandler) ReleaseHold(c *gin.Context) {
	sess, slotID, ok := h.resolveAction(c)
	if !ok {
		return
	}

	if err := h.coordinator.ReleaseHold(c.Request.Context(), sess, slotID); err != nil {
		h.writeSlotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Book slot
// @Description Promote a hold you own into a booking
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param X-Session-ID header string true "Streaming session id"
// @Param slotID path string true "Slot ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{slotID}/book [post]
func (h *SlotHandler) BookSlot(c *gin.Context) {
	sess, slotID, ok := h.resolveAction(c)
	if !ok {
		return
	}

	if err := h.coordinator.BookSlot(c.Request.Context(), sess, slotID); err != nil {
		h.writeSlotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get day slots
// @Description Current slot snapshot for one resource and day
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param resourceID path string true "Resource ID"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} resdto.DaySlotsResponse
// @Failure 400 {object} map[string]string
// @Router /resources/{resourceID}/days/{day}/slots [get]
func (h *SlotHandler) GetDaySlots(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resourceID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format")
		return
	}
	day := c.Param("day")

	views, err := h.slotQueries.GetDaySlots(c.Request.Context(), resourceID, day)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidDay) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid day format")
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	slots := make([]resdto.SlotResponse, len(views))
	for i, v := range views {
		slots[i] = resdto.FromSlotDayView(v)
	}
	c.JSON(http.StatusOK, resdto.DaySlotsResponse{ResourceID: resourceID, Day: day, Slots: slots})
}

// @Summary Get day ranges
// @Description Day-config ranges for one resource and day
// @Tags day-config
// @Produce json
// @Security BearerAuth
// @Param resourceID path string true "Resource ID"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} resdto.DayRangeResponse
// @Failure 400 {object} map[string]string
// @Router /resources/{resourceID}/days/{day}/ranges [get]
func (h *SlotHandler) GetDayRanges(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resourceID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format")
		return
	}
	day := c.Param("day")

	views, err := h.slotQueries.GetDayRanges(c.Request.Context(), resourceID, day)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidDay) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid day format")
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	ranges := make([]resdto.DayRangeResponse, len(views))
	for i, v := range views {
		ranges[i] = resdto.FromDayRangeView(v)
	}
	c.JSON(http.StatusOK, ranges)
}

// resolveAction ties a slot action to the caller's live streaming
// session; the session must belong to the authenticated user.
func (h *SlotHandler) resolveAction(c *gin.Context) (*realtime.Session, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoPrincipal, "Internal server error")
		return nil, uuid.Nil, false
	}

	slotID, err := uuid.Parse(c.Param("slotID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot ID format")
		return nil, uuid.Nil, false
	}

	sessIDStr := c.GetHeader(sessionHeader)
	if sessIDStr == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errSessionHeader, "X-Session-ID header required")
		return nil, uuid.Nil, false
	}
	sessID, err := uuid.Parse(sessIDStr)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session ID format")
		return nil, uuid.Nil, false
	}

	sess := h.coordinator.Broker().Session(sessID)
	if sess == nil {
		httperr.AbortWithError(c, http.StatusNotFound, errSessionUnknown, "session_not_found")
		return nil, uuid.Nil, false
	}
	if sess.UserID() != userID {
		httperr.AbortWithError(c, http.StatusForbidden, errSessionOwner, "Session does not belong to caller")
		return nil, uuid.Nil, false
	}
	return sess, slotID, true
}

func (h *SlotHandler) writeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrSlotNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "slot_not_found")
	case errors.Is(err, errs.ErrAlreadyHeld):
		httperr.AbortWithError(c, http.StatusConflict, err, "already_held")
	case errors.Is(err, errs.ErrAlreadyBooked):
		httperr.AbortWithError(c, http.StatusConflict, err, "already_booked")
	case errors.Is(err, errs.ErrHoldExpired):
		httperr.AbortWithError(c, http.StatusConflict, err, "hold_expired")
	case errors.Is(err, errs.ErrNotHolder):
		httperr.AbortWithError(c, http.StatusConflict, err, "not_holder")
	case errors.Is(err, errs.ErrSlotConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "conflict")
	case errors.Is(err, realtime.ErrSessionClosed):
		httperr.AbortWithError(c, http.StatusGone, err, "session_closed")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
