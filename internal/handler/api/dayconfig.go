package api

import (
	"errors"
	"net/http"

	"slotboard/internal/domain/dayconfig"
	reqdto "slotboard/internal/handler/dto/request"
	resdto "slotboard/internal/handler/dto/response"
	"slotboard/internal/handler/httperr"
	"slotboard/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Error codes below are contract-stable; existing portal clients match
// on the exact strings.
const (
	codeOverlapBookedSlots = "overlap_booked_slots_exist"
	codePastOrToday        = "cannot_modify_today_or_past"
	codeRangeOverlap       = "range_overlap"
	codeRangeNotFound      = "range_not_found"
)

type DayConfigHandler struct {
	dayConfigCommands commands.DayConfigCommands
}

func NewDayConfigHandler(dayConfigCommands commands.DayConfigCommands) *DayConfigHandler {
	return &DayConfigHandler{
		dayConfigCommands: dayConfigCommands,
	}
}

// @Summary Create day range
// @Description Create a bookable day-config range and materialize its slots
// @Tags day-config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.DayRangeRequest true "Day range"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /day-config [post]
func (h *DayConfigHandler) CreateDayRange(c *gin.Context) {
	var req reqdto.DayRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	views, err := h.dayConfigCommands.CreateDayRange(c.Request.Context(), commands.CreateDayRangeInput{
		ResourceID: req.ResourceID,
		Day:        req.Day,
		Start:      req.Start,
		End:        req.End,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	slots := make([]resdto.SlotResponse, len(views))
	for i, v := range views {
		slots[i] = resdto.FromSlotView(v)
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

// @Summary Delete day range
// @Description Delete a day-config range unless it contains booked slots
// @Tags day-config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.DayRangeRequest true "Day range"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /day-config [delete]
func (h *DayConfigHandler) DeleteDayRange(c *gin.Context) {
	var req reqdto.DayRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	err := h.dayConfigCommands.DeleteDayRange(c.Request.Context(), commands.DeleteDayRangeInput{
		ResourceID: req.ResourceID,
		Day:        req.Day,
		Start:      req.Start,
		End:        req.End,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DayConfigHandler) writeError(c *gin.Context, err error) {
	var bookedErr *dayconfig.BookedOverlapError
	switch {
	case errors.As(err, &bookedErr):
		httperr.AbortWithResponse(c, err, httperr.Response{
			Status:      http.StatusConflict,
			Code:        codeOverlapBookedSlots,
			BookedCount: bookedErr.Count,
		})
	case errors.Is(err, dayconfig.ErrPastOrToday):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, codePastOrToday)
	case errors.Is(err, dayconfig.ErrRangeOverlap):
		httperr.AbortWithError(c, http.StatusConflict, err, codeRangeOverlap)
	case errors.Is(err, dayconfig.ErrRangeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, codeRangeNotFound)
	case errors.Is(err, commands.ErrValidation), errors.Is(err, dayconfig.ErrStepTooLarge):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid day range parameters")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
