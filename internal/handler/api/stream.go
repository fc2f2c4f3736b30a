package api

import (
	"errors"
	"io"
	"net/http"

	"slotboard/internal/domain/slot"
	"slotboard/internal/handler/httperr"
	"slotboard/internal/handler/middleware"
	"slotboard/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StreamHandler struct {
	coordinator *realtime.Coordinator
}

func NewStreamHandler(coordinator *realtime.Coordinator) *StreamHandler {
	return &StreamHandler{coordinator: coordinator}
}

// @Summary Stream day events
// @Description SSE stream for one resource and day: hello, a private slots_snapshot, then incremental slot events
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Param resourceID path string true "Resource ID"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string
// @Router /stream/day/{resourceID}/{day} [get]
func (h *StreamHandler) StreamDay(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resourceID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format")
		return
	}
	day, err := slot.NewDay(c.Param("day"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid day format")
		return
	}

	h.serve(c, func(sess *realtime.Session) error {
		return h.coordinator.JoinDay(c.Request.Context(), sess, resourceID, day)
	})
}

// @Summary Stream drop events
// @Description SSE stream of slot_released events across all days of one resource
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Param resourceID path string true "Resource ID"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string
// @Router /stream/drops/{resourceID} [get]
func (h *StreamHandler) StreamDrops(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resourceID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format")
		return
	}

	h.serve(c, func(sess *realtime.Session) error {
		h.coordinator.JoinDrops(sess, resourceID)
		return nil
	})
}

// serve runs the common SSE loop: create a session, announce its id,
// run the join step, then pump events until the client goes away or
// the session is closed for falling behind.
func (h *StreamHandler) serve(c *gin.Context, join func(*realtime.Session) error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoPrincipal, "Internal server error")
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoPrincipal, "Internal server error")
		return
	}

	sess := h.coordinator.NewSession(userID, role)
	defer h.coordinator.Disconnect(c.Request.Context(), sess)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent(string(realtime.EventHello), realtime.HelloPayload{SessionID: sess.ID()})
	c.Writer.Flush()

	if err := join(sess); err != nil {
		if !errors.Is(err, realtime.ErrSessionClosed) {
			c.SSEvent(string(realtime.EventError), realtime.ErrorPayload{Code: "join_failed"})
			c.Writer.Flush()
		}
		return
	}

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sess.Events():
			if !open {
				return false
			}
			c.SSEvent(string(ev.Type), ev.Data)
			return true
		case <-clientGone:
			return false
		}
	})
}
