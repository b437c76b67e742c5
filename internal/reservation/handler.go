package reservation

import (
	"net/http"
	"time"

	"studiodesk/internal/api"
	"studiodesk/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Book a class
// @Description  Spends one session of the current subscription
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body reservation.BookRequest true "Occurrence to book"
// @Success      201 {object} reservation.Reservation
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse "NO_CREDIT"
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "SLOT_FULL, ALREADY_BOOKED or DUPLICATE_BOOKING"
// @Router       /reservations [post]
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req BookRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Book(c.Request.Context(), userID, req.ScheduleID, req.OccurrenceDate)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Cancel a reservation
// @Description  Returns the session when cancelled early enough, otherwise the session is consumed
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Reservation ID"
// @Success      200 {object} reservation.CancelResult
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "ALREADY_CANCELLED"
// @Router       /reservations/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      My reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} reservation.View
// @Router       /reservations/me [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	views, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary      Availability map
// @Description  Taken seats per occurrence, keyed "{scheduleId}-{ISO date}"
// @Tags         planning
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD), default today"
// @Param        to query string false "Last day (YYYY-MM-DD), default a week after from"
// @Success      200 {object} map[string]int
// @Failure      400 {object} api.ErrorResponse
// @Router       /planning/availability [get]
func (h *Handler) AvailabilityMap(c *gin.Context) {
	m, err := h.service.AvailabilityMap(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Availability of one occurrence
// @Tags         planning
// @Produce      json
// @Param        scheduleId path int true "Slot ID"
// @Param        occurrence_date query string true "Occurrence (RFC 3339)"
// @Success      200 {object} reservation.Availability
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /planning/availability/{scheduleId} [get]
func (h *Handler) Availability(c *gin.Context) {
	scheduleID, ok := api.IntParam(c, "scheduleId")
	if !ok {
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("occurrence_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "occurrence_date must be RFC 3339", Code: "VALIDATION_ERROR"})
		return
	}

	a, err := h.service.GetAvailability(c.Request.Context(), scheduleID, at)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Class participants
// @Tags         admin,reservations
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Day (YYYY-MM-DD)"
// @Param        scheduleId path int true "Slot ID"
// @Success      200 {array} reservation.Participant
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/sessions/{date}/{scheduleId}/participants [get]
func (h *Handler) Participants(c *gin.Context) {
	scheduleID, ok := api.IntParam(c, "scheduleId")
	if !ok {
		return
	}

	participants, err := h.service.Participants(c.Request.Context(), c.Param("date"), scheduleID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}
