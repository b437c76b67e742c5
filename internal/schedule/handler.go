package schedule

import (
	"net/http"

	"studiodesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Weekly planning
// @Description  Active weekly class slots
// @Tags         schedules
// @Produce      json
// @Success      200 {array} schedule.Slot
// @Router       /schedules [get]
func (h *Handler) ListActive(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context(), true)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// @Summary      All class slots
// @Tags         admin,schedules
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} schedule.Slot
// @Router       /admin/schedules [get]
func (h *Handler) ListAll(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context(), false)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// @Summary      Create a class slot
// @Tags         admin,schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body schedule.SlotRequest true "Slot payload"
// @Success      201 {object} schedule.Slot
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/schedules [post]
func (h *Handler) Create(c *gin.Context) {
	var req SlotRequest
	if !api.BindJSON(c, &req) {
		return
	}

	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// @Summary      Update a class slot
// @Tags         admin,schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Slot ID"
// @Param        request body schedule.SlotRequest true "Slot payload"
// @Success      200 {object} schedule.Slot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/schedules/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}
	var req SlotRequest
	if !api.BindJSON(c, &req) {
		return
	}

	slot, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// @Summary      Delete a class slot
// @Description  Fails with REFERENTIAL_CONFLICT while reservations exist
// @Tags         admin,schedules
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Slot ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/schedules/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "schedule slot deleted"})
}
