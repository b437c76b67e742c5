package treasury

import (
	"net/http"
	"strconv"

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

// @Summary      Treasury journal
// @Description  Entries, newest first, with the available balance and the amount in clearing
// @Tags         treasury
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "IN or OUT"
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} treasury.Listing
// @Failure      400 {object} api.ErrorResponse
// @Router       /treasury [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	listing, err := h.service.List(c.Request.Context(), ListFilter{
		Type:   Type(c.Query("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// @Summary      Record a treasury entry
// @Description  Cheques start PENDING until cashed, every other method is CLEARED at once
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body treasury.RecordRequest true "Entry"
// @Success      201 {object} treasury.Transaction
// @Failure      400 {object} api.ErrorResponse
// @Router       /treasury [post]
func (h *Handler) Record(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req RecordRequest
	if !api.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Record(c.Request.Context(), userID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary      Cash a cheque
// @Tags         treasury
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      200 {object} treasury.Transaction
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse "INVALID_STATE"
// @Router       /treasury/{id}/cash [put]
func (h *Handler) MarkCleared(c *gin.Context) {
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.MarkCleared(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
