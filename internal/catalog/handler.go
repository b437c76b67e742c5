package catalog

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

// @Summary      List packs on sale
// @Tags         packs
// @Produce      json
// @Success      200 {array} catalog.PackTemplate
// @Failure      500 {object} api.ErrorResponse
// @Router       /packs/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	packs, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packs)
}

// @Summary      List all packs
// @Description  Admin-only: active and archived packs
// @Tags         admin,packs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} catalog.PackTemplate
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/packs [get]
func (h *Handler) ListAll(c *gin.Context) {
	packs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packs)
}

// @Summary      Create a pack
// @Tags         admin,packs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreatePackRequest true "Pack payload"
// @Success      201 {object} catalog.PackTemplate
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/packs [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePackRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pack, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pack)
}

// @Summary      Update a pack
// @Description  The pack code cannot be changed
// @Tags         admin,packs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Pack code"
// @Param        request body catalog.UpdatePackRequest true "Pack payload"
// @Success      200 {object} catalog.PackTemplate
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/packs/{code} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdatePackRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pack, err := h.service.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pack)
}

// @Summary      Archive a pack
// @Tags         admin,packs
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Pack code"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/packs/{code}/archive [post]
func (h *Handler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), c.Param("code")); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "pack archived"})
}

// @Summary      Delete a pack
// @Description  Fails with REFERENTIAL_CONFLICT while subscriptions reference the pack
// @Tags         admin,packs
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Pack code"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/packs/{code} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "pack deleted"})
}
