package subscription

import (
	"net/http"

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

// @Summary      Request a pack
// @Description  Creates a PENDING subscription awaiting staff validation
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.RequestSubscriptionRequest true "Pack to request"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/request [post]
func (h *Handler) Request(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req RequestSubscriptionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Request(c.Request.Context(), userID, req.PackCode)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// @Summary      Pending requests
// @Tags         admin,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.PendingSubscription
// @Router       /subscriptions/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	pending, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// @Summary      Validate a pending subscription
// @Description  Records the payment taken and activates the subscription
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body subscription.ValidateRequest true "Payment evidence"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/subscriptions/validate/{id} [put]
func (h *Handler) Validate(c *gin.Context) {
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}
	var req ValidateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Validate(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary      Force-activate a pending subscription
// @Description  Activates without capturing a payment
// @Tags         admin,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/subscriptions/{id}/force-activate [put]
func (h *Handler) ForceActivate(c *gin.Context) {
	id, ok := api.IntParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.ForceActivate(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary      Record an additional payment
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.PaymentRequest true "Payment"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.RecordAdditionalPayment(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary      Walk-in sale
// @Description  Sells and activates a pack for an existing client
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.WalkInRequest true "Sale"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/subscriptions/walk-in [post]
func (h *Handler) SellWalkIn(c *gin.Context) {
	var req WalkInRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.SellWalkIn(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
