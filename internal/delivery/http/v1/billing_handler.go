package v1

import (
	"errors"
	"io"
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/usecase"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody bounds the raw event read before verification.
const maxWebhookBody = 1 << 20

type BillingHandler struct {
	billingUC domain.BillingUsecase
}

func NewBillingHandler(api *gin.RouterGroup, billingUC domain.BillingUsecase) {
	handler := &BillingHandler{billingUC: billingUC}

	api.POST("/create-checkout", handler.CreateCheckout)
	api.POST("/create-portal-session", middleware.RequireUser(), handler.CreatePortalSession)
	api.POST("/stripe-webhook", handler.Webhook)
}

// CreateCheckout godoc
// @Summary      Start an embedded checkout
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateCheckoutRequest  false  "Plan (pro or max)"
// @Success      200      {object}  domain.CreateCheckoutResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /create-checkout [post]
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req domain.CreateCheckoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	resp, err := h.billingUC.CreateCheckout(c.Request.Context(), middleware.CallerFrom(c).Identity, domain.Plan(req.Plan))
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			c.Error(apperror.ServerMisconfigured("Payment system not configured", err))
			return
		}
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// CreatePortalSession godoc
// @Summary      Open the billing portal
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PortalSessionResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Router       /create-portal-session [post]
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	resp, err := h.billingUC.CreatePortalSession(c.Request.Context(), middleware.CallerFrom(c).Identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			c.Error(apperror.ServerMisconfigured("Payment system not configured", err))
			return
		}
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Webhook godoc
// @Summary      Payment provider webhook
// @Description  Verifies the Stripe-Signature header over the raw body. Errors are plain text.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {string}  string
// @Router       /stripe-webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Text(c, http.StatusBadRequest, "Unable to read body")
		return
	}

	err = h.billingUC.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, usecase.ErrInvalidSignature):
		response.Text(c, http.StatusBadRequest, "Webhook Error: invalid signature")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Text(c, http.StatusBadRequest, "Webhook Error: invalid payload")
	default:
		logger.Log.Error("Webhook processing failed", "error", err)
		response.Text(c, http.StatusInternalServerError, "Webhook handler failed")
	}
}
