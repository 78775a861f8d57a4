package v1

import (
	"net/http"
	"strconv"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxInboundForm bounds the parsed inbound email form.
const maxInboundForm = 10 << 20

type InboxHandler struct {
	inboxUC domain.InboxUsecase
}

func NewInboxHandler(api *gin.RouterGroup, inboxUC domain.InboxUsecase) {
	handler := &InboxHandler{inboxUC: inboxUC}

	api.POST("/email-webhook", handler.Inbound)
	api.GET("/inbox", middleware.RequireUser(), middleware.RequireTier(domain.TierPro), handler.List)
}

// Inbound godoc
// @Summary      Inbound email webhook
// @Description  Always answers 200 OK so the provider does not retry.
// @Tags         inbox
// @Accept       multipart/form-data
// @Produce      plain
// @Param        to       formData  string  true   "Recipients"
// @Param        from     formData  string  false  "Sender"
// @Param        subject  formData  string  false  "Subject"
// @Param        text     formData  string  false  "Plain-text body"
// @Param        html     formData  string  false  "HTML body"
// @Success      200      {string}  string  "OK"
// @Router       /email-webhook [post]
func (h *InboxHandler) Inbound(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxInboundForm)
	if err := c.Request.ParseMultipartForm(maxInboundForm); err != nil && err != http.ErrNotMultipart {
		logger.Log.Warn("Inbound email form unreadable", "error", err)
		response.Text(c, http.StatusOK, "OK")
		return
	}

	email := domain.InboundEmail{
		From:    c.PostForm("from"),
		Subject: c.PostForm("subject"),
		Text:    c.PostForm("text"),
		HTML:    c.PostForm("html"),
	}
	email.To = c.PostFormArray("to")

	if _, err := h.inboxUC.Receive(c.Request.Context(), email); err != nil {
		logger.Log.Error("Inbound email not stored", "error", err)
	}
	response.Text(c, http.StatusOK, "OK")
}

// List godoc
// @Summary      List career inbox messages
// @Tags         inbox
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max messages (default 50, max 100)"
// @Success      200    {object}  map[string][]domain.InboxMessage
// @Failure      401    {object}  response.ErrorBody
// @Failure      403    {object}  response.ErrorBody
// @Router       /inbox [get]
func (h *InboxHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	msgs, err := h.inboxUC.List(c.Request.Context(), middleware.CallerFrom(c).Identity, limit)
	if err != nil {
		fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.InboxMessage{}
	}
	response.JSON(c, http.StatusOK, gin.H{"messages": msgs})
}
