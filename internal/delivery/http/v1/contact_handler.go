package v1

import (
	"errors"
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailUC domain.EmailUsecase
}

// NewEmailHandler registers outbound email (signed-in users only).
func NewEmailHandler(api *gin.RouterGroup, emailUC domain.EmailUsecase) {
	handler := &EmailHandler{emailUC: emailUC}
	api.POST("/send-email", middleware.RequireUser(), handler.Send)
}

// Send godoc
// @Summary      Send an email on behalf of the user
// @Description  Replies go to the signed-in user's address.
// @Tags         email
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.SendEmailRequest  true  "Message"
// @Success      200      {object}  response.SuccessBody
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      503      {object}  response.ErrorBody
// @Router       /send-email [post]
func (h *EmailHandler) Send(c *gin.Context) {
	var req domain.SendEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.emailUC.SendUserEmail(c.Request.Context(), middleware.CallerFrom(c).Identity, &req); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			c.Error(apperror.Unavailable("Email service temporarily unavailable", err))
			return
		}
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, response.SuccessBody{Success: true})
}
