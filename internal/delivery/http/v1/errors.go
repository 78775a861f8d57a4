package v1

import (
	"errors"
	"net/http"

	"resumeai-backend/internal/domain"
	"resumeai-backend/internal/usecase"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/billing"
	"resumeai-backend/pkg/llm"
	"resumeai-backend/pkg/security"
	"resumeai-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// mapError turns usecase errors into the HTTP taxonomy. Upstream details go to the
// server log through AppError.Err and never into the message.
func mapError(c *gin.Context, err error) *apperror.AppError {
	var (
		appErr   *apperror.AppError
		limitErr *domain.LimitError
		inputErr *domain.InputError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &limitErr):
		return apperror.RateLimited("Daily limit reached. Upgrade your plan to continue.", limitErr.Remaining)
	case errors.As(err, &inputErr):
		return apperror.BadRequest(inputErr.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		return apperror.BadRequest("Invalid request")
	case errors.Is(err, usecase.ErrUnauthenticated):
		return apperror.Unauthorized("Authentication required")
	case errors.Is(err, usecase.ErrUploadThrottled):
		return apperror.New(http.StatusTooManyRequests, "Too many uploads. Please wait a minute and try again.", err)
	case errors.Is(err, domain.ErrNoBillingAccount):
		return apperror.BadRequest("No billing account found. Subscribe to a plan first.")
	case errors.Is(err, llm.ErrTimeout):
		return apperror.Timeout("The request timed out. Please try again.", err)
	case errors.Is(err, llm.ErrMalformedOutput):
		return apperror.MalformedUpstreamOutput(err)
	case errors.Is(err, llm.ErrNotConfigured), errors.Is(err, domain.ErrNotConfigured), errors.Is(err, billing.ErrNotConfigured):
		security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventServerMisconfigured,
			RequestID: c.GetString("RequestID"),
			Details:   map[string]any{"path": c.FullPath()},
		})
		return apperror.ServerMisconfigured("Service is not configured", err)
	case usecase.IsUpstreamFailure(err):
		return apperror.UpstreamFailure("The upstream service failed. Please try again later.", err)
	}
	return apperror.Internal(err)
}

// fail records err for the ErrorHandler middleware.
func fail(c *gin.Context, err error) {
	c.Error(mapError(c, err))
}

// bindJSON binds the request body and records a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventValidationFailed,
				RequestID: c.GetString("RequestID"),
				Details:   map[string]any{"path": c.FullPath()},
			})
			c.Error(apperror.BadRequest(validation.Message(err)))
			return false
		}
		c.Error(apperror.BadRequest("Invalid JSON body"))
		return false
	}
	return true
}
