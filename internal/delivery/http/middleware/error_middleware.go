package middleware

import (
	"errors"
	"net/http"

	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		reqID, _ := c.Get("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				// Upstream detail stays in the server log.
				logger.Log.Error("Request failed",
					"status", appErr.Code, "path", c.FullPath(), "request_id", reqID, "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Flags)
			return
		}

		logger.Log.Error("Internal Server Error", "path", c.FullPath(), "request_id", reqID, "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

// NoMethod answers requests whose path exists under another method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		appErr := apperror.MethodNotAllowed()
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}
