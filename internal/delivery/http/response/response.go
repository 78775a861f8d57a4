package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error envelope: {"error": "..."} plus optional machine flags.
type ErrorBody struct {
	Error        string `json:"error"`
	LimitReached bool   `json:"limitReached,omitempty"`
	Remaining    *int   `json:"remaining,omitempty"`
	Upgrade      bool   `json:"upgradeRequired,omitempty"`
}

// SuccessBody is the envelope for endpoints that only acknowledge.
type SuccessBody struct {
	Success bool `json:"success"`
}

// JSON sends a flat success payload.
func JSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// Error sends the error envelope. flags are merged next to the message.
func Error(c *gin.Context, code int, message string, flags map[string]any) {
	body := gin.H{"error": message}
	for k, v := range flags {
		body[k] = v
	}
	if reqID, ok := c.Get("RequestID"); ok {
		if id, _ := reqID.(string); id != "" {
			c.Header("X-Request-ID", id)
		}
	}
	c.AbortWithStatusJSON(code, body)
}

// Text sends a plain-text body, the contract webhook providers expect.
func Text(c *gin.Context, code int, body string) {
	c.String(code, body)
}

// File streams a download with an attachment disposition.
func File(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
