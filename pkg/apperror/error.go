package apperror

import "net/http"

type AppError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Flags   map[string]any `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFlag attaches a machine-readable field that is rendered next to the error message.
func (e *AppError) WithFlag(key string, value any) *AppError {
	if e.Flags == nil {
		e.Flags = make(map[string]any)
	}
	e.Flags[key] = value
	return e
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func MethodNotAllowed() *AppError {
	return New(http.StatusMethodNotAllowed, "Method not allowed", nil)
}

// RateLimited is returned when the caller's daily quota for a feature is exhausted.
func RateLimited(message string, remaining int) *AppError {
	return New(http.StatusTooManyRequests, message, nil).
		WithFlag("limitReached", true).
		WithFlag("remaining", remaining)
}

// UpgradeRequired is a Forbidden error for features gated behind a paid tier.
func UpgradeRequired(message string) *AppError {
	return Forbidden(message).WithFlag("upgradeRequired", true)
}

func UpstreamFailure(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}

func BadGateway(message string, err error) *AppError {
	return New(http.StatusBadGateway, message, err)
}

func Timeout(message string, err error) *AppError {
	return New(http.StatusGatewayTimeout, message, err)
}

func MalformedUpstreamOutput(err error) *AppError {
	return New(http.StatusInternalServerError, "The AI returned an unexpected response. Please try again.", err)
}

func ServerMisconfigured(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}

func Unavailable(message string, err error) *AppError {
	return New(http.StatusServiceUnavailable, message, err)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
