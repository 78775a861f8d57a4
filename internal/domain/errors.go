package domain

import "errors"

var (
	// ErrLimitReached means the caller's daily quota for a feature is exhausted.
	ErrLimitReached = errors.New("daily limit reached")
	// ErrNotConfigured means a required external credential is absent.
	ErrNotConfigured = errors.New("service not configured")
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream wraps non-2xx or transport failures of an external API.
	ErrUpstream = errors.New("upstream failure")
	// ErrInvalidInput covers request values that pass binding but fail business rules.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoBillingAccount means the profile has no payment-provider customer yet.
	ErrNoBillingAccount = errors.New("no billing account")
)

// LimitError carries the remaining allowance next to ErrLimitReached.
type LimitError struct {
	Feature   Feature
	Tier      Tier
	Remaining int
}

func (e *LimitError) Error() string {
	return ErrLimitReached.Error() + " for " + string(e.Feature)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitReached
}

// InputError is an ErrInvalidInput with a user-facing message.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInputError builds an InputError.
func NewInputError(msg string) error {
	return &InputError{Message: msg}
}
