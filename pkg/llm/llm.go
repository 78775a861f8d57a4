// Package llm is the provider-neutral boundary to large language models.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout means the call exceeded its client-side bound.
	ErrTimeout = errors.New("llm: request timed out")
	// ErrMalformedOutput means no parse stage produced the required shape.
	ErrMalformedOutput = errors.New("llm: malformed model output")
	// ErrEmptyResponse means the provider returned no text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrNotConfigured means no provider credential is set.
	ErrNotConfigured = errors.New("llm: provider not configured")
)

// Request is one single-turn generation.
type Request struct {
	System    string
	User      string
	MaxTokens int
	// JSON asks the provider for a JSON-only response where supported.
	JSON        bool
	Temperature float32
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}

// UpstreamError carries a provider's non-2xx status. Body is for server logs only.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Provider, e.Status)
}

// Generate runs req under timeout. A deadline hit, whether from the timeout or the
// provider's own HTTP client, surfaces as ErrTimeout.
func Generate(ctx context.Context, client Client, req Request, timeout time.Duration) (string, error) {
	if client == nil {
		return "", ErrNotConfigured
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := client.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	return out, nil
}

// NotConfigured is a Client that always fails with ErrNotConfigured.
type NotConfigured struct{}

func (NotConfigured) Generate(context.Context, Request) (string, error) { return "", ErrNotConfigured }
func (NotConfigured) Model() string                                     { return "" }
