package gateway

import (
	"context"
	"fmt"
)

// Roles accepted by every completion backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a completion request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the sampling parameters for one completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Completer turns an ordered sequence of conversation turns into a single
// text completion. Implementations make exactly one network call per
// invocation: no caching, no retries. Retry policy belongs to the caller.
type Completer interface {
	Complete(ctx context.Context, turns []Turn, opts Options) (string, error)
}

// GatewayError wraps transport, auth and malformed-envelope failures from a
// completion backend.
type GatewayError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Provider, e.Reason)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// validateRequest enforces the request contract shared by all backends
// before any network traffic happens.
func validateRequest(provider string, turns []Turn, opts Options) error {
	if len(turns) == 0 {
		return &GatewayError{Provider: provider, Reason: "empty turn sequence"}
	}
	if opts.Temperature < 0 || opts.Temperature > 1 {
		return &GatewayError{Provider: provider, Reason: fmt.Sprintf("temperature %v out of [0,1]", opts.Temperature)}
	}
	if opts.TopP <= 0 || opts.TopP > 1 {
		return &GatewayError{Provider: provider, Reason: fmt.Sprintf("top_p %v out of (0,1]", opts.TopP)}
	}
	return nil
}
