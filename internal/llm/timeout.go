package llm

import (
	"context"
	"errors"
	"time"
)

// TimeoutProvider caps the wall-clock time of each Generate call. A call
// that hits the deadline surfaces as ErrProviderUnavailable, which the
// pipeline treats like any other transport failure.
type TimeoutProvider struct {
	provider Provider
	timeout  time.Duration
}

// WithTimeout wraps a provider with a per-call deadline. A non-positive
// timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{provider: p, timeout: timeout}
}

// Generate delegates with a bounded context.
func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.provider.Generate(ctx, req)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	return resp, err
}

// ModelID delegates to the wrapped provider.
func (t *TimeoutProvider) ModelID() string {
	return t.provider.ModelID()
}
