package llm

import (
	"context"
	"fmt"

	"github.com/rizfan/soalku/internal/store"
)

// NewProvider builds a Provider from configuration, wrapped with event
// logging and (when MaxAttempts > 1) retry middleware.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller, retry, logging, timeout, base: every physical attempt is
	// logged and gets its own deadline.
	wrapped := WithLogging(WithTimeout(base, cfg.Timeout), events)
	if cfg.Retry.MaxAttempts > 1 {
		wrapped = WithRetry(wrapped, cfg.Retry)
	}

	return wrapped, nil
}
