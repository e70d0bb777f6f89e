// Package analyzer invokes the external content-quality analyzer for one
// question and normalizes its reply into a typed verdict or a typed failure.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rizfan/soalku/internal/llm"
	"github.com/rizfan/soalku/internal/verdict"
)

// AnalyzeInput carries everything the analyzer sees about one question. It
// is a plain value so the package stays independent of the storage layer.
type AnalyzeInput struct {
	Text          string
	Type          string
	Options       map[string]string
	CorrectAnswer string

	TeacherDifficulty int
	TeacherHOTSClaim  bool

	Subject   string
	GradeBand string
}

// ProviderError wraps any transport-level failure: network error, bad
// status, empty reply. It is non-retryable here; the lifecycle reverts the
// question and a later edit triggers re-analysis.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("analyzer provider failure: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Config bounds one analyzer call.
type Config struct {
	MaxTokens   int
	Temperature float64

	// StructuredOutput asks the provider for schema-constrained JSON using
	// its native structured-output mode. The escape-sanitizing decoder
	// still runs on the reply either way.
	StructuredOutput bool
}

// DefaultConfig returns the analysis call limits. Structured output stays
// off by default: not every deployed model supports it, and replies arrive
// fenced and escape-mangled from those that don't.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0,
	}
}

// ConfigFromEnv builds a Config from SOALKU_* environment variables,
// falling back to defaults for anything unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if n := os.Getenv("SOALKU_ANALYZER_MAX_TOKENS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.MaxTokens = v
		}
	}
	if s := os.Getenv("SOALKU_ANALYZER_STRUCTURED_OUTPUT"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			cfg.StructuredOutput = v
		}
	}

	return cfg
}

// reportSchema is the structured-output constraint handed to providers when
// Config.StructuredOutput is on. It is the same schema the decoder validates
// against, so both paths accept exactly the same reports.
var reportSchema = &llm.Schema{
	Name:        "quality-report",
	Description: "Question quality analysis report",
	Definition:  verdict.ReportSchema,
}

// Client drives a single quality analysis per call. One attempt, no retry;
// retry policy belongs to whoever owns the question's lifecycle.
type Client struct {
	provider llm.Provider
	config   Config
}

// New creates a Client on the given provider.
func New(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, config: cfg}
}

// Analyze evaluates one question. Failures are typed: *ProviderError when
// the analyzer could not be reached or replied empty, *verdict.ErrMalformed
// when it replied but the reply could not be decoded.
func (c *Client) Analyze(ctx context.Context, in AnalyzeInput) (*verdict.Verdict, error) {
	ctx = llm.WithPurpose(ctx, "quality-analysis")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}
	if c.config.StructuredOutput {
		req.Schema = reportSchema
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	raw := string(resp.Content)
	if strings.TrimSpace(raw) == "" {
		return nil, &ProviderError{Err: fmt.Errorf("empty response body")}
	}

	v, err := verdict.Decode(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}
