package llm

import (
	"context"
	"encoding/json"
)

// Provider is the transport boundary to the external content-quality
// analyzer. The pipeline treats the analyzer as a black box: prompt in,
// raw text (hopefully containing one structured report) out.
type Provider interface {
	// Generate sends one request and returns the model's reply.
	// When the request carries a Schema the provider asks for structured
	// output and validates the reply against it; otherwise Content carries
	// the raw reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single analyzer invocation.
type Request struct {
	// System sets the analyzer's role and grading constraints.
	System string

	// Messages is the conversation. The pipeline only ever sends a single
	// user message per question.
	Messages []Message

	// Schema, when set, requests native structured output conforming to it.
	// The analyzer sets it only when configured to; either way the reply
	// goes through the decoding in internal/verdict, since real analyzer
	// output arrives fenced and escape-mangled more often than not.
	Schema *Schema

	// MaxTokens bounds the reply length.
	MaxTokens int

	// Temperature in [0,1]; zero (deterministic) unless set.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured-output requests.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the analyzer's reply.
type Response struct {
	// Content is the reply body. Validated JSON when a Schema was sent,
	// the model's raw text bytes otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
