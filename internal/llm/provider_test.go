package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ServesCannedResponsesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("got %s, want {\"a\":1}", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("got %d input tokens, want 10", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("got %s, want {\"b\":2}", resp2.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("got %d calls, want 2", mock.CallCount())
	}
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("got %T, want *ErrProviderUnavailable", err)
	}
}

func TestWithPurpose_RoundTrip(t *testing.T) {
	ctx := WithPurpose(context.Background(), "question-qc")
	if got := PurposeFrom(ctx); got != "question-qc" {
		t.Errorf("got %q, want %q", got, "question-qc")
	}
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("got %q, want %q", got, "unknown")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mock needs nothing", Config{Provider: "mock"}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"unknown provider", Config{Provider: "oracle"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
