package llm

import "context"

type contextKey string

const purposeKey contextKey = "analyzer_purpose"

// WithPurpose attaches a purpose label ("question-qc", "bulk-qc", ...) to
// the context so the event log can say why a call was made.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
