package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizfan/soalku/internal/llm"
	"github.com/rizfan/soalku/internal/verdict"
)

const goodReport = `{
  "bloom": {"level": 4, "secondary": [3], "confidence": 0.9},
  "hots": {"tier": "H2", "confidence": 0.88},
  "boundedness": {"tier": "B2", "confidence": 0.93},
  "difficulty": {"score": 6.5, "label": "moderate", "confidence": 0.8},
  "clarity_score": 85,
  "flags": {"ambiguity": [], "missing_info": [], "grade_mismatch": []},
  "suggested_edits": []
}`

func sampleInput() AnalyzeInput {
	return AnalyzeInput{
		Text:              "A train travels 120 km in 1.5 hours. What is its average speed?",
		Type:              "multiple_choice",
		Options:           map[string]string{"A": "60 km/h", "B": "80 km/h", "C": "90 km/h", "D": "180 km/h"},
		CorrectAnswer:     "B",
		TeacherDifficulty: 3,
		TeacherHOTSClaim:  true,
		Subject:           "Physics",
		GradeBand:         "7-9",
	}
}

func TestAnalyze_DecodesVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(goodReport),
	})
	c := New(mock, DefaultConfig())

	v, err := c.Analyze(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 4, v.BloomLevel)
	assert.Equal(t, verdict.HOTSStrong, v.HOTS)
	assert.Equal(t, verdict.BoundednessTight, v.Boundedness)
	assert.Equal(t, 85, v.ClarityScore)
}

func TestAnalyze_PromptCarriesQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(goodReport),
	})
	c := New(mock, DefaultConfig())

	_, err := c.Analyze(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	req := mock.Calls[0]
	assert.NotEmpty(t, req.System)
	assert.Nil(t, req.Schema, "decoding is client-side; no structured-output schema")
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)

	body := req.Messages[0].Content
	for _, want := range []string{
		"A train travels 120 km",
		"Subject: Physics",
		"Grade band: 7-9",
		"Teacher-declared difficulty (1-5): 3",
		"Teacher claims higher-order thinking: true",
		"B. 80 km/h",
		"Declared correct answer:",
	} {
		assert.Contains(t, body, want)
	}
}

func TestAnalyze_StructuredOutputRequestsSchema(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(goodReport),
	})
	cfg := DefaultConfig()
	cfg.StructuredOutput = true
	c := New(mock, cfg)

	v, err := c.Analyze(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 4, v.BloomLevel)

	require.Len(t, mock.Calls, 1)
	schema := mock.Calls[0].Schema
	require.NotNil(t, schema)
	assert.Equal(t, "quality-report", schema.Name)
	assert.Equal(t, verdict.ReportSchema, schema.Definition,
		"the provider constraint and the decoder validate the same shape")
}

func TestAnalyze_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
	})
	c := New(mock, DefaultConfig())

	_, err := c.Analyze(context.Background(), sampleInput())

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable, "should unwrap to the transport error")
}

func TestAnalyze_EmptyBodyIsProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("  \n"),
	})
	c := New(mock, DefaultConfig())

	_, err := c.Analyze(context.Background(), sampleInput())

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
}

func TestAnalyze_MalformedReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("The question looks fine to me!"),
	})
	c := New(mock, DefaultConfig())

	_, err := c.Analyze(context.Background(), sampleInput())

	var merr *verdict.ErrMalformed
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "The question looks fine to me!", merr.Raw, "raw reply preserved for diagnostics")
}

func TestAnalyze_FencedMangledReply(t *testing.T) {
	reply := "Here is my assessment:\n```json\n" + strings.Replace(
		goodReport,
		`"suggested_edits": []`,
		`"suggested_edits": ["replace \frac{120}{1.5} with plain division"]`,
		1,
	) + "\n```"

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(reply),
	})
	c := New(mock, DefaultConfig())

	v, err := c.Analyze(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Len(t, v.SuggestedEdits, 1)
	assert.Contains(t, v.SuggestedEdits[0], `\frac{120}{1.5}`, "notation kept literally")
}
