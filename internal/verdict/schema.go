package verdict

// ReportSchema is the JSON Schema the analyzer's quality report must satisfy.
// The decoder validates the sanitized report against it before unmarshalling,
// so the routing engine never sees a structurally broken verdict.
var ReportSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"bloom": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     6,
					"description": "Primary Bloom taxonomy level (1=remember .. 6=create)",
				},
				"secondary": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
				},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"level", "confidence"},
		},
		"hots": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tier":       map[string]any{"type": "string", "enum": []any{"H0", "H1", "H2"}},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"tier", "confidence"},
		},
		"boundedness": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tier":       map[string]any{"type": "string", "enum": []any{"B0", "B1", "B2"}},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"tier", "confidence"},
		},
		"difficulty": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":      map[string]any{"type": "number", "minimum": 0, "maximum": 10},
				"label":      map[string]any{"type": "string", "enum": []any{"easy", "moderate", "hard"}},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"score", "label", "confidence"},
		},
		"clarity_score": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     100,
			"description": "How clearly the question reads, 0 (opaque) to 100 (crystal)",
		},
		"flags": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ambiguity":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"missing_info":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"grade_mismatch": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		"suggested_edits": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []any{"bloom", "hots", "boundedness", "difficulty", "clarity_score", "flags"},
}
