package verdict

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSanitizeEscapes_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no backslashes unchanged",
			in:   `{"a": "plain text", "n": 1}`,
			want: `{"a": "plain text", "n": 1}`,
		},
		{
			name: "valid escapes kept",
			in:   `{"a": "he said \"hi\" and a\/b and c\\d"}`,
			want: `{"a": "he said \"hi\" and a\/b and c\\d"}`,
		},
		{
			name: "unicode escape kept verbatim",
			in:   `{"a": "angle \u03b8 here"}`,
			want: `{"a": "angle \u03b8 here"}`,
		},
		{
			name: "frac doubles the overloaded f escape",
			in:   `{"a": "compute \frac{1}{2}"}`,
			want: `{"a": "compute \\frac{1}{2}"}`,
		},
		{
			name: "times doubles the overloaded t escape",
			in:   `{"a": "3 \times 4"}`,
			want: `{"a": "3 \\times 4"}`,
		},
		{
			name: "newline escape before non-letter kept",
			in:   `{"a": "line one\nline two"}`,
			want: `{"a": "line one\nline two"}`,
		},
		{
			name: "tab escape at end of string kept",
			in:   `{"a": "ends with\t"}`,
			want: `{"a": "ends with\t"}`,
		},
		{
			name: "non-escape letter doubled",
			in:   `{"a": "\sqrt{x}"}`,
			want: `{"a": "\\sqrt{x}"}`,
		},
		{
			name: "non-escape symbol doubled",
			in:   `{"a": "interval \(0,1\)"}`,
			want: `{"a": "interval \\(0,1\\)"}`,
		},
		{
			name: "backslash outside string untouched",
			in:   `{"a": 1} \frac`,
			want: `{"a": 1} \frac`,
		},
		{
			name: "escaped quote does not end the string",
			in:   `{"a": "q: \"\frac{a}{b}\" done"}`,
			want: `{"a": "q: \"\\frac{a}{b}\" done"}`,
		},
		{
			name: "double backslash not re-scanned",
			in:   `{"a": "x\\frac"}`,
			want: `{"a": "x\\frac"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeEscapes(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeEscapes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Sanitizing a string with no notation sequences must leave a conventional
// parse unchanged.
func TestSanitizeEscapes_IdempotentOnCleanJSON(t *testing.T) {
	in := `{"text": "plain question\nwith a break and a \"quote\"", "score": 3}`

	var want, got map[string]any
	if err := json.Unmarshal([]byte(in), &want); err != nil {
		t.Fatalf("baseline parse failed: %v", err)
	}
	if err := json.Unmarshal([]byte(SanitizeEscapes(in)), &got); err != nil {
		t.Fatalf("sanitized parse failed: %v", err)
	}
	if want["text"] != got["text"] || want["score"] != got["score"] {
		t.Errorf("sanitized parse diverged: got %v, want %v", got, want)
	}
}

const sampleReport = `{
	"bloom": {"level": 4, "secondary": [3], "confidence": 0.92},
	"hots": {"tier": "H2", "confidence": 0.9},
	"boundedness": {"tier": "B2", "confidence": 0.88},
	"difficulty": {"score": 6.5, "label": "hard", "confidence": 0.81},
	"clarity_score": 85,
	"flags": {"ambiguity": [], "missing_info": [], "grade_mismatch": []},
	"suggested_edits": ["tighten the last sentence"]
}`

func TestDecode_PlainReport(t *testing.T) {
	v, err := Decode(sampleReport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.BloomLevel != 4 {
		t.Errorf("bloom level = %d, want 4", v.BloomLevel)
	}
	if v.HOTS != HOTSStrong {
		t.Errorf("hots = %q, want %q", v.HOTS, HOTSStrong)
	}
	if v.Boundedness != BoundednessTight {
		t.Errorf("boundedness = %q, want %q", v.Boundedness, BoundednessTight)
	}
	if v.DifficultyScore != 6.5 || v.DifficultyLabel != "hard" {
		t.Errorf("difficulty = %v/%q", v.DifficultyScore, v.DifficultyLabel)
	}
	if v.ClarityScore != 85 {
		t.Errorf("clarity = %d, want 85", v.ClarityScore)
	}
	if !v.Flags.Empty() {
		t.Errorf("flags not empty: %+v", v.Flags)
	}
	if v.Confidence.Difficulty != 0.81 {
		t.Errorf("difficulty confidence = %v, want 0.81", v.Confidence.Difficulty)
	}
	if len(v.RawReport) == 0 {
		t.Error("raw report not retained")
	}
}

func TestDecode_FencedWithProse(t *testing.T) {
	raw := "Here is my assessment:\n```json\n" + sampleReport + "\n```\n"
	v, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.BloomLevel != 4 {
		t.Errorf("bloom level = %d, want 4", v.BloomLevel)
	}
}

func TestDecode_NotationInStrings(t *testing.T) {
	raw := strings.Replace(sampleReport,
		`"tighten the last sentence"`,
		`"rewrite \frac{1}{2} as \tfrac{1}{2}"`, 1)

	v, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.SuggestedEdits) != 1 {
		t.Fatalf("suggested edits = %v", v.SuggestedEdits)
	}
	want := `rewrite \frac{1}{2} as \tfrac{1}{2}`
	if v.SuggestedEdits[0] != want {
		t.Errorf("edit = %q, want %q", v.SuggestedEdits[0], want)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no object", "the question looks fine to me"},
		{"truncated json", `{"bloom": {"level": 4`},
		{"schema violation", `{"bloom": {"level": 9, "confidence": 0.5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			var malformed *ErrMalformed
			if !errors.As(err, &malformed) {
				t.Fatalf("got %v, want *ErrMalformed", err)
			}
			if malformed.Raw != tt.raw {
				t.Errorf("raw text not preserved for diagnostics")
			}
		})
	}
}
