package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrMalformed means the analyzer replied but its content could not be turned
// into a verdict, even after escape sanitation. It carries the original raw
// text for diagnostics. Not retryable here; the question reverts to draft.
type ErrMalformed struct {
	Raw string
	Err error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed analyzer response: %v", e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// report is the wire shape of the analyzer's quality report.
type report struct {
	Bloom struct {
		Level      int     `json:"level"`
		Secondary  []int   `json:"secondary"`
		Confidence float64 `json:"confidence"`
	} `json:"bloom"`
	HOTS struct {
		Tier       string  `json:"tier"`
		Confidence float64 `json:"confidence"`
	} `json:"hots"`
	Boundedness struct {
		Tier       string  `json:"tier"`
		Confidence float64 `json:"confidence"`
	} `json:"boundedness"`
	Difficulty struct {
		Score      float64 `json:"score"`
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"difficulty"`
	ClarityScore   int      `json:"clarity_score"`
	Flags          Flags    `json:"flags"`
	SuggestedEdits []string `json:"suggested_edits"`
}

// Decode recovers a Verdict from raw analyzer output.
//
// The analyzer writes its report as JSON, but question text routinely embeds
// mathematical notation ("\frac{1}{2}", "\sqrt{x}") whose backslash sequences
// are not valid JSON escapes. Decode strips code-fence markup, isolates the
// JSON object, repairs in-string escape sequences, validates the result
// against ReportSchema and unmarshals it. Any failure is an *ErrMalformed
// carrying the original text.
func Decode(raw string) (*Verdict, error) {
	body := extractObject(stripFences(raw))
	if body == "" {
		return nil, &ErrMalformed{Raw: raw, Err: fmt.Errorf("no JSON object in response")}
	}

	sanitized := SanitizeEscapes(body)

	var parsed any
	if err := json.Unmarshal([]byte(sanitized), &parsed); err != nil {
		return nil, &ErrMalformed{Raw: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledReportSchema()
	if err != nil {
		return nil, &ErrMalformed{Raw: raw, Err: fmt.Errorf("compile report schema: %w", err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrMalformed{Raw: raw, Err: fmt.Errorf("report schema violation: %w", err)}
	}

	var rep report
	if err := json.Unmarshal([]byte(sanitized), &rep); err != nil {
		return nil, &ErrMalformed{Raw: raw, Err: fmt.Errorf("unmarshal report: %w", err)}
	}

	v := &Verdict{
		BloomLevel:      rep.Bloom.Level,
		BloomSecondary:  rep.Bloom.Secondary,
		HOTS:            HOTSTier(rep.HOTS.Tier),
		Boundedness:     BoundednessTier(rep.Boundedness.Tier),
		DifficultyScore: rep.Difficulty.Score,
		DifficultyLabel: rep.Difficulty.Label,
		ClarityScore:    rep.ClarityScore,
		Flags:           rep.Flags,
		SuggestedEdits:  rep.SuggestedEdits,
		Confidence: Confidence{
			Bloom:       rep.Bloom.Confidence,
			HOTS:        rep.HOTS.Confidence,
			Boundedness: rep.Boundedness.Confidence,
			Difficulty:  rep.Difficulty.Confidence,
		},
		RawReport: json.RawMessage(sanitized),
	}
	return v, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, if one is present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:] // drop the "json" (or similar) tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns s unchanged when it already starts with a JSON
// object or array; otherwise it returns the substring between the first '{'
// and the last '}', or "" when no object is present.
func extractObject(s string) string {
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// SanitizeEscapes repairs backslash sequences inside JSON string literals so
// that embedded mathematical notation survives a standard parse.
//
// The ambiguity: "\f" is a legitimate JSON escape (form feed) but also the
// start of "\frac". The rule is lookahead — a single-letter escape code
// followed by another letter is notation, and its backslash gets doubled so
// the parser sees a literal backslash. Outside string literals everything is
// copied verbatim.
func SanitizeEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if !inString {
			b.WriteByte(c)
			if c == '"' {
				inString = true
			}
			continue
		}

		if c == '"' {
			b.WriteByte(c)
			inString = false
			continue
		}

		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		// Backslash inside a string: decide by the next character.
		if i+1 >= len(s) {
			b.WriteString(`\\`) // dangling backslash at end of input
			continue
		}
		next := s[i+1]
		switch {
		case next == '"' || next == '\\' || next == '/':
			// Valid two-character escape; keep as-is. A kept "\\" also
			// consumes the pair so its second byte can't re-trigger.
			b.WriteByte(c)
			b.WriteByte(next)
			i++
		case next == 'u':
			// Unicode escape: copy \u plus up to 4 hex digits verbatim.
			end := i + 6
			if end > len(s) {
				end = len(s)
			}
			b.WriteString(s[i:end])
			i = end - 1
		case next == 'b' || next == 'f' || next == 'n' || next == 'r' || next == 't':
			// Overloaded single-letter escapes: "\f" alone is form feed,
			// "\fr..." is a notation command.
			if i+2 < len(s) && isLetter(s[i+2]) {
				b.WriteString(`\\`)
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
		default:
			// Anything else is not a valid JSON escape; make the
			// backslash literal.
			b.WriteString(`\\`)
			b.WriteByte(next)
			i++
		}
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var (
	schemaOnce sync.Once
	schemaVal  *jsonschema.Schema
	schemaErr  error
)

// compiledReportSchema compiles ReportSchema once and caches it.
func compiledReportSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		defBytes, err := json.Marshal(ReportSchema)
		if err != nil {
			schemaErr = err
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://quality-report.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = err
			return
		}
		schemaVal, schemaErr = c.Compile(url)
	})
	return schemaVal, schemaErr
}
