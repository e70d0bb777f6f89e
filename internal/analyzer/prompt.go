package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = `You are a question-quality analyst for a school assessment platform.

You receive a single teacher-authored question together with the teacher's own metadata. Evaluate the question and reply with exactly one JSON object, and nothing else, with this shape:

{
  "bloom": {"level": <1-6>, "secondary": [<1-6>...], "confidence": <0-1>},
  "hots": {"tier": "H0"|"H1"|"H2", "confidence": <0-1>},
  "boundedness": {"tier": "B0"|"B1"|"B2", "confidence": <0-1>},
  "difficulty": {"score": <0-10>, "label": "easy"|"moderate"|"hard", "confidence": <0-1>},
  "clarity_score": <0-100>,
  "flags": {"ambiguity": [...], "missing_info": [...], "grade_mismatch": [...]},
  "suggested_edits": [...]
}

Rules:
- "bloom.level" is the dominant Bloom taxonomy level the question exercises; "secondary" lists any others.
- "hots.tier" is H0 when the question needs only recall, H1 when it needs some higher-order thinking, H2 when it clearly requires analysis, evaluation or creation.
- "boundedness.tier" is B0 when the question is open-ended with no single defensible answer, B1 when partially constrained, B2 when the answer is fully determined by the question.
- "difficulty.score" is your own estimate for the stated grade band, independent of the teacher's declaration.
- "flags" arrays hold short human-readable findings; leave an array empty when you found nothing.
- Judge the question in its own subject and grade context. Quote question text verbatim inside flag entries where it helps the reviewer.`

// buildUserMessage renders one question into the analyzer prompt.
func buildUserMessage(in AnalyzeInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	fmt.Fprintf(&b, "Grade band: %s\n", in.GradeBand)
	fmt.Fprintf(&b, "Question type: %s\n", in.Type)
	fmt.Fprintf(&b, "Teacher-declared difficulty (1-5): %d\n", in.TeacherDifficulty)
	fmt.Fprintf(&b, "Teacher claims higher-order thinking: %t\n", in.TeacherHOTSClaim)

	b.WriteString("\nQuestion:\n")
	b.WriteString(in.Text)
	b.WriteString("\n")

	if len(in.Options) > 0 {
		b.WriteString("\nOptions:\n")
		keys := make([]string, 0, len(in.Options))
		for k := range in.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s. %s\n", k, in.Options[k])
		}
	}

	if in.CorrectAnswer != "" {
		b.WriteString("\nDeclared correct answer:\n")
		b.WriteString(in.CorrectAnswer)
		b.WriteString("\n")
	}

	return b.String()
}
