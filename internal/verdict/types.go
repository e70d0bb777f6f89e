package verdict

import "encoding/json"

// HOTSTier grades how much higher-order thinking a question actually demands.
type HOTSTier string

const (
	HOTSNone    HOTSTier = "H0" // pure recall
	HOTSPartial HOTSTier = "H1" // some analysis, mostly procedural
	HOTSStrong  HOTSTier = "H2" // genuine analysis/evaluation/synthesis
)

// BoundednessTier grades how well-defined the expected answer scope is.
type BoundednessTier string

const (
	BoundednessOpen    BoundednessTier = "B0" // ill-bounded, answer scope is anyone's guess
	BoundednessPartial BoundednessTier = "B1" // bounded with caveats
	BoundednessTight   BoundednessTier = "B2" // single well-defined expected answer
)

// Flags collects the analyzer's problem findings, grouped by kind.
// Empty slices mean a clean question.
type Flags struct {
	Ambiguity     []string `json:"ambiguity"`
	MissingInfo   []string `json:"missing_info"`
	GradeMismatch []string `json:"grade_mismatch"`
}

// Empty reports whether no flag of any kind was raised.
func (f Flags) Empty() bool {
	return len(f.Ambiguity) == 0 && len(f.MissingInfo) == 0 && len(f.GradeMismatch) == 0
}

// Confidence holds the analyzer's per-dimension confidence, each in [0,1].
type Confidence struct {
	Bloom       float64 `json:"bloom"`
	HOTS        float64 `json:"hots"`
	Boundedness float64 `json:"boundedness"`
	Difficulty  float64 `json:"difficulty"`
}

// Verdict is the structured output of one analyzer run for one question.
// Verdicts are immutable once written; a re-analysis appends a new one and
// readers always take the most recent.
type Verdict struct {
	BloomLevel     int             `json:"bloom_level"`     // 1..6
	BloomSecondary []int           `json:"bloom_secondary"` // other plausible levels
	HOTS           HOTSTier        `json:"hots_tier"`
	Boundedness    BoundednessTier `json:"boundedness_tier"`

	DifficultyScore float64 `json:"difficulty_score"` // 0..10
	DifficultyLabel string  `json:"difficulty_label"` // easy | moderate | hard
	ClarityScore    int     `json:"clarity_score"`    // 0..100

	Flags          Flags    `json:"flags"`
	SuggestedEdits []string `json:"suggested_edits"`

	Confidence Confidence `json:"confidence"`

	// RawReport is the analyzer's full report after escape sanitation,
	// kept verbatim for audit and display. Never branched on.
	RawReport json.RawMessage `json:"-"`
}
