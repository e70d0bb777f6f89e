// Package routing decides, from an analyzer verdict plus the teacher's own
// declarations, whether a question can be approved automatically or must be
// placed in front of an administrator. It is a pure function over its inputs
// so it can be tested exhaustively without storage or network.
package routing

import (
	"fmt"
	"sort"

	"github.com/rizfan/soalku/internal/verdict"
)

// Action is the routing outcome for one question.
type Action string

const (
	ActionAutoApprove Action = "auto_approve"
	ActionAdminReview Action = "admin_review"
)

// Reason is one rule that fired. Priority orders the admin queue; lower
// values are reviewed first.
type Reason struct {
	Code     string `json:"code"`
	Priority int    `json:"priority"`
	Detail   string `json:"detail"`
}

// Decision is the complete routing result. When Action is auto_approve,
// Reasons is empty and Priority is meaningless.
type Decision struct {
	Action   Action   `json:"action"`
	Reasons  []Reason `json:"reasons,omitempty"`
	Priority int      `json:"priority"`
}

// TeacherMeta carries the teacher's declarations checked against the verdict.
type TeacherMeta struct {
	Difficulty int  // declared difficulty, 1..5
	HOTSClaim  bool // teacher marked the question higher-order
}

// Reason codes, one per rule.
const (
	CodeUnclassifiable     = "unclassifiable"
	CodeUnboundedQuestion  = "unbounded_question"
	CodeMissingInfo        = "missing_info"
	CodeAmbiguity          = "ambiguity"
	CodeLowClarity         = "low_clarity"
	CodeHOTSClaimUnmet     = "hots_claim_unmet"
	CodeGradeMismatch      = "grade_mismatch"
	CodeDifficultyDisagree = "difficulty_disagreement"
	CodeLowConfidence      = "low_confidence"
)

// Tuning thresholds. These are deliberately conservative: any rule firing
// sends the question to a human, so false positives cost reviewer time but
// never publish a bad question.
const (
	clarityFloor        = 60
	confidenceFloor     = 0.70
	difficultyTolerance = 3.0
)

// Route classifies a verdict. It is total: any verdict pointer, including
// nil or one with out-of-range fields, yields exactly one decision. A
// verdict the rules cannot classify goes to admin review at top priority,
// because misrouting toward more scrutiny is safe and the reverse is not.
func Route(v *verdict.Verdict, meta TeacherMeta) Decision {
	if r, ok := classifiable(v); !ok {
		return Decision{
			Action:   ActionAdminReview,
			Reasons:  []Reason{r},
			Priority: r.Priority,
		}
	}

	var reasons []Reason
	add := func(code string, priority int, format string, args ...any) {
		reasons = append(reasons, Reason{
			Code:     code,
			Priority: priority,
			Detail:   fmt.Sprintf(format, args...),
		})
	}

	if v.Boundedness == verdict.BoundednessOpen {
		add(CodeUnboundedQuestion, 1, "question is open-ended (%s); answers cannot be scored consistently", v.Boundedness)
	}
	if len(v.Flags.MissingInfo) > 0 {
		add(CodeMissingInfo, 2, "analyzer flagged missing information: %v", v.Flags.MissingInfo)
	}
	if len(v.Flags.Ambiguity) > 0 {
		add(CodeAmbiguity, 3, "analyzer flagged ambiguity: %v", v.Flags.Ambiguity)
	}
	if v.ClarityScore < clarityFloor {
		add(CodeLowClarity, 3, "clarity score %d below %d", v.ClarityScore, clarityFloor)
	}
	if meta.HOTSClaim && v.HOTS == verdict.HOTSNone {
		add(CodeHOTSClaimUnmet, 4, "teacher marked higher-order thinking but analyzer found none")
	}
	if len(v.Flags.GradeMismatch) > 0 {
		add(CodeGradeMismatch, 4, "analyzer flagged grade mismatch: %v", v.Flags.GradeMismatch)
	}
	if delta := difficultyDelta(v.DifficultyScore, meta.Difficulty); delta > difficultyTolerance {
		add(CodeDifficultyDisagree, 5, "analyzer difficulty %.1f disagrees with declared level %d", v.DifficultyScore, meta.Difficulty)
	}
	if dim, conf, ok := lowestConfidence(v.Confidence); ok {
		add(CodeLowConfidence, 6, "%s confidence %.2f below %.2f", dim, conf, confidenceFloor)
	}

	if len(reasons) == 0 {
		return Decision{Action: ActionAutoApprove}
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Priority < reasons[j].Priority
	})
	return Decision{
		Action:   ActionAdminReview,
		Reasons:  reasons,
		Priority: reasons[0].Priority,
	}
}

// classifiable validates the verdict shape before the rules run. On failure
// it returns the fallback reason at priority zero.
func classifiable(v *verdict.Verdict) (Reason, bool) {
	bad := func(format string, args ...any) (Reason, bool) {
		return Reason{
			Code:     CodeUnclassifiable,
			Priority: 0,
			Detail:   fmt.Sprintf(format, args...),
		}, false
	}

	switch {
	case v == nil:
		return bad("no verdict")
	case v.BloomLevel < 1 || v.BloomLevel > 6:
		return bad("bloom level %d outside 1..6", v.BloomLevel)
	case !validHOTS(v.HOTS):
		return bad("unknown hots tier %q", v.HOTS)
	case !validBoundedness(v.Boundedness):
		return bad("unknown boundedness tier %q", v.Boundedness)
	case v.DifficultyScore < 0 || v.DifficultyScore > 10:
		return bad("difficulty score %.1f outside 0..10", v.DifficultyScore)
	case v.ClarityScore < 0 || v.ClarityScore > 100:
		return bad("clarity score %d outside 0..100", v.ClarityScore)
	}
	for _, c := range []float64{v.Confidence.Bloom, v.Confidence.HOTS, v.Confidence.Boundedness, v.Confidence.Difficulty} {
		if c < 0 || c > 1 {
			return bad("confidence %.2f outside 0..1", c)
		}
	}
	return Reason{}, true
}

func validHOTS(t verdict.HOTSTier) bool {
	return t == verdict.HOTSNone || t == verdict.HOTSPartial || t == verdict.HOTSStrong
}

func validBoundedness(t verdict.BoundednessTier) bool {
	return t == verdict.BoundednessOpen || t == verdict.BoundednessPartial || t == verdict.BoundednessTight
}

// difficultyDelta compares the analyzer's 0..10 score against the teacher's
// 1..5 declaration by mapping the declaration onto the same scale.
func difficultyDelta(score float64, declared int) float64 {
	d := score - float64(declared)*2
	if d < 0 {
		d = -d
	}
	return d
}

// lowestConfidence returns the weakest of the four dimensions when it falls
// below the floor.
func lowestConfidence(c verdict.Confidence) (string, float64, bool) {
	dims := []struct {
		name string
		val  float64
	}{
		{"bloom", c.Bloom},
		{"hots", c.HOTS},
		{"boundedness", c.Boundedness},
		{"difficulty", c.Difficulty},
	}
	name, low, found := "", 0.0, false
	for _, d := range dims {
		if d.val < confidenceFloor && (!found || d.val < low) {
			name, low, found = d.name, d.val, true
		}
	}
	return name, low, found
}
