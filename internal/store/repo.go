package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rizfan/soalku/internal/verdict"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Source names one of the three question collections. They share one
// lifecycle contract but live in disjoint tables.
type Source string

const (
	SourceBank Source = "bank"
	SourceQuiz Source = "quiz"
	SourceExam Source = "exam"
)

// Valid reports whether s is one of the three known collections.
func (s Source) Valid() bool {
	return s == SourceBank || s == SourceQuiz || s == SourceExam
}

// Status is a question's lifecycle state. Only the lifecycle orchestrator
// transitions it.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusAnalyzing   Status = "analyzing"
	StatusApproved    Status = "approved"
	StatusAdminReview Status = "admin_review"
	StatusReturned    Status = "returned"
	StatusArchived    Status = "archived"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusAnalyzing, StatusApproved,
		StatusAdminReview, StatusReturned, StatusArchived:
		return true
	}
	return false
}

// QuestionRef identifies a question across the three collections.
type QuestionRef struct {
	Source Source
	ID     uuid.UUID
}

// Question is the lifecycle-relevant view of a teacher-authored question.
type Question struct {
	Ref          QuestionRef
	AssessmentID *uuid.UUID // set when the question belongs to a quiz/exam
	TeacherID    uuid.UUID

	Text          string
	Type          string // "multiple_choice" | "essay"
	Options       map[string]string
	CorrectAnswer string

	TeacherDifficulty int  // teacher-declared, 1..5
	TeacherHOTSClaim  bool // teacher says this is higher-order

	Subject   string
	GradeBand string

	Status    Status
	UpdatedAt time.Time
}

// ReviewDecision is a human reviewer's call on a question.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReturn  ReviewDecision = "return"
	DecisionArchive ReviewDecision = "archive"
)

// ReviewOverrides carries a reviewer's manual corrections to any of the four
// verdict dimensions. Nil fields mean "analyzer verdict stands".
type ReviewOverrides struct {
	BloomLevel      *int                     `json:"bloom_level,omitempty"`
	HOTS            *verdict.HOTSTier        `json:"hots_tier,omitempty"`
	Boundedness     *verdict.BoundednessTier `json:"boundedness_tier,omitempty"`
	DifficultyScore *float64                 `json:"difficulty_score,omitempty"`
}

// Review is one persisted human review action. Many can exist per question
// across edit/re-review cycles; the latest is authoritative for display.
type Review struct {
	ID            uuid.UUID
	Question      QuestionRef
	ReviewerID    uuid.UUID
	Decision      ReviewDecision
	Notes         string
	ReturnReasons []string
	Overrides     *ReviewOverrides
	CreatedAt     time.Time
}

// Assessment is a quiz or exam owning an ordered set of questions.
type Assessment struct {
	ID        uuid.UUID
	Kind      string // "quiz" | "exam"
	Title     string
	ClassID   uuid.UUID
	TermID    uuid.UUID
	TeacherID uuid.UUID

	IsActive       bool // published, visible to students
	PendingPublish bool // awaiting the all-children-approved gate
}

// Notification is one delivery tuple handed to the notification collaborator.
type Notification struct {
	RecipientID uuid.UUID
	Type        string
	Title       string
	Message     string
	Link        string
}

// QuestionRepo reads and transitions questions across the three collections.
type QuestionRepo interface {
	// Get loads one question, ErrNotFound when absent.
	Get(ctx context.Context, ref QuestionRef) (*Question, error)

	// SetStatus unconditionally writes a question's status.
	SetStatus(ctx context.Context, ref QuestionRef, status Status) error

	// ClaimForAnalysis conditionally moves a question into "analyzing" and
	// reports whether this caller won the claim. A question already
	// analyzing, returned or archived is not claimable.
	ClaimForAnalysis(ctx context.Context, ref QuestionRef) (bool, error)

	// ListByStatus returns questions in the given status across all three
	// collections.
	ListByStatus(ctx context.Context, status Status) ([]Question, error)

	// ListStuckAnalyzing returns questions that entered "analyzing" before
	// the cutoff and never left it.
	ListStuckAnalyzing(ctx context.Context, cutoff time.Time) ([]Question, error)
}

// VerdictRepo stores analyzer verdicts, append-only.
type VerdictRepo interface {
	// Insert persists a new verdict for the question. Existing verdicts
	// are never touched; readers take the most recent.
	Insert(ctx context.Context, ref QuestionRef, v *verdict.Verdict) error

	// LatestByQuestion returns the most recent verdict for the question,
	// or ErrNotFound when the question was never analyzed.
	LatestByQuestion(ctx context.Context, ref QuestionRef) (*verdict.Verdict, error)
}

// ReviewRepo stores human review records.
type ReviewRepo interface {
	Insert(ctx context.Context, r *Review) error
}

// AssessmentRepo reads assessments and performs the publish transition.
type AssessmentRepo interface {
	// GetWithQuestionStatuses loads an assessment plus the statuses of all
	// its child questions, in question order.
	GetWithQuestionStatuses(ctx context.Context, id uuid.UUID) (*Assessment, []Status, error)

	// MarkActive atomically sets is_active=true, pending_publish=false
	// WHERE pending_publish is still true, and returns the number of rows
	// changed. Zero means a concurrent caller won the race.
	MarkActive(ctx context.Context, id uuid.UUID) (int64, error)
}

// RosterRepo answers the notification fan-out questions.
type RosterRepo interface {
	// EnrolledStudents returns ids of students enrolled in the class for
	// the given term.
	EnrolledStudents(ctx context.Context, classID, termID uuid.UUID) ([]uuid.UUID, error)

	// Administrators returns all admin user ids.
	Administrators(ctx context.Context) ([]uuid.UUID, error)
}

// NotificationRepo inserts delivery tuples. Delivery mechanics are another
// component's concern; insertion failures are logged by callers, never fatal.
type NotificationRepo interface {
	Insert(ctx context.Context, batch []Notification) error
}

// AnalysisEventData captures one analyzer call for the audit trail.
type AnalysisEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// AnalysisEvent is a stored audit-trail entry.
type AnalysisEvent struct {
	ID        int64
	Timestamp time.Time
	AnalysisEventData
}

// EventQueryOpts filters event queries.
type EventQueryOpts struct {
	Limit   int
	Purpose string
}

// EventRepo is the analyzer-call audit trail.
type EventRepo interface {
	AppendAnalysisEvent(ctx context.Context, data AnalysisEventData) error
	QueryAnalysisEvents(ctx context.Context, opts EventQueryOpts) ([]AnalysisEvent, error)
	GetAnalysisEvent(ctx context.Context, id int64) (*AnalysisEvent, error)
}
