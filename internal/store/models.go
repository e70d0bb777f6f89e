package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// questionTables maps a Source to its physical table. The three collections
// share one row shape but stay disjoint on purpose — they belong to
// different owning features of the surrounding application.
var questionTables = map[Source]string{
	SourceBank: "bank_questions",
	SourceQuiz: "quiz_questions",
	SourceExam: "exam_questions",
}

func tableFor(src Source) string {
	return questionTables[src]
}

type questionRow struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	AssessmentID *uuid.UUID `gorm:"column:assessment_id;type:uuid;index"`
	TeacherID    uuid.UUID  `gorm:"column:teacher_id;type:uuid;not null;index"`

	Text          string         `gorm:"column:text;type:text;not null"`
	Type          string         `gorm:"column:type;type:varchar(16);not null"`
	Options       datatypes.JSON `gorm:"column:options;type:jsonb"`
	CorrectAnswer string         `gorm:"column:correct_answer;type:text"`

	TeacherDifficulty int  `gorm:"column:teacher_difficulty;not null;default:3"`
	TeacherHOTSClaim  bool `gorm:"column:teacher_hots_claim;not null;default:false"`

	Subject   string `gorm:"column:subject;type:varchar(64)"`
	GradeBand string `gorm:"column:grade_band;type:varchar(16)"`

	Status    string    `gorm:"column:status;type:varchar(16);not null;default:'draft';index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type verdictRow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Source     string    `gorm:"column:source;type:varchar(8);not null;index:idx_verdicts_question"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null;index:idx_verdicts_question"`

	BloomLevel      int            `gorm:"column:bloom_level;not null"`
	BloomSecondary  datatypes.JSON `gorm:"column:bloom_secondary;type:jsonb"`
	HOTSTier        string         `gorm:"column:hots_tier;type:varchar(4);not null"`
	BoundednessTier string         `gorm:"column:boundedness_tier;type:varchar(4);not null"`
	DifficultyScore float64        `gorm:"column:difficulty_score;type:numeric(4,1);not null"`
	DifficultyLabel string         `gorm:"column:difficulty_label;type:varchar(16);not null"`
	ClarityScore    int            `gorm:"column:clarity_score;not null"`

	Flags          datatypes.JSON `gorm:"column:flags;type:jsonb"`
	SuggestedEdits datatypes.JSON `gorm:"column:suggested_edits;type:jsonb"`

	ConfBloom       float64 `gorm:"column:conf_bloom;type:numeric(3,2);not null"`
	ConfHOTS        float64 `gorm:"column:conf_hots;type:numeric(3,2);not null"`
	ConfBoundedness float64 `gorm:"column:conf_boundedness;type:numeric(3,2);not null"`
	ConfDifficulty  float64 `gorm:"column:conf_difficulty;type:numeric(3,2);not null"`

	RawReport datatypes.JSON `gorm:"column:raw_report;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_verdicts_question,sort:desc"`
}

func (verdictRow) TableName() string { return "question_verdicts" }

type reviewRow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Source     string    `gorm:"column:source;type:varchar(8);not null;index:idx_reviews_question"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null;index:idx_reviews_question"`
	ReviewerID uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null"`

	Decision      string         `gorm:"column:decision;type:varchar(8);not null"`
	Notes         string         `gorm:"column:notes;type:text"`
	ReturnReasons datatypes.JSON `gorm:"column:return_reasons;type:jsonb"`
	Overrides     datatypes.JSON `gorm:"column:overrides;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (reviewRow) TableName() string { return "question_reviews" }

type assessmentRow struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind      string    `gorm:"column:kind;type:varchar(8);not null"`
	Title     string    `gorm:"column:title;type:text;not null"`
	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;not null;index"`
	TermID    uuid.UUID `gorm:"column:term_id;type:uuid;not null"`
	TeacherID uuid.UUID `gorm:"column:teacher_id;type:uuid;not null"`

	IsActive       bool `gorm:"column:is_active;not null;default:false"`
	PendingPublish bool `gorm:"column:pending_publish;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (assessmentRow) TableName() string { return "assessments" }

type enrollmentRow struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;not null;index:idx_enrollments_class_term"`
	TermID    uuid.UUID `gorm:"column:term_id;type:uuid;not null;index:idx_enrollments_class_term"`
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;not null"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;default:'active'"`
}

func (enrollmentRow) TableName() string { return "student_class_enrollments" }

type userRow struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Role string    `gorm:"column:role;type:varchar(16);not null;index"`
}

func (userRow) TableName() string { return "users" }

type notificationRow struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index"`
	Type        string    `gorm:"column:type;type:varchar(32);not null"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Message     string    `gorm:"column:message;type:text;not null"`
	Link        string    `gorm:"column:link;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (notificationRow) TableName() string { return "notifications" }

type analysisEventRow struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index"`
	Provider     string    `gorm:"column:provider;type:varchar(32);not null"`
	Model        string    `gorm:"column:model;type:varchar(64);not null"`
	Purpose      string    `gorm:"column:purpose;type:varchar(32);not null;index"`
	InputTokens  int       `gorm:"column:input_tokens;not null;default:0"`
	OutputTokens int       `gorm:"column:output_tokens;not null;default:0"`
	LatencyMs    int64     `gorm:"column:latency_ms;not null;default:0"`
	Success      bool      `gorm:"column:success;not null"`
	ErrorMessage string    `gorm:"column:error_message;type:text"`
	RequestBody  string    `gorm:"column:request_body;type:text"`
	ResponseBody string    `gorm:"column:response_body;type:text"`
}

func (analysisEventRow) TableName() string { return "analysis_events" }
