package lifecycle

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rizfan/soalku/internal/store"
)

// ErrInvalidTransition is returned when a review decision is not legal for
// the question's current status.
type ErrInvalidTransition struct {
	From     store.Status
	Decision store.ReviewDecision
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s a question in status %q", e.Decision, e.From)
}

// ReviewInput is one human review action.
type ReviewInput struct {
	Question   store.QuestionRef    `validate:"required"`
	ReviewerID uuid.UUID            `validate:"required"`
	Decision   store.ReviewDecision `validate:"required,oneof=approve return archive"`

	Notes         string
	ReturnReasons []string
	Overrides     *store.ReviewOverrides
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Review applies an administrator's decision. Unlike Process this runs
// synchronously under an admin's request, so validation and transition
// errors propagate to the caller.
func (o *Orchestrator) Review(ctx context.Context, in ReviewInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid review input: %w", err)
	}
	if !in.Question.Source.Valid() {
		return fmt.Errorf("invalid review input: unknown source %q", in.Question.Source)
	}
	if in.Decision == store.DecisionReturn && len(in.ReturnReasons) == 0 {
		return fmt.Errorf("invalid review input: return requires at least one reason")
	}

	q, err := o.questions.Get(ctx, in.Question)
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", in.Question.Source, in.Question.ID, err)
	}

	next, err := reviewTransition(q.Status, in.Decision)
	if err != nil {
		return err
	}

	rec := &store.Review{
		Question:      in.Question,
		ReviewerID:    in.ReviewerID,
		Decision:      in.Decision,
		Notes:         in.Notes,
		ReturnReasons: in.ReturnReasons,
		Overrides:     in.Overrides,
	}
	if err := o.reviews.Insert(ctx, rec); err != nil {
		return fmt.Errorf("persist review: %w", err)
	}

	if err := o.questions.SetStatus(ctx, in.Question, next); err != nil {
		return fmt.Errorf("set status %s: %w", next, err)
	}
	q.Status = next

	if err := o.notifier.ReviewDecided(ctx, q, rec); err != nil {
		log.Printf("warning: review-decided notification for %s/%s failed: %v", in.Question.Source, in.Question.ID, err)
	}

	if in.Decision == store.DecisionApprove {
		o.maybePublish(ctx, q)
	}
	return nil
}

// reviewTransition maps (current status, decision) to the next status.
// Approve and return act on questions awaiting review; archive additionally
// covers pulling an already-approved question out of circulation.
func reviewTransition(from store.Status, d store.ReviewDecision) (store.Status, error) {
	switch d {
	case store.DecisionApprove:
		if from == store.StatusAdminReview {
			return store.StatusApproved, nil
		}
	case store.DecisionReturn:
		if from == store.StatusAdminReview {
			return store.StatusReturned, nil
		}
	case store.DecisionArchive:
		if from == store.StatusAdminReview || from == store.StatusApproved {
			return store.StatusArchived, nil
		}
	}
	return "", &ErrInvalidTransition{From: from, Decision: d}
}
