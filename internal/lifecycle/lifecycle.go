// Package lifecycle drives a question through its quality pipeline: claim,
// analyze, persist the verdict, route, and hand off to publication. All
// analysis failures are absorbed here; the HTTP call that triggered the
// pipeline has already returned by the time any of this runs.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/rizfan/soalku/internal/analyzer"
	"github.com/rizfan/soalku/internal/routing"
	"github.com/rizfan/soalku/internal/store"
	"github.com/rizfan/soalku/internal/verdict"
)

// Analyzer is the quality-analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, in analyzer.AnalyzeInput) (*verdict.Verdict, error)
}

// Gatekeeper decides whether a question's parent assessment can go live.
type Gatekeeper interface {
	TryAutoPublish(ctx context.Context, assessmentID uuid.UUID) (bool, error)
}

// Notifier fans out pipeline events. All methods are best effort; the
// orchestrator logs failures and moves on.
type Notifier interface {
	ReviewRequested(ctx context.Context, q *store.Question, d routing.Decision) error
	ReviewDecided(ctx context.Context, q *store.Question, rec *store.Review) error
}

// Orchestrator owns every status transition a question goes through.
type Orchestrator struct {
	questions store.QuestionRepo
	verdicts  store.VerdictRepo
	reviews   store.ReviewRepo

	analyzer Analyzer
	gate     Gatekeeper
	notifier Notifier
}

// New wires an Orchestrator.
func New(
	questions store.QuestionRepo,
	verdicts store.VerdictRepo,
	reviews store.ReviewRepo,
	az Analyzer,
	gate Gatekeeper,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		questions: questions,
		verdicts:  verdicts,
		reviews:   reviews,
		analyzer:  az,
		gate:      gate,
		notifier:  notifier,
	}
}

// Process runs the full pipeline for one question. The returned error is
// informational for the dispatcher's log; every failure mode has already
// been handled (status reverted or left recoverable) by the time it returns.
func (o *Orchestrator) Process(ctx context.Context, ref store.QuestionRef) error {
	claimed, err := o.questions.ClaimForAnalysis(ctx, ref)
	if err != nil {
		return fmt.Errorf("claim %s/%s: %w", ref.Source, ref.ID, err)
	}
	if !claimed {
		// Another worker holds it, or it sits in a non-claimable state.
		return nil
	}

	q, err := o.questions.Get(ctx, ref)
	if err != nil {
		o.revert(ctx, ref)
		return fmt.Errorf("load %s/%s: %w", ref.Source, ref.ID, err)
	}

	v, err := o.analyzer.Analyze(ctx, analyzeInput(q))
	if err != nil {
		// Single attempt. Revert and wait for the next edit to re-trigger.
		o.revert(ctx, ref)
		return fmt.Errorf("analyze %s/%s: %w", ref.Source, ref.ID, err)
	}

	if err := o.verdicts.Insert(ctx, ref, v); err != nil {
		o.revert(ctx, ref)
		return fmt.Errorf("persist verdict for %s/%s: %w", ref.Source, ref.ID, err)
	}

	decision := routing.Route(v, routing.TeacherMeta{
		Difficulty: q.TeacherDifficulty,
		HOTSClaim:  q.TeacherHOTSClaim,
	})

	next := store.StatusApproved
	if decision.Action == routing.ActionAdminReview {
		next = store.StatusAdminReview
	}
	if err := o.questions.SetStatus(ctx, ref, next); err != nil {
		// The verdict row stays; a stuck "analyzing" question recovers on
		// the next edit-triggered analysis.
		return fmt.Errorf("set status %s for %s/%s: %w", next, ref.Source, ref.ID, err)
	}
	q.Status = next

	switch next {
	case store.StatusAdminReview:
		if err := o.notifier.ReviewRequested(ctx, q, decision); err != nil {
			log.Printf("warning: review-requested notification for %s/%s failed: %v", ref.Source, ref.ID, err)
		}
	case store.StatusApproved:
		o.maybePublish(ctx, q)
	}
	return nil
}

// revert puts a claimed question back to draft after a pipeline failure.
func (o *Orchestrator) revert(ctx context.Context, ref store.QuestionRef) {
	if err := o.questions.SetStatus(ctx, ref, store.StatusDraft); err != nil {
		log.Printf("warning: reverting %s/%s to draft failed: %v", ref.Source, ref.ID, err)
	}
}

// maybePublish pokes the gatekeeper when an approved question has a parent
// assessment. Best effort.
func (o *Orchestrator) maybePublish(ctx context.Context, q *store.Question) {
	if q.AssessmentID == nil {
		return
	}
	if _, err := o.gate.TryAutoPublish(ctx, *q.AssessmentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("warning: auto-publish check for assessment %s failed: %v", *q.AssessmentID, err)
	}
}

func analyzeInput(q *store.Question) analyzer.AnalyzeInput {
	return analyzer.AnalyzeInput{
		Text:              q.Text,
		Type:              q.Type,
		Options:           q.Options,
		CorrectAnswer:     q.CorrectAnswer,
		TeacherDifficulty: q.TeacherDifficulty,
		TeacherHOTSClaim:  q.TeacherHOTSClaim,
		Subject:           q.Subject,
		GradeBand:         q.GradeBand,
	}
}
