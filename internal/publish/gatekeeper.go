// Package publish decides when an assessment goes live. An assessment saved
// with pending_publish waits until its last question reaches approved, then
// flips active exactly once even when several approvals land concurrently.
package publish

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/rizfan/soalku/internal/store"
)

// Notifier announces a publication. Best effort.
type Notifier interface {
	Published(ctx context.Context, a *store.Assessment) error
}

// Gatekeeper performs the auto-publish check and transition.
type Gatekeeper struct {
	assessments store.AssessmentRepo
	notifier    Notifier
}

// New creates a Gatekeeper.
func New(assessments store.AssessmentRepo, notifier Notifier) *Gatekeeper {
	return &Gatekeeper{assessments: assessments, notifier: notifier}
}

// TryAutoPublish publishes the assessment when every child question is
// approved. It reports whether this call performed the transition. The
// check itself is racy; correctness comes from MarkActive's conditional
// update, so of N concurrent callers exactly one returns true.
func (g *Gatekeeper) TryAutoPublish(ctx context.Context, id uuid.UUID) (bool, error) {
	a, statuses, err := g.assessments.GetWithQuestionStatuses(ctx, id)
	if err != nil {
		return false, err
	}

	if !a.PendingPublish || a.IsActive {
		return false, nil
	}
	if len(statuses) == 0 {
		// Nothing to publish yet; the teacher is still adding questions.
		return false, nil
	}
	for _, s := range statuses {
		if s != store.StatusApproved {
			return false, nil
		}
	}

	rows, err := g.assessments.MarkActive(ctx, id)
	if err != nil {
		return false, err
	}
	if rows == 0 {
		// A concurrent caller got there first.
		return false, nil
	}

	a.IsActive = true
	a.PendingPublish = false
	if err := g.notifier.Published(ctx, a); err != nil {
		log.Printf("warning: publish notification for assessment %s failed: %v", id, err)
	}
	return true, nil
}
