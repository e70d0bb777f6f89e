// Package notify turns pipeline events into stored notification rows.
// Delivery (push, email, in-app badge) is the surrounding application's
// concern; this package only decides who hears about what.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rizfan/soalku/internal/routing"
	"github.com/rizfan/soalku/internal/store"
)

// Notification types, matched by the delivery side.
const (
	TypeReviewRequested = "question_review_requested"
	TypeReviewDecided   = "question_review_decided"
	TypePublished       = "assessment_published"
)

// Notifier resolves recipients and writes notification rows.
type Notifier struct {
	notifications store.NotificationRepo
	roster        store.RosterRepo
}

// New creates a Notifier.
func New(notifications store.NotificationRepo, roster store.RosterRepo) *Notifier {
	return &Notifier{notifications: notifications, roster: roster}
}

// ReviewRequested tells the authoring teacher and every administrator that
// a question needs human review.
func (n *Notifier) ReviewRequested(ctx context.Context, q *store.Question, d routing.Decision) error {
	admins, err := n.roster.Administrators(ctx)
	if err != nil {
		return fmt.Errorf("resolve administrators: %w", err)
	}

	title := "Question needs review"
	msg := fmt.Sprintf("A %s question was routed to review: %s", q.Subject, summarizeReasons(d))
	link := questionLink(q.Ref)

	batch := make([]store.Notification, 0, len(admins)+1)
	batch = append(batch, store.Notification{
		RecipientID: q.TeacherID,
		Type:        TypeReviewRequested,
		Title:       title,
		Message:     "Your question was sent to an administrator for review: " + summarizeReasons(d),
		Link:        link,
	})
	for _, id := range admins {
		if id == q.TeacherID {
			continue
		}
		batch = append(batch, store.Notification{
			RecipientID: id,
			Type:        TypeReviewRequested,
			Title:       title,
			Message:     msg,
			Link:        link,
		})
	}
	return n.notifications.Insert(ctx, batch)
}

// ReviewDecided tells the authoring teacher the outcome of a review.
func (n *Notifier) ReviewDecided(ctx context.Context, q *store.Question, rec *store.Review) error {
	var msg string
	switch rec.Decision {
	case store.DecisionApprove:
		msg = "Your question was approved."
	case store.DecisionReturn:
		msg = "Your question was returned for edits: " + strings.Join(rec.ReturnReasons, "; ")
	case store.DecisionArchive:
		msg = "Your question was archived and will not be used."
	default:
		msg = fmt.Sprintf("Your question was reviewed (%s).", rec.Decision)
	}
	if rec.Notes != "" {
		msg += " Reviewer notes: " + rec.Notes
	}

	return n.notifications.Insert(ctx, []store.Notification{{
		RecipientID: q.TeacherID,
		Type:        TypeReviewDecided,
		Title:       "Question review completed",
		Message:     msg,
		Link:        questionLink(q.Ref),
	}})
}

// Published tells the teacher and every enrolled student that an assessment
// went live.
func (n *Notifier) Published(ctx context.Context, a *store.Assessment) error {
	students, err := n.roster.EnrolledStudents(ctx, a.ClassID, a.TermID)
	if err != nil {
		return fmt.Errorf("resolve enrolled students: %w", err)
	}

	link := fmt.Sprintf("/assessments/%s", a.ID)
	batch := make([]store.Notification, 0, len(students)+1)
	batch = append(batch, store.Notification{
		RecipientID: a.TeacherID,
		Type:        TypePublished,
		Title:       "Assessment published",
		Message:     fmt.Sprintf("All questions in %q passed quality checks; the %s is now visible to students.", a.Title, a.Kind),
		Link:        link,
	})
	for _, id := range students {
		batch = append(batch, store.Notification{
			RecipientID: id,
			Type:        TypePublished,
			Title:       fmt.Sprintf("New %s available", a.Kind),
			Message:     fmt.Sprintf("%q is now open.", a.Title),
			Link:        link,
		})
	}
	return n.notifications.Insert(ctx, batch)
}

func questionLink(ref store.QuestionRef) string {
	return fmt.Sprintf("/questions/%s/%s", ref.Source, ref.ID)
}

// summarizeReasons renders routing reasons for a human, worst first.
func summarizeReasons(d routing.Decision) string {
	if len(d.Reasons) == 0 {
		return "no reasons recorded"
	}
	parts := make([]string, len(d.Reasons))
	for i, r := range d.Reasons {
		parts[i] = r.Detail
	}
	return strings.Join(parts, "; ")
}
