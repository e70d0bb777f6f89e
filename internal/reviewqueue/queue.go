// Package reviewqueue assembles the administrator's work feed: every
// question awaiting review, across all three collections, ordered so the
// worst problems surface first.
package reviewqueue

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rizfan/soalku/internal/routing"
	"github.com/rizfan/soalku/internal/store"
	"github.com/rizfan/soalku/internal/verdict"
)

const defaultPerPage = 20

// Item is one queue entry: the question, its latest verdict and the routing
// decision recomputed from both.
type Item struct {
	Question store.Question   `json:"question"`
	Verdict  *verdict.Verdict `json:"verdict,omitempty"`
	Decision routing.Decision `json:"decision"`
}

// Opts filters and paginates the feed. Page is 1-based.
type Opts struct {
	Status  store.Status // optional; zero value means admin_review
	Source  store.Source // optional; zero value means all collections
	Page    int
	PerPage int
}

// Page is one slice of the feed plus totals for the pager.
type Page struct {
	Items   []Item `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// Aggregator reads the queue. It holds no state of its own.
type Aggregator struct {
	questions store.QuestionRepo
	verdicts  store.VerdictRepo
}

// New creates an Aggregator.
func New(questions store.QuestionRepo, verdicts store.VerdictRepo) *Aggregator {
	return &Aggregator{questions: questions, verdicts: verdicts}
}

// Pending returns the requested page of questions in the requested status
// (admin_review unless Opts.Status says otherwise), ordered by routing
// priority ascending, then most recently updated first. The decision is
// recomputed from the stored verdict rather than persisted at routing time,
// so threshold tuning reorders the queue without a backfill.
func (a *Aggregator) Pending(ctx context.Context, opts Opts) (*Page, error) {
	status := opts.Status
	if status == "" {
		status = store.StatusAdminReview
	}

	questions, err := a.questions.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list %s questions: %w", status, err)
	}

	items := make([]Item, 0, len(questions))
	for _, q := range questions {
		if opts.Source != "" && q.Ref.Source != opts.Source {
			continue
		}

		v, err := a.verdicts.LatestByQuestion(ctx, q.Ref)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load verdict for %s/%s: %w", q.Ref.Source, q.Ref.ID, err)
		}
		// A missing verdict routes as unclassifiable, which lands the item
		// at the head of the queue where it belongs.
		d := routing.Route(v, routing.TeacherMeta{
			Difficulty: q.TeacherDifficulty,
			HOTSClaim:  q.TeacherHOTSClaim,
		})

		items = append(items, Item{Question: q, Verdict: v, Decision: d})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Decision.Priority != items[j].Decision.Priority {
			return items[i].Decision.Priority < items[j].Decision.Priority
		}
		return items[i].Question.UpdatedAt.After(items[j].Question.UpdatedAt)
	})

	return paginate(items, opts), nil
}

func paginate(items []Item, opts Opts) *Page {
	page, per := opts.Page, opts.PerPage
	if page < 1 {
		page = 1
	}
	if per < 1 {
		per = defaultPerPage
	}

	start := (page - 1) * per
	if start > len(items) {
		start = len(items)
	}
	end := start + per
	if end > len(items) {
		end = len(items)
	}

	return &Page{
		Items:   items[start:end],
		Total:   len(items),
		Page:    page,
		PerPage: per,
	}
}
