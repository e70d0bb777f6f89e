package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rizfan/soalku/internal/routing"
	"github.com/rizfan/soalku/internal/store"
)

type fakeNotifications struct {
	batches [][]store.Notification
}

func (f *fakeNotifications) Insert(_ context.Context, batch []store.Notification) error {
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeNotifications) all() []store.Notification {
	var out []store.Notification
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

type fakeRoster struct {
	admins   []uuid.UUID
	students []uuid.UUID
}

func (f *fakeRoster) EnrolledStudents(context.Context, uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	return f.students, nil
}

func (f *fakeRoster) Administrators(context.Context) ([]uuid.UUID, error) {
	return f.admins, nil
}

func TestReviewRequested_FansOutToTeacherAndAdmins(t *testing.T) {
	teacher := uuid.New()
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	repo := &fakeNotifications{}
	n := New(repo, &fakeRoster{admins: admins})

	q := &store.Question{
		Ref:       store.QuestionRef{Source: store.SourceBank, ID: uuid.New()},
		TeacherID: teacher,
		Subject:   "Biology",
	}
	d := routing.Decision{
		Action:   routing.ActionAdminReview,
		Priority: 2,
		Reasons: []routing.Reason{
			{Code: routing.CodeMissingInfo, Priority: 2, Detail: "no diagram referenced by part (b)"},
		},
	}

	if err := n.ReviewRequested(context.Background(), q, d); err != nil {
		t.Fatalf("ReviewRequested: %v", err)
	}

	got := repo.all()
	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3 (teacher + 2 admins)", len(got))
	}

	recipients := map[uuid.UUID]bool{}
	for _, m := range got {
		recipients[m.RecipientID] = true
		if m.Type != TypeReviewRequested {
			t.Errorf("Type = %q, want %q", m.Type, TypeReviewRequested)
		}
		if !strings.Contains(m.Message, "no diagram referenced") {
			t.Errorf("Message = %q, want the routing detail included", m.Message)
		}
		if !strings.Contains(m.Link, q.Ref.ID.String()) {
			t.Errorf("Link = %q, want question id included", m.Link)
		}
	}
	if !recipients[teacher] || !recipients[admins[0]] || !recipients[admins[1]] {
		t.Errorf("recipients = %v, want teacher and both admins", recipients)
	}
}

func TestReviewRequested_AdminAuthorNotDuplicated(t *testing.T) {
	author := uuid.New()
	repo := &fakeNotifications{}
	n := New(repo, &fakeRoster{admins: []uuid.UUID{author}})

	q := &store.Question{
		Ref:       store.QuestionRef{Source: store.SourceQuiz, ID: uuid.New()},
		TeacherID: author,
	}

	if err := n.ReviewRequested(context.Background(), q, routing.Decision{}); err != nil {
		t.Fatalf("ReviewRequested: %v", err)
	}
	if got := repo.all(); len(got) != 1 {
		t.Errorf("notifications = %d, want 1 when the author is the only admin", len(got))
	}
}

func TestReviewDecided_Messages(t *testing.T) {
	tests := []struct {
		name string
		rec  *store.Review
		want string
	}{
		{
			name: "approve",
			rec:  &store.Review{Decision: store.DecisionApprove},
			want: "approved",
		},
		{
			name: "return with reasons",
			rec: &store.Review{
				Decision:      store.DecisionReturn,
				ReturnReasons: []string{"answer key is wrong", "option C duplicates option A"},
			},
			want: "answer key is wrong; option C duplicates option A",
		},
		{
			name: "archive with notes",
			rec:  &store.Review{Decision: store.DecisionArchive, Notes: "duplicate of Q-112"},
			want: "duplicate of Q-112",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeNotifications{}
			n := New(repo, &fakeRoster{})
			q := &store.Question{
				Ref:       store.QuestionRef{Source: store.SourceExam, ID: uuid.New()},
				TeacherID: uuid.New(),
			}

			if err := n.ReviewDecided(context.Background(), q, tt.rec); err != nil {
				t.Fatalf("ReviewDecided: %v", err)
			}
			got := repo.all()
			if len(got) != 1 || got[0].RecipientID != q.TeacherID {
				t.Fatalf("notifications = %+v, want one to the teacher", got)
			}
			if !strings.Contains(got[0].Message, tt.want) {
				t.Errorf("Message = %q, want substring %q", got[0].Message, tt.want)
			}
		})
	}
}

func TestPublished_FansOutToClass(t *testing.T) {
	students := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	repo := &fakeNotifications{}
	n := New(repo, &fakeRoster{students: students})

	a := &store.Assessment{
		ID:        uuid.New(),
		Kind:      "exam",
		Title:     "Midterm: Forces and Motion",
		ClassID:   uuid.New(),
		TermID:    uuid.New(),
		TeacherID: uuid.New(),
	}

	if err := n.Published(context.Background(), a); err != nil {
		t.Fatalf("Published: %v", err)
	}

	got := repo.all()
	if len(got) != 4 {
		t.Fatalf("notifications = %d, want 4 (teacher + 3 students)", len(got))
	}
	if got[0].RecipientID != a.TeacherID {
		t.Errorf("first recipient = %s, want the teacher", got[0].RecipientID)
	}
	for _, m := range got[1:] {
		if !strings.Contains(m.Title, "exam") {
			t.Errorf("student Title = %q, want the assessment kind", m.Title)
		}
		if !strings.Contains(m.Message, a.Title) {
			t.Errorf("student Message = %q, want the assessment title", m.Message)
		}
	}
}
