package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assessmentRepo struct {
	db *gorm.DB
}

func (r *assessmentRepo) GetWithQuestionStatuses(ctx context.Context, id uuid.UUID) (*Assessment, []Status, error) {
	var row assessmentRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load assessment %s: %w", id, err)
	}

	// Quiz questions live in quiz_questions, exam questions in
	// exam_questions; an assessment only ever has children in its own
	// source table.
	src := SourceQuiz
	if row.Kind == "exam" {
		src = SourceExam
	}

	var raw []string
	err = r.db.WithContext(ctx).
		Table(tableFor(src)).
		Where("assessment_id = ?", id).
		Order("created_at ASC").
		Pluck("status", &raw).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load question statuses for assessment %s: %w", id, err)
	}

	statuses := make([]Status, len(raw))
	for i, s := range raw {
		statuses[i] = Status(s)
	}

	a := &Assessment{
		ID:             row.ID,
		Kind:           row.Kind,
		Title:          row.Title,
		ClassID:        row.ClassID,
		TermID:         row.TermID,
		TeacherID:      row.TeacherID,
		IsActive:       row.IsActive,
		PendingPublish: row.PendingPublish,
	}
	return a, statuses, nil
}

// MarkActive is the race-safe publish transition: a single conditional
// UPDATE guarded by pending_publish, not a read-then-write. With several
// concurrent callers exactly one sees RowsAffected == 1.
func (r *assessmentRepo) MarkActive(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&assessmentRow{}).
		Where("id = ? AND pending_publish = ?", id, true).
		Updates(map[string]any{
			"is_active":       true,
			"pending_publish": false,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("mark assessment %s active: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
