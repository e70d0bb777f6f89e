package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type questionRepo struct {
	db *gorm.DB
}

func (r *questionRepo) Get(ctx context.Context, ref QuestionRef) (*Question, error) {
	if !ref.Source.Valid() {
		return nil, fmt.Errorf("unknown question source %q", ref.Source)
	}

	var row questionRow
	err := r.db.WithContext(ctx).
		Table(tableFor(ref.Source)).
		Where("id = ?", ref.ID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question %s/%s: %w", ref.Source, ref.ID, err)
	}

	return rowToQuestion(ref.Source, &row)
}

func (r *questionRepo) SetStatus(ctx context.Context, ref QuestionRef, status Status) error {
	res := r.db.WithContext(ctx).
		Table(tableFor(ref.Source)).
		Where("id = ?", ref.ID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("set status %s on %s/%s: %w", status, ref.Source, ref.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimForAnalysis is a conditional update so that two concurrent triggers
// (say, two rapid edits) cannot both run the analyzer for the same question.
func (r *questionRepo) ClaimForAnalysis(ctx context.Context, ref QuestionRef) (bool, error) {
	claimable := []string{
		string(StatusDraft),
		string(StatusApproved),
		string(StatusAdminReview),
	}
	res := r.db.WithContext(ctx).
		Table(tableFor(ref.Source)).
		Where("id = ? AND status IN ?", ref.ID, claimable).
		Updates(map[string]any{
			"status":     string(StatusAnalyzing),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("claim %s/%s for analysis: %w", ref.Source, ref.ID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *questionRepo) ListByStatus(ctx context.Context, status Status) ([]Question, error) {
	var out []Question
	for _, src := range []Source{SourceBank, SourceQuiz, SourceExam} {
		var rows []questionRow
		err := r.db.WithContext(ctx).
			Table(tableFor(src)).
			Where("status = ?", string(status)).
			Order("updated_at DESC").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("list %s questions in %s: %w", status, tableFor(src), err)
		}
		for i := range rows {
			q, err := rowToQuestion(src, &rows[i])
			if err != nil {
				return nil, err
			}
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *questionRepo) ListStuckAnalyzing(ctx context.Context, cutoff time.Time) ([]Question, error) {
	var out []Question
	for _, src := range []Source{SourceBank, SourceQuiz, SourceExam} {
		var rows []questionRow
		err := r.db.WithContext(ctx).
			Table(tableFor(src)).
			Where("status = ? AND updated_at < ?", string(StatusAnalyzing), cutoff).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("list stuck questions in %s: %w", tableFor(src), err)
		}
		for i := range rows {
			q, err := rowToQuestion(src, &rows[i])
			if err != nil {
				return nil, err
			}
			out = append(out, *q)
		}
	}
	return out, nil
}

func rowToQuestion(src Source, row *questionRow) (*Question, error) {
	q := &Question{
		Ref:               QuestionRef{Source: src, ID: row.ID},
		AssessmentID:      row.AssessmentID,
		TeacherID:         row.TeacherID,
		Text:              row.Text,
		Type:              row.Type,
		CorrectAnswer:     row.CorrectAnswer,
		TeacherDifficulty: row.TeacherDifficulty,
		TeacherHOTSClaim:  row.TeacherHOTSClaim,
		Subject:           row.Subject,
		GradeBand:         row.GradeBand,
		Status:            Status(row.Status),
		UpdatedAt:         row.UpdatedAt,
	}
	if len(row.Options) > 0 {
		if err := json.Unmarshal(row.Options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %s/%s: %w", src, row.ID, err)
		}
	}
	return q, nil
}
