package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Insert(ctx context.Context, rec *Review) error {
	row := &reviewRow{
		Source:     string(rec.Question.Source),
		QuestionID: rec.Question.ID,
		ReviewerID: rec.ReviewerID,
		Decision:   string(rec.Decision),
		Notes:      rec.Notes,
	}

	if len(rec.ReturnReasons) > 0 {
		b, err := json.Marshal(rec.ReturnReasons)
		if err != nil {
			return fmt.Errorf("marshal return reasons: %w", err)
		}
		row.ReturnReasons = datatypes.JSON(b)
	}
	if rec.Overrides != nil {
		b, err := json.Marshal(rec.Overrides)
		if err != nil {
			return fmt.Errorf("marshal overrides: %w", err)
		}
		row.Overrides = datatypes.JSON(b)
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert review for %s/%s: %w", rec.Question.Source, rec.Question.ID, err)
	}

	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	return nil
}
