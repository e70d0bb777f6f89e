package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rizfan/soalku/internal/verdict"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type verdictRepo struct {
	db *gorm.DB
}

func (r *verdictRepo) Insert(ctx context.Context, ref QuestionRef, v *verdict.Verdict) error {
	row, err := verdictToRow(ref, v)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert verdict for %s/%s: %w", ref.Source, ref.ID, err)
	}
	return nil
}

func (r *verdictRepo) LatestByQuestion(ctx context.Context, ref QuestionRef) (*verdict.Verdict, error) {
	var row verdictRow
	err := r.db.WithContext(ctx).
		Where("source = ? AND question_id = ?", string(ref.Source), ref.ID).
		Order("created_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest verdict for %s/%s: %w", ref.Source, ref.ID, err)
	}
	return rowToVerdict(&row)
}

func verdictToRow(ref QuestionRef, v *verdict.Verdict) (*verdictRow, error) {
	secondary, err := json.Marshal(v.BloomSecondary)
	if err != nil {
		return nil, fmt.Errorf("marshal bloom secondary: %w", err)
	}
	flags, err := json.Marshal(v.Flags)
	if err != nil {
		return nil, fmt.Errorf("marshal flags: %w", err)
	}
	edits, err := json.Marshal(v.SuggestedEdits)
	if err != nil {
		return nil, fmt.Errorf("marshal suggested edits: %w", err)
	}

	return &verdictRow{
		Source:          string(ref.Source),
		QuestionID:      ref.ID,
		BloomLevel:      v.BloomLevel,
		BloomSecondary:  datatypes.JSON(secondary),
		HOTSTier:        string(v.HOTS),
		BoundednessTier: string(v.Boundedness),
		DifficultyScore: v.DifficultyScore,
		DifficultyLabel: v.DifficultyLabel,
		ClarityScore:    v.ClarityScore,
		Flags:           datatypes.JSON(flags),
		SuggestedEdits:  datatypes.JSON(edits),
		ConfBloom:       v.Confidence.Bloom,
		ConfHOTS:        v.Confidence.HOTS,
		ConfBoundedness: v.Confidence.Boundedness,
		ConfDifficulty:  v.Confidence.Difficulty,
		RawReport:       datatypes.JSON(v.RawReport),
	}, nil
}

func rowToVerdict(row *verdictRow) (*verdict.Verdict, error) {
	v := &verdict.Verdict{
		BloomLevel:      row.BloomLevel,
		HOTS:            verdict.HOTSTier(row.HOTSTier),
		Boundedness:     verdict.BoundednessTier(row.BoundednessTier),
		DifficultyScore: row.DifficultyScore,
		DifficultyLabel: row.DifficultyLabel,
		ClarityScore:    row.ClarityScore,
		Confidence: verdict.Confidence{
			Bloom:       row.ConfBloom,
			HOTS:        row.ConfHOTS,
			Boundedness: row.ConfBoundedness,
			Difficulty:  row.ConfDifficulty,
		},
		RawReport: json.RawMessage(row.RawReport),
	}
	if len(row.BloomSecondary) > 0 {
		if err := json.Unmarshal(row.BloomSecondary, &v.BloomSecondary); err != nil {
			return nil, fmt.Errorf("unmarshal bloom secondary: %w", err)
		}
	}
	if len(row.Flags) > 0 {
		if err := json.Unmarshal(row.Flags, &v.Flags); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}
	if len(row.SuggestedEdits) > 0 {
		if err := json.Unmarshal(row.SuggestedEdits, &v.SuggestedEdits); err != nil {
			return nil, fmt.Errorf("unmarshal suggested edits: %w", err)
		}
	}
	return v, nil
}
