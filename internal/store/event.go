package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendAnalysisEvent(ctx context.Context, data AnalysisEventData) error {
	row := &analysisEventRow{
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("append analysis event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnalysisEvents(ctx context.Context, opts EventQueryOpts) ([]AnalysisEvent, error) {
	q := r.db.WithContext(ctx).Model(&analysisEventRow{}).Order("id DESC")
	if opts.Purpose != "" {
		q = q.Where("purpose = ?", opts.Purpose)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []analysisEventRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query analysis events: %w", err)
	}

	out := make([]AnalysisEvent, len(rows))
	for i := range rows {
		out[i] = rowToEvent(&rows[i])
	}
	return out, nil
}

func (r *eventRepo) GetAnalysisEvent(ctx context.Context, id int64) (*AnalysisEvent, error) {
	var row analysisEventRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis event %d: %w", id, err)
	}
	e := rowToEvent(&row)
	return &e, nil
}

func rowToEvent(row *analysisEventRow) AnalysisEvent {
	return AnalysisEvent{
		ID:        row.ID,
		Timestamp: row.CreatedAt,
		AnalysisEventData: AnalysisEventData{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}
