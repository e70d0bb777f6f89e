package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rosterRepo struct {
	db *gorm.DB
}

func (r *rosterRepo) EnrolledStudents(ctx context.Context, classID, termID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&enrollmentRow{}).
		Where("class_id = ? AND term_id = ? AND status = ?", classID, termID, "active").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list enrolled students for class %s: %w", classID, err)
	}
	return ids, nil
}

func (r *rosterRepo) Administrators(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&userRow{}).
		Where("role = ?", "admin").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	return ids, nil
}
