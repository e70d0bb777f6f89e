package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Insert(ctx context.Context, batch []Notification) error {
	if len(batch) == 0 {
		return nil
	}

	rows := make([]notificationRow, len(batch))
	for i, n := range batch {
		rows[i] = notificationRow{
			RecipientID: n.RecipientID,
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			Link:        n.Link,
		}
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert %d notifications: %w", len(rows), err)
	}
	return nil
}
