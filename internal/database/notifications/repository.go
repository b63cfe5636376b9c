// Package notifications persists sent reminders and admin broadcasts.
package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shloka/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a notification, assigning an id and send time when missing.
// Storing an id twice is a no-op, so a retried task is not recorded again.
func (r *Repository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(n).Error
}

// List returns notifications newest first together with the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	var rows []entities.Notification
	err := r.db.WithContext(ctx).
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// CountSince returns how many notifications of a type were sent at or after t.
func (r *Repository) CountSince(ctx context.Context, typ entities.NotificationType, t time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("type = ? AND sent_at >= ?", typ, t).
		Count(&count).Error
	return count, err
}

// Feed lists notifications newest first for one reader. Daily verse
// reminders are left out when includeDaily is false.
func (r *Repository) Feed(ctx context.Context, includeDaily bool, limit, offset int) ([]entities.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Order("sent_at DESC")
	if !includeDaily {
		q = q.Where("type <> ?", entities.NotificationDaily)
	}
	var rows []entities.Notification
	err := q.Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}
