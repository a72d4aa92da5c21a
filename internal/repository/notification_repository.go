package repository

import (
	"context"
	"time"

	"github.com/terraflow/scm-backend/internal/model"
	"gorm.io/gorm"
)

// NotificationStats aggregates per-user counters for the stats endpoint.
type NotificationStats struct {
	Total        int64
	Unread       int64
	UrgentUnread int64
	Last24h      int64
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, id, userID uint64) error
	Delete(ctx context.Context, id, userID uint64) error
	DeleteOlderThan(ctx context.Context, userID uint64, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, userID uint64) (*NotificationStats, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	var list []model.Notification
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// MarkRead is idempotent: a second call on an already-read row matches zero
// rows, so ownership is re-checked with a lookup before reporting not found.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var cnt int64
		if err := r.db.WithContext(ctx).
			Model(&model.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uint64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOlderThan sweeps rows created before cutoff. userID 0 selects all
// users. Zero rows affected is not an error.
func (r *notificationRepository) DeleteOlderThan(ctx context.Context, userID uint64, cutoff time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Where("created_at < ?", cutoff)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Stats(ctx context.Context, userID uint64) (*NotificationStats, error) {
	var s NotificationStats
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_read = ?", false).Count(&s.Unread).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_read = ? AND priority = ?", false, model.PriorityUrgent).Count(&s.UrgentUnread).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ?", time.Now().Add(-24*time.Hour)).Count(&s.Last24h).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
